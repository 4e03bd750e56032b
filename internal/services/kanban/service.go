// Package kanban holds the business layer between the sync bridge and the
// task repository: input validation, status rules and change notifications.
package kanban

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/faisal004/pulseboard/internal/database"
	"github.com/faisal004/pulseboard/internal/events"
	"github.com/faisal004/pulseboard/internal/models"
)

// Service defines all board operations exposed over the bridge
type Service interface {
	CreateTask(ctx context.Context, req CreateTaskRequest) (*models.Task, error)
	FindAllTasks(ctx context.Context) ([]*models.Task, error)
	UpdateTask(ctx context.Context, task *models.Task) (*models.Task, error)
	UpdateTaskStatus(ctx context.Context, id string, status models.Status) error
	DeleteTask(ctx context.Context, id string) error

	CreateSubtask(ctx context.Context, req CreateSubtaskRequest) (*models.Subtask, error)
	ToggleSubtask(ctx context.Context, id string, completed bool) error
	DeleteSubtask(ctx context.Context, id string) error
}

// CreateTaskRequest encapsulates the caller-settable fields of a new task.
// The id and createdAt are repository-assigned and cannot be supplied.
type CreateTaskRequest struct {
	Title       string
	Description string
	Status      models.Status
	DueDate     *int64
}

// CreateSubtaskRequest encapsulates the caller-settable fields of a new subtask
type CreateSubtaskRequest struct {
	TaskID string
	Title  string
}

type service struct {
	store     database.KanbanStore
	publisher events.EventPublisher
}

// NewService creates a new board service. publisher may be nil, in which case
// change notifications are skipped.
func NewService(store database.KanbanStore, publisher events.EventPublisher) Service {
	return &service{store: store, publisher: publisher}
}

// CreateTask validates the request and inserts a new task. An empty status
// defaults to todo, matching the board's initial-column rule.
func (s *service) CreateTask(ctx context.Context, req CreateTaskRequest) (*models.Task, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrEmptyTitle
	}
	if len(req.Title) > 255 {
		return nil, ErrTitleTooLong
	}

	status := req.Status
	if status == "" {
		status = models.StatusTodo
	}
	if _, err := models.ParseStatus(string(status)); err != nil {
		return nil, ErrInvalidStatus
	}

	task, err := s.store.CreateTask(ctx, req.Title, req.Description, status, req.DueDate)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.publishBoardChanged()
	return task, nil
}

// FindAllTasks returns the full board, newest task first
func (s *service) FindAllTasks(ctx context.Context) ([]*models.Task, error) {
	return s.store.FindAllTasks(ctx)
}

// UpdateTask overwrites a task's mutable fields and echoes it back
func (s *service) UpdateTask(ctx context.Context, task *models.Task) (*models.Task, error) {
	if task == nil || task.ID == "" {
		return nil, ErrInvalidTaskID
	}
	if strings.TrimSpace(task.Title) == "" {
		return nil, ErrEmptyTitle
	}
	if len(task.Title) > 255 {
		return nil, ErrTitleTooLong
	}
	if _, err := models.ParseStatus(string(task.Status)); err != nil {
		return nil, ErrInvalidStatus
	}

	updated, err := s.store.UpdateTask(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	s.publishBoardChanged()
	return updated, nil
}

// UpdateTaskStatus moves a task to another column, touching nothing else
func (s *service) UpdateTaskStatus(ctx context.Context, id string, status models.Status) error {
	if id == "" {
		return ErrInvalidTaskID
	}
	if _, err := models.ParseStatus(string(status)); err != nil {
		return ErrInvalidStatus
	}

	if err := s.store.UpdateTaskStatus(ctx, id, status); err != nil {
		return err
	}

	s.publishBoardChanged()
	return nil
}

// DeleteTask removes a task; its subtasks go with it (storage cascade)
func (s *service) DeleteTask(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidTaskID
	}

	if err := s.store.DeleteTask(ctx, id); err != nil {
		return err
	}

	s.publishBoardChanged()
	return nil
}

// CreateSubtask validates the request and inserts a new subtask.
// Whether TaskID references an existing task is left to the storage engine's
// referential-integrity check.
func (s *service) CreateSubtask(ctx context.Context, req CreateSubtaskRequest) (*models.Subtask, error) {
	if req.TaskID == "" {
		return nil, ErrInvalidTaskID
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrEmptyTitle
	}
	if len(req.Title) > 255 {
		return nil, ErrTitleTooLong
	}

	subtask, err := s.store.CreateSubtask(ctx, req.TaskID, req.Title)
	if err != nil {
		return nil, fmt.Errorf("failed to create subtask: %w", err)
	}

	s.publishBoardChanged()
	return subtask, nil
}

// ToggleSubtask sets the completed flag to exactly the given final state
func (s *service) ToggleSubtask(ctx context.Context, id string, completed bool) error {
	if id == "" {
		return ErrInvalidID
	}

	if err := s.store.ToggleSubtask(ctx, id, completed); err != nil {
		return err
	}

	s.publishBoardChanged()
	return nil
}

// DeleteSubtask removes a subtask
func (s *service) DeleteSubtask(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidID
	}

	if err := s.store.DeleteSubtask(ctx, id); err != nil {
		return err
	}

	s.publishBoardChanged()
	return nil
}

// publishBoardChanged notifies connected clients that the board changed.
// Fire-and-forget: a full queue is logged, never surfaced to the caller.
func (s *service) publishBoardChanged() {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.SendEvent(events.Event{
		Type:      events.EventBoardChanged,
		Timestamp: time.Now(),
	}); err != nil {
		slog.Warn("failed to publish board-changed event", "error", err)
	}
}
