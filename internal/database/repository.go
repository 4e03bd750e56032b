package database

import (
	"context"
	"database/sql"

	"github.com/faisal004/pulseboard/internal/models"
)

// KanbanStore defines the full data-access contract the rest of the
// application depends on. Consumers take this interface, not *Repository,
// so tests can substitute an in-memory fake.
type KanbanStore interface {
	// Tasks
	CreateTask(ctx context.Context, title, description string, status models.Status, dueDate *int64) (*models.Task, error)
	FindAllTasks(ctx context.Context) ([]*models.Task, error)
	UpdateTask(ctx context.Context, task *models.Task) (*models.Task, error)
	UpdateTaskStatus(ctx context.Context, id string, status models.Status) error
	DeleteTask(ctx context.Context, id string) error

	// Subtasks
	CreateSubtask(ctx context.Context, taskID, title string) (*models.Subtask, error)
	ToggleSubtask(ctx context.Context, id string, completed bool) error
	DeleteSubtask(ctx context.Context, id string) error
}

// Repository provides a unified interface to all board data operations.
// It composes entity-specific repositories using struct embedding and is
// constructed once with the shared database handle injected at startup.
type Repository struct {
	*TaskRepo
	*SubtaskRepo
}

// NewRepository creates a new Repository instance wrapping the given database connection.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		TaskRepo:    newTaskRepo(db),
		SubtaskRepo: newSubtaskRepo(db),
	}
}

// Wrapper methods for TaskRepo

func (r *Repository) CreateTask(ctx context.Context, title, description string, status models.Status, dueDate *int64) (*models.Task, error) {
	return r.TaskRepo.Create(ctx, title, description, status, dueDate)
}

func (r *Repository) FindAllTasks(ctx context.Context) ([]*models.Task, error) {
	return r.TaskRepo.FindAll(ctx)
}

func (r *Repository) UpdateTask(ctx context.Context, task *models.Task) (*models.Task, error) {
	return r.TaskRepo.Update(ctx, task)
}

func (r *Repository) UpdateTaskStatus(ctx context.Context, id string, status models.Status) error {
	return r.TaskRepo.UpdateStatus(ctx, id, status)
}

func (r *Repository) DeleteTask(ctx context.Context, id string) error {
	return r.TaskRepo.Delete(ctx, id)
}

// Wrapper methods for SubtaskRepo

func (r *Repository) CreateSubtask(ctx context.Context, taskID, title string) (*models.Subtask, error) {
	return r.SubtaskRepo.Create(ctx, taskID, title)
}

func (r *Repository) ToggleSubtask(ctx context.Context, id string, completed bool) error {
	return r.SubtaskRepo.Toggle(ctx, id, completed)
}

func (r *Repository) DeleteSubtask(ctx context.Context, id string) error {
	return r.SubtaskRepo.Delete(ctx, id)
}
