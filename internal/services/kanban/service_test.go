package kanban

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faisal004/pulseboard/internal/events"
	"github.com/faisal004/pulseboard/internal/models"
)

// fakeStore records calls and returns canned results
type fakeStore struct {
	createErr error
	mutateErr error

	created     []models.Task
	statusCalls []string
	deleted     []string
	subCreated  []models.Subtask
	toggled     []string
	subDeleted  []string
}

func (f *fakeStore) CreateTask(ctx context.Context, title, description string, status models.Status, dueDate *int64) (*models.Task, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	task := models.Task{ID: "t1", Title: title, Description: description, Status: status, DueDate: dueDate, Subtasks: []*models.Subtask{}}
	f.created = append(f.created, task)
	return &task, nil
}

func (f *fakeStore) FindAllTasks(ctx context.Context) ([]*models.Task, error) {
	return []*models.Task{}, nil
}

func (f *fakeStore) UpdateTask(ctx context.Context, task *models.Task) (*models.Task, error) {
	if f.mutateErr != nil {
		return nil, f.mutateErr
	}
	return task, nil
}

func (f *fakeStore) UpdateTaskStatus(ctx context.Context, id string, status models.Status) error {
	if f.mutateErr != nil {
		return f.mutateErr
	}
	f.statusCalls = append(f.statusCalls, id+":"+string(status))
	return nil
}

func (f *fakeStore) DeleteTask(ctx context.Context, id string) error {
	if f.mutateErr != nil {
		return f.mutateErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeStore) CreateSubtask(ctx context.Context, taskID, title string) (*models.Subtask, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	subtask := models.Subtask{ID: "s1", TaskID: taskID, Title: title}
	f.subCreated = append(f.subCreated, subtask)
	return &subtask, nil
}

func (f *fakeStore) ToggleSubtask(ctx context.Context, id string, completed bool) error {
	if f.mutateErr != nil {
		return f.mutateErr
	}
	f.toggled = append(f.toggled, id)
	return nil
}

func (f *fakeStore) DeleteSubtask(ctx context.Context, id string) error {
	if f.mutateErr != nil {
		return f.mutateErr
	}
	f.subDeleted = append(f.subDeleted, id)
	return nil
}

// recordingPublisher captures published events
type recordingPublisher struct {
	sent []events.Event
}

func (p *recordingPublisher) SendEvent(event events.Event) error {
	p.sent = append(p.sent, event)
	return nil
}

func TestCreateTaskValidation(t *testing.T) {
	svc := NewService(&fakeStore{}, nil)
	ctx := context.Background()

	_, err := svc.CreateTask(ctx, CreateTaskRequest{Title: ""})
	assert.ErrorIs(t, err, ErrEmptyTitle)

	_, err = svc.CreateTask(ctx, CreateTaskRequest{Title: "   "})
	assert.ErrorIs(t, err, ErrEmptyTitle, "whitespace-only title is empty")

	long := make([]byte, 256)
	for i := range long {
		long[i] = 'a'
	}
	_, err = svc.CreateTask(ctx, CreateTaskRequest{Title: string(long)})
	assert.ErrorIs(t, err, ErrTitleTooLong)

	_, err = svc.CreateTask(ctx, CreateTaskRequest{Title: "ok", Status: "archived"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestCreateTaskDefaultsToTodo(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, nil)

	task, err := svc.CreateTask(context.Background(), CreateTaskRequest{Title: "Plan week"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusTodo, task.Status)
}

func TestMutationsPublishBoardChanged(t *testing.T) {
	store := &fakeStore{}
	pub := &recordingPublisher{}
	svc := NewService(store, pub)
	ctx := context.Background()

	_, err := svc.CreateTask(ctx, CreateTaskRequest{Title: "a"})
	require.NoError(t, err)
	require.NoError(t, svc.UpdateTaskStatus(ctx, "t1", models.StatusDone))
	require.NoError(t, svc.DeleteTask(ctx, "t1"))
	_, err = svc.CreateSubtask(ctx, CreateSubtaskRequest{TaskID: "t1", Title: "s"})
	require.NoError(t, err)
	require.NoError(t, svc.ToggleSubtask(ctx, "s1", true))
	require.NoError(t, svc.DeleteSubtask(ctx, "s1"))

	require.Len(t, pub.sent, 6)
	for _, event := range pub.sent {
		assert.Equal(t, events.EventBoardChanged, event.Type)
	}
}

func TestReadsDoNotPublish(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewService(&fakeStore{}, pub)

	_, err := svc.FindAllTasks(context.Background())
	require.NoError(t, err)
	assert.Empty(t, pub.sent)
}

func TestFailedMutationDoesNotPublish(t *testing.T) {
	storeErr := errors.New("disk full")
	store := &fakeStore{mutateErr: storeErr}
	pub := &recordingPublisher{}
	svc := NewService(store, pub)

	err := svc.DeleteTask(context.Background(), "t1")
	assert.ErrorIs(t, err, storeErr, "storage errors propagate unchanged")
	assert.Empty(t, pub.sent)
}

func TestUpdateTaskValidation(t *testing.T) {
	svc := NewService(&fakeStore{}, nil)
	ctx := context.Background()

	_, err := svc.UpdateTask(ctx, nil)
	assert.ErrorIs(t, err, ErrInvalidTaskID)

	_, err = svc.UpdateTask(ctx, &models.Task{ID: "", Title: "x", Status: models.StatusTodo})
	assert.ErrorIs(t, err, ErrInvalidTaskID)

	_, err = svc.UpdateTask(ctx, &models.Task{ID: "t1", Title: "", Status: models.StatusTodo})
	assert.ErrorIs(t, err, ErrEmptyTitle)

	_, err = svc.UpdateTask(ctx, &models.Task{ID: "t1", Title: "x", Status: "bogus"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestUpdateStatusValidation(t *testing.T) {
	svc := NewService(&fakeStore{}, nil)
	ctx := context.Background()

	assert.ErrorIs(t, svc.UpdateTaskStatus(ctx, "", models.StatusDone), ErrInvalidTaskID)
	assert.ErrorIs(t, svc.UpdateTaskStatus(ctx, "t1", "bogus"), ErrInvalidStatus)
}

func TestCreateSubtaskValidation(t *testing.T) {
	svc := NewService(&fakeStore{}, nil)
	ctx := context.Background()

	_, err := svc.CreateSubtask(ctx, CreateSubtaskRequest{TaskID: "", Title: "x"})
	assert.ErrorIs(t, err, ErrInvalidTaskID)

	_, err = svc.CreateSubtask(ctx, CreateSubtaskRequest{TaskID: "t1", Title: " "})
	assert.ErrorIs(t, err, ErrEmptyTitle)
}

func TestNilPublisherIsFine(t *testing.T) {
	svc := NewService(&fakeStore{}, nil)

	_, err := svc.CreateTask(context.Background(), CreateTaskRequest{Title: "no publisher"})
	assert.NoError(t, err)
}
