package board

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faisal004/pulseboard/internal/models"
)

// fakeBridge serves a fixed authoritative list and counts fetches
type fakeBridge struct {
	tasks   []*models.Task
	err     error
	fetches int
}

func (f *fakeBridge) FindAllTasks(ctx context.Context) ([]*models.Task, error) {
	f.fetches++
	if f.err != nil {
		return nil, f.err
	}
	return f.tasks, nil
}

func task(id, title string, status models.Status) *models.Task {
	return &models.Task{ID: id, Title: title, Status: status, Subtasks: []*models.Subtask{}}
}

func TestRefreshLoadsAuthoritativeList(t *testing.T) {
	bridge := &fakeBridge{tasks: []*models.Task{task("t1", "a", models.StatusTodo)}}
	b := New(bridge)

	require.NoError(t, b.Refresh(context.Background()))
	assert.Len(t, b.Tasks(), 1)
}

func TestMutateSuccessKeepsOptimisticState(t *testing.T) {
	bridge := &fakeBridge{tasks: []*models.Task{task("t1", "a", models.StatusTodo)}}
	b := New(bridge)
	require.NoError(t, b.Refresh(context.Background()))
	fetchesBefore := bridge.fetches

	err := b.Mutate(context.Background(),
		WithStatus("t1", models.StatusDone),
		func(ctx context.Context) error { return nil },
	)
	require.NoError(t, err)

	// On success the optimistic state stands; no reconciling re-fetch happens
	assert.Equal(t, fetchesBefore, bridge.fetches)
	assert.Equal(t, models.StatusDone, b.Tasks()[0].Status)
}

func TestMutateFailureReconcilesViaRefetch(t *testing.T) {
	bridge := &fakeBridge{tasks: []*models.Task{task("t1", "a", models.StatusTodo)}}
	b := New(bridge)
	require.NoError(t, b.Refresh(context.Background()))

	callErr := errors.New("constraint violation")
	err := b.Mutate(context.Background(),
		WithStatus("t1", models.StatusDone),
		func(ctx context.Context) error { return callErr },
	)
	assert.ErrorIs(t, err, callErr, "the original error surfaces, not the refresh outcome")

	// The optimistic guess is discarded in favor of the authoritative list
	assert.Equal(t, models.StatusTodo, b.Tasks()[0].Status)
	assert.Equal(t, 2, bridge.fetches)
}

func TestWithStatusLeavesOtherTasksAlone(t *testing.T) {
	tasks := []*models.Task{
		task("t1", "a", models.StatusTodo),
		task("t2", "b", models.StatusTodo),
	}

	out := WithStatus("t2", models.StatusInProgress)(tasks)

	assert.Equal(t, models.StatusTodo, out[0].Status)
	assert.Equal(t, models.StatusInProgress, out[1].Status)
	// The untouched task is shared, the moved one is a copy
	assert.Same(t, tasks[0], out[0])
	assert.NotSame(t, tasks[1], out[1])
	assert.Equal(t, models.StatusTodo, tasks[1].Status, "input list is not mutated")
}

func TestWithoutDropsOnlyTheTarget(t *testing.T) {
	tasks := []*models.Task{
		task("t1", "a", models.StatusTodo),
		task("t2", "b", models.StatusDone),
	}

	out := Without("t1")(tasks)
	require.Len(t, out, 1)
	assert.Equal(t, "t2", out[0].ID)
}

func TestPrependPutsNewTaskFirst(t *testing.T) {
	existing := []*models.Task{task("t1", "a", models.StatusTodo)}
	fresh := task("t2", "b", models.StatusTodo)

	out := Prepend(fresh)(existing)
	require.Len(t, out, 2)
	assert.Equal(t, "t2", out[0].ID)
}

func TestColumnsGroupsByStatus(t *testing.T) {
	bridge := &fakeBridge{tasks: []*models.Task{
		task("t1", "a", models.StatusTodo),
		task("t2", "b", models.StatusDone),
		task("t3", "c", models.StatusTodo),
	}}
	b := New(bridge)
	require.NoError(t, b.Refresh(context.Background()))

	cols := b.Columns()
	assert.Len(t, cols[models.StatusTodo], 2)
	assert.Len(t, cols[models.StatusInProgress], 0)
	assert.Len(t, cols[models.StatusDone], 1)
	// Order within a column follows list order
	assert.Equal(t, "t1", cols[models.StatusTodo][0].ID)
	assert.Equal(t, "t3", cols[models.StatusTodo][1].ID)
}
