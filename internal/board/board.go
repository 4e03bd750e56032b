// Package board holds the client-side optimistic board state and the
// two-phase mutate/reconcile contract: apply the change locally, issue the
// call, and on failure discard the local guess and re-fetch the
// authoritative list.
package board

import (
	"context"
	"sync"

	"github.com/faisal004/pulseboard/internal/models"
)

// Store is the subset of the bridge the board needs for reconciliation
type Store interface {
	FindAllTasks(ctx context.Context) ([]*models.Task, error)
}

// Board is the local copy of the task list. Safe for concurrent use so a
// refresh triggered by a pushed event can race a user mutation.
type Board struct {
	store Store

	mu    sync.RWMutex
	tasks []*models.Task
}

// New creates an empty board backed by the given store
func New(store Store) *Board {
	return &Board{store: store}
}

// Refresh replaces local state with the authoritative list
func (b *Board) Refresh(ctx context.Context) error {
	tasks, err := b.store.FindAllTasks(ctx)
	if err != nil {
		return err
	}

	b.mu.Lock()
	b.tasks = tasks
	b.mu.Unlock()
	return nil
}

// Tasks returns the current local task list
func (b *Board) Tasks() []*models.Task {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]*models.Task, len(b.tasks))
	copy(out, b.tasks)
	return out
}

// Columns groups the current tasks by status, preserving list order
func (b *Board) Columns() map[models.Status][]*models.Task {
	cols := map[models.Status][]*models.Task{
		models.StatusTodo:       {},
		models.StatusInProgress: {},
		models.StatusDone:       {},
	}
	for _, t := range b.Tasks() {
		cols[t.Status] = append(cols[t.Status], t)
	}
	return cols
}

// Mutate runs the two-phase contract: apply the optimistic change locally,
// then issue the call. On success nothing further happens (local and
// persisted state are identical by construction, since a successful mutating
// call leaves no partial writes). On failure the local guess is discarded via
// a full re-fetch and the original error is returned.
func (b *Board) Mutate(ctx context.Context, apply func(tasks []*models.Task) []*models.Task, call func(ctx context.Context) error) error {
	b.mu.Lock()
	b.tasks = apply(b.tasks)
	b.mu.Unlock()

	if err := call(ctx); err != nil {
		// Best effort; the caller's error is the one that matters
		_ = b.Refresh(ctx)
		return err
	}
	return nil
}

// Helpers for the common optimistic edits

// WithStatus returns an apply func that moves one task to a new column
func WithStatus(id string, status models.Status) func([]*models.Task) []*models.Task {
	return func(tasks []*models.Task) []*models.Task {
		out := make([]*models.Task, len(tasks))
		for i, t := range tasks {
			if t.ID == id {
				moved := *t
				moved.Status = status
				out[i] = &moved
			} else {
				out[i] = t
			}
		}
		return out
	}
}

// Without returns an apply func that drops one task
func Without(id string) func([]*models.Task) []*models.Task {
	return func(tasks []*models.Task) []*models.Task {
		out := make([]*models.Task, 0, len(tasks))
		for _, t := range tasks {
			if t.ID != id {
				out = append(out, t)
			}
		}
		return out
	}
}

// Prepend returns an apply func that puts a freshly created task first,
// matching the newest-first ordering of the authoritative list
func Prepend(task *models.Task) func([]*models.Task) []*models.Task {
	return func(tasks []*models.Task) []*models.Task {
		out := make([]*models.Task, 0, len(tasks)+1)
		out = append(out, task)
		out = append(out, tasks...)
		return out
	}
}
