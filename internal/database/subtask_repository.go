package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/faisal004/pulseboard/internal/models"
)

// SubtaskRepo handles all reads and writes for kanban subtasks
type SubtaskRepo struct {
	db *sql.DB

	now func() int64
}

func newSubtaskRepo(db *sql.DB) *SubtaskRepo {
	return &SubtaskRepo{db: db, now: func() int64 { return time.Now().UnixMilli() }}
}

// Create inserts a new subtask under taskID with completed=false.
// The id and createdAt are assigned here. Whether taskID references an
// existing task is the engine's referential-integrity concern; a violation
// propagates unchanged.
func (r *SubtaskRepo) Create(ctx context.Context, taskID, title string) (*models.Subtask, error) {
	subtask := &models.Subtask{
		ID:        uuid.NewString(),
		TaskID:    taskID,
		Title:     title,
		Completed: false,
		CreatedAt: r.now(),
	}

	row := subtaskToRow(subtask)
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO kanban_subtasks (id, task_id, title, completed, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		row.ID, row.TaskID, row.Title, row.Completed, row.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return subtask, nil
}

// Toggle sets the completed flag exactly as given; the caller supplies the
// final state, this is not a toggle of the current value.
func (r *SubtaskRepo) Toggle(ctx context.Context, id string, completed bool) error {
	flag := 0
	if completed {
		flag = 1
	}
	result, err := r.db.ExecContext(ctx,
		`UPDATE kanban_subtasks SET completed = ? WHERE id = ?`,
		flag, id,
	)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// Delete removes the subtask row
func (r *SubtaskRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM kanban_subtasks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}
