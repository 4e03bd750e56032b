package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/faisal004/pulseboard/internal/models"
)

// TaskRepo handles all reads and writes for kanban tasks
type TaskRepo struct {
	db *sql.DB

	// now is swapped out in tests for deterministic timestamps
	now func() int64
}

func newTaskRepo(db *sql.DB) *TaskRepo {
	return &TaskRepo{db: db, now: func() int64 { return time.Now().UnixMilli() }}
}

// Create inserts a new task. The id (uuid v4) and createdAt (epoch millis) are
// assigned here; caller-supplied values for either are never trusted.
func (r *TaskRepo) Create(ctx context.Context, title, description string, status models.Status, dueDate *int64) (*models.Task, error) {
	task := &models.Task{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Status:      status,
		DueDate:     dueDate,
		CreatedAt:   r.now(),
		Subtasks:    []*models.Subtask{},
	}

	row := taskToRow(task)
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO kanban_tasks (id, title, description, status, due_date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		row.ID, row.Title, row.Description, row.Status, row.DueDate, row.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return task, nil
}

// FindAll returns every task with its subtasks attached, newest task first.
// Both reads run in one transaction so a concurrent write cannot produce a
// task with a stale or missing subtask view. Exactly two queries, grouped in
// memory; never one query per task.
func (r *TaskRepo) FindAll(ctx context.Context) ([]*models.Task, error) {
	var tasks []*models.Task

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx,
			`SELECT id, title, description, status, due_date, created_at
			 FROM kanban_tasks
			 ORDER BY created_at DESC, id ASC`,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		var taskRows []taskRow
		for rows.Next() {
			var row taskRow
			if err := rows.Scan(&row.ID, &row.Title, &row.Description, &row.Status, &row.DueDate, &row.CreatedAt); err != nil {
				return err
			}
			taskRows = append(taskRows, row)
		}
		if err := rows.Err(); err != nil {
			return err
		}

		subRows, err := tx.QueryContext(ctx,
			`SELECT id, task_id, title, completed, created_at
			 FROM kanban_subtasks
			 ORDER BY created_at ASC, id ASC`,
		)
		if err != nil {
			return err
		}
		defer subRows.Close()

		subtasksByTask := make(map[string][]*models.Subtask)
		for subRows.Next() {
			var row subtaskRow
			if err := subRows.Scan(&row.ID, &row.TaskID, &row.Title, &row.Completed, &row.CreatedAt); err != nil {
				return err
			}
			subtask := rowToSubtask(row)
			subtasksByTask[subtask.TaskID] = append(subtasksByTask[subtask.TaskID], subtask)
		}
		if err := subRows.Err(); err != nil {
			return err
		}

		tasks = make([]*models.Task, 0, len(taskRows))
		for _, row := range taskRows {
			task, err := rowToTask(row, subtasksByTask[row.ID])
			if err != nil {
				return err
			}
			tasks = append(tasks, task)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return tasks, nil
}

// Update overwrites title, description, status and due date for the row
// matching task.ID and echoes the task back. The id and createdAt columns are
// never touched. Returns ErrNotFound if the id does not exist.
func (r *TaskRepo) Update(ctx context.Context, task *models.Task) (*models.Task, error) {
	row := taskToRow(task)
	result, err := r.db.ExecContext(ctx,
		`UPDATE kanban_tasks
		 SET title = ?, description = ?, status = ?, due_date = ?
		 WHERE id = ?`,
		row.Title, row.Description, row.Status, row.DueDate, row.ID,
	)
	if err != nil {
		return nil, err
	}
	if err := requireRow(result); err != nil {
		return nil, err
	}
	return task, nil
}

// UpdateStatus updates only the status column, leaving every other field as is
func (r *TaskRepo) UpdateStatus(ctx context.Context, id string, status models.Status) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE kanban_tasks SET status = ? WHERE id = ?`,
		string(status), id,
	)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// Delete removes the task row. Its subtasks are removed by the engine's
// ON DELETE CASCADE in the same statement, so no orphan is ever observable.
func (r *TaskRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM kanban_tasks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}
