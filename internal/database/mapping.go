package database

import (
	"database/sql"
	"fmt"

	"github.com/faisal004/pulseboard/internal/models"
)

// taskRow mirrors one row of kanban_tasks
type taskRow struct {
	ID          string
	Title       string
	Description string
	Status      string
	DueDate     sql.NullInt64
	CreatedAt   int64
}

// subtaskRow mirrors one row of kanban_subtasks
type subtaskRow struct {
	ID        string
	TaskID    string
	Title     string
	Completed int64
	CreatedAt int64
}

// rowToTask converts a raw task row into a domain record.
// A status token outside the enumerated set means the stored data is corrupt
// and surfaces as an error rather than being coerced.
func rowToTask(row taskRow, subtasks []*models.Subtask) (*models.Task, error) {
	status, err := models.ParseStatus(row.Status)
	if err != nil {
		return nil, fmt.Errorf("corrupt task %s: %w", row.ID, err)
	}

	if subtasks == nil {
		subtasks = []*models.Subtask{}
	}

	return &models.Task{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description,
		Status:      status,
		DueDate:     nullInt64ToPtr(row.DueDate),
		CreatedAt:   row.CreatedAt,
		Subtasks:    subtasks,
	}, nil
}

// rowToSubtask converts a raw subtask row into a domain record
func rowToSubtask(row subtaskRow) *models.Subtask {
	return &models.Subtask{
		ID:        row.ID,
		TaskID:    row.TaskID,
		Title:     row.Title,
		Completed: row.Completed == 1,
		CreatedAt: row.CreatedAt,
	}
}

// taskToRow converts a domain record back to its row representation
func taskToRow(t *models.Task) taskRow {
	return taskRow{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		DueDate:     ptrToNullInt64(t.DueDate),
		CreatedAt:   t.CreatedAt,
	}
}

// subtaskToRow converts a domain record back to its row representation
func subtaskToRow(s *models.Subtask) subtaskRow {
	completed := int64(0)
	if s.Completed {
		completed = 1
	}
	return subtaskRow{
		ID:        s.ID,
		TaskID:    s.TaskID,
		Title:     s.Title,
		Completed: completed,
		CreatedAt: s.CreatedAt,
	}
}
