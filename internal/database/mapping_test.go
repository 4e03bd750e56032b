package database

import (
	"database/sql"
	"testing"

	"github.com/faisal004/pulseboard/internal/models"
)

func TestRowToTask(t *testing.T) {
	row := taskRow{
		ID:          "t1",
		Title:       "Title",
		Description: "Desc",
		Status:      "in-progress",
		DueDate:     sql.NullInt64{Int64: 1800000000000, Valid: true},
		CreatedAt:   1700000000000,
	}

	task, err := rowToTask(row, nil)
	if err != nil {
		t.Fatalf("rowToTask failed: %v", err)
	}
	if task.Status != models.StatusInProgress {
		t.Errorf("Status = %q, want in-progress", task.Status)
	}
	if task.DueDate == nil || *task.DueDate != 1800000000000 {
		t.Errorf("DueDate = %v, want 1800000000000", task.DueDate)
	}
	if task.Subtasks == nil || len(task.Subtasks) != 0 {
		t.Error("nil subtasks should map to an empty slice")
	}
}

func TestRowToTaskNullDueDate(t *testing.T) {
	task, err := rowToTask(taskRow{ID: "t1", Status: "todo"}, nil)
	if err != nil {
		t.Fatalf("rowToTask failed: %v", err)
	}
	if task.DueDate != nil {
		t.Error("NULL due date must surface as absent, never as zero")
	}
}

func TestRowToTaskCorruptStatus(t *testing.T) {
	if _, err := rowToTask(taskRow{ID: "t1", Status: "blocked"}, nil); err == nil {
		t.Error("Unrecognized status token must be an error, not coerced")
	}
}

func TestRowToSubtaskCompletedFlag(t *testing.T) {
	done := rowToSubtask(subtaskRow{ID: "s1", TaskID: "t1", Completed: 1})
	if !done.Completed {
		t.Error("completed=1 should map to true")
	}
	open := rowToSubtask(subtaskRow{ID: "s2", TaskID: "t1", Completed: 0})
	if open.Completed {
		t.Error("completed=0 should map to false")
	}
}

func TestTaskRowRoundTrip(t *testing.T) {
	due := int64(1800000000000)
	task := &models.Task{
		ID:          "t1",
		Title:       "Title",
		Description: "Desc",
		Status:      models.StatusDone,
		DueDate:     &due,
		CreatedAt:   1700000000000,
	}

	back, err := rowToTask(taskToRow(task), nil)
	if err != nil {
		t.Fatalf("round trip failed: %v", err)
	}
	if back.ID != task.ID || back.Title != task.Title || back.Status != task.Status ||
		back.CreatedAt != task.CreatedAt || *back.DueDate != *task.DueDate {
		t.Errorf("round trip mismatch: %+v vs %+v", back, task)
	}
}

func TestSubtaskRowRoundTrip(t *testing.T) {
	subtask := &models.Subtask{
		ID:        "s1",
		TaskID:    "t1",
		Title:     "Child",
		Completed: true,
		CreatedAt: 1700000000000,
	}

	back := rowToSubtask(subtaskToRow(subtask))
	if *back != *subtask {
		t.Errorf("round trip mismatch: %+v vs %+v", back, subtask)
	}
}
