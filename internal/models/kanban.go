package models

import "fmt"

// Status is the board column a task lives in.
// It is persisted as the exact token string; nothing else is representable.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
)

// ParseStatus validates a status token read from storage or the wire.
// An unrecognized token is a data-corruption condition, not something to coerce.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusTodo, StatusInProgress, StatusDone:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// Task represents a single task on the kanban board
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      Status     `json:"status"`
	DueDate     *int64     `json:"dueDate,omitempty"` // epoch millis, nil means no due date
	CreatedAt   int64      `json:"createdAt"`         // epoch millis, assigned by the repository
	Subtasks    []*Subtask `json:"subtasks"`
}

// Subtask is a checklist item owned by exactly one task
type Subtask struct {
	ID        string `json:"id"`
	TaskID    string `json:"taskId"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	CreatedAt int64  `json:"createdAt"`
}
