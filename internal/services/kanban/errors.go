package kanban

import "errors"

// Validation errors
var (
	ErrEmptyTitle    = errors.New("task title cannot be empty")
	ErrTitleTooLong  = errors.New("task title cannot exceed 255 characters")
	ErrInvalidTaskID = errors.New("invalid task ID")
	ErrInvalidID     = errors.New("invalid ID")
	ErrInvalidStatus = errors.New("invalid status")
)
