package events

import (
	"encoding/json"
	"time"

	"github.com/faisal004/pulseboard/internal/models"
)

// ProtocolVersion is bumped whenever the wire format changes incompatibly
const ProtocolVersion = 1

// EventType indicates what kind of change the daemon is pushing
type EventType string

const (
	// Board
	EventBoardChanged EventType = "board-changed"

	// Resource statistics
	EventStatsSample EventType = "stats-sample"

	// Update lifecycle, mirroring the updater's states
	EventCheckingForUpdate  EventType = "checking-for-update"
	EventUpdateAvailable    EventType = "update-available"
	EventUpdateNotAvailable EventType = "update-not-available"
	EventDownloadProgress   EventType = "download-progress"
	EventUpdateDownloaded   EventType = "update-downloaded"
	EventUpdateError        EventType = "update-error"

	EventPing EventType = "ping"
)

// Event is a notification pushed from the daemon to connected clients
type Event struct {
	Type       EventType       `json:"type"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
	SequenceID int64           `json:"sequence_id"` // monotonically increasing, for ordering
}

// Request methods exposed by the daemon
const (
	MethodKanbanCreate        = "kanban.create"
	MethodKanbanFindAll       = "kanban.findAll"
	MethodKanbanUpdate        = "kanban.update"
	MethodKanbanUpdateStatus  = "kanban.updateStatus"
	MethodKanbanDelete        = "kanban.delete"
	MethodKanbanCreateSubtask = "kanban.createSubtask"
	MethodKanbanToggleSubtask = "kanban.toggleSubtask"
	MethodKanbanDeleteSubtask = "kanban.deleteSubtask"
	MethodSettingsGet         = "settings.get"
	MethodSettingsUpdate      = "settings.update"
	MethodStatsGetStatic      = "stats.getStatic"
	MethodUpdateCheck         = "update.check"
	MethodUpdateStartDownload = "update.startDownload"
	MethodUpdateInstall       = "update.install"
)

// Message wraps requests, responses, events and control frames on the wire.
// One JSON object per line in both directions.
type Message struct {
	Version int             `json:"version"`
	Type    string          `json:"type"` // "request", "response", "event", "ping", "pong"
	ID      int64           `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   string          `json:"error,omitempty"`
	Event   *Event          `json:"event,omitempty"`
}

// CreateTaskParams carries the caller-settable task fields. The id and
// createdAt fields are assigned by the repository and have no place here.
type CreateTaskParams struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Status      models.Status `json:"status"`
	DueDate     *int64        `json:"dueDate,omitempty"`
}

// UpdateStatusParams moves a task to another column
type UpdateStatusParams struct {
	ID     string        `json:"id"`
	Status models.Status `json:"status"`
}

// IDParams targets a single task or subtask by id
type IDParams struct {
	ID string `json:"id"`
}

// CreateSubtaskParams carries the caller-settable subtask fields
type CreateSubtaskParams struct {
	TaskID string `json:"taskId"`
	Title  string `json:"title"`
}

// ToggleSubtaskParams sets a subtask's completed flag to the given final state
type ToggleSubtaskParams struct {
	ID        string `json:"id"`
	Completed bool   `json:"completed"`
}

// ProgressInfo reports update download progress
type ProgressInfo struct {
	Percent        float64 `json:"percent"`
	BytesPerSecond float64 `json:"bytesPerSecond"`
	Transferred    int64   `json:"transferred"`
	Total          int64   `json:"total"`
}
