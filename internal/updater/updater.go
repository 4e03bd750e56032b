// Package updater defines the update-lifecycle collaborator consumed by the
// daemon. Real updater implementations live outside this repository; the
// daemon only translates the callback states into bridge events.
package updater

// State is one stage of the update lifecycle
type State string

const (
	StateChecking     State = "checking-for-update"
	StateAvailable    State = "update-available"
	StateNotAvailable State = "update-not-available"
	StateDownloading  State = "download-progress"
	StateDownloaded   State = "update-downloaded"
	StateError        State = "update-error"
)

// Progress reports how far along a download is
type Progress struct {
	Percent        float64
	BytesPerSecond float64
	Transferred    int64
	Total          int64
}

// Notification is one lifecycle callback. Progress is set only for
// StateDownloading; Err only for StateError.
type Notification struct {
	State    State
	Progress *Progress
	Err      string
}

// Notifier is the collaborator interface for the auto-update flow. Downloads
// are never started automatically; the UI triggers StartDownload explicitly.
type Notifier interface {
	// Check looks for a new version; results arrive via the callback
	Check()
	// StartDownload begins downloading an available update
	StartDownload()
	// Install applies a downloaded update (typically on quit)
	Install()
	// Subscribe registers the single lifecycle callback
	Subscribe(fn func(Notification))
}

// Noop is a Notifier for builds without an update channel. Every check
// reports update-not-available.
type Noop struct {
	fn func(Notification)
}

func (n *Noop) Check() {
	if n.fn != nil {
		n.fn(Notification{State: StateChecking})
		n.fn(Notification{State: StateNotAvailable})
	}
}

func (n *Noop) StartDownload() {}

func (n *Noop) Install() {}

func (n *Noop) Subscribe(fn func(Notification)) {
	n.fn = fn
}
