package app

import (
	"github.com/faisal004/pulseboard/internal/database"
	"github.com/faisal004/pulseboard/internal/events"
	kanbanservice "github.com/faisal004/pulseboard/internal/services/kanban"
	"github.com/faisal004/pulseboard/internal/settings"
)

// App holds all daemon-side services and provides dependency injection.
// Everything is constructed once at startup with explicit handles; nothing
// reaches for a global.
type App struct {
	repo      database.KanbanStore
	publisher events.EventPublisher

	KanbanService kanbanservice.Service
	Settings      *settings.Store
}

// New creates the application container around the injected repository,
// publisher and settings store.
func New(repo database.KanbanStore, publisher events.EventPublisher, settingsStore *settings.Store) *App {
	return &App{
		repo:          repo,
		publisher:     publisher,
		KanbanService: kanbanservice.NewService(repo, publisher),
		Settings:      settingsStore,
	}
}

// Repo returns the underlying repository for direct storage access
func (a *App) Repo() database.KanbanStore {
	return a.repo
}
