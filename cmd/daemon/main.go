package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/faisal004/pulseboard/internal/app"
	"github.com/faisal004/pulseboard/internal/daemon"
	"github.com/faisal004/pulseboard/internal/database"
	"github.com/faisal004/pulseboard/internal/logging"
	"github.com/faisal004/pulseboard/internal/settings"
	"github.com/faisal004/pulseboard/internal/stats"
	"github.com/faisal004/pulseboard/internal/updater"
)

// SocketPath returns the bridge socket location, ~/.pulseboard/bridge.sock
func SocketPath() (string, error) {
	home := os.Getenv("HOME")
	if home == "" {
		var err error
		home, err = os.UserHomeDir()
		if err != nil {
			return "", err
		}
	}

	dir := filepath.Join(home, ".pulseboard")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return filepath.Join(dir, "bridge.sock"), nil
}

func main() {
	if err := logging.Init(); err != nil {
		slog.Error("failed to initialize logging", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer cancel()

	dbPath, err := database.DefaultPath()
	if err != nil {
		slog.Error("failed to resolve database path", "error", err)
		os.Exit(1)
	}

	db, err := database.InitDB(ctx, dbPath)
	if err != nil {
		slog.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	repo := database.NewRepository(db)

	settingsPath, err := settings.DefaultPath()
	if err != nil {
		slog.Error("failed to resolve settings path", "error", err)
		os.Exit(1)
	}
	settingsStore, err := settings.NewStore(settingsPath)
	if err != nil {
		slog.Error("failed to load settings", "error", err)
		os.Exit(1)
	}

	socketPath, err := SocketPath()
	if err != nil {
		slog.Error("failed to resolve socket path", "error", err)
		os.Exit(1)
	}

	// Collaborators. Real sampler and updater implementations are injected by
	// the packaging layer; the bare daemon ships with a no-op updater and no
	// sampler.
	notifier := &updater.Noop{}

	dispatcher := &daemon.Dispatcher{
		Settings: settingsStore,
		Notifier: notifier,
	}

	server, err := daemon.NewServer(socketPath, dispatcher.Handle)
	if err != nil {
		slog.Error("failed to create bridge server", "error", err)
		os.Exit(1)
	}

	a := app.New(repo, server, settingsStore)
	dispatcher.Kanban = a.KanbanService

	notifier.Subscribe(func(n updater.Notification) {
		if err := daemon.PublishNotification(server, n); err != nil {
			slog.Warn("failed to publish update notification", "state", n.State, "error", err)
		}
	})

	if dispatcher.Sampler != nil {
		interval := time.Duration(settingsStore.Get().PollIntervalSeconds) * time.Second
		poller := stats.NewPoller(dispatcher.Sampler, interval, func(sample stats.Sample) {
			if err := daemon.PublishSample(server, sample); err != nil {
				slog.Warn("failed to publish stats sample", "error", err)
			}
		})
		go poller.Run(ctx)
	}

	if settingsStore.Get().AutoCheckUpdates {
		notifier.Check()
	}

	slog.Info("pulseboard daemon starting", "socket_path", socketPath, "db_path", dbPath, "pid", os.Getpid())

	if err := server.Start(ctx); err != nil {
		slog.Error("daemon error", "error", err)
		os.Exit(1)
	}

	slog.Info("pulseboard daemon shutting down gracefully")
}
