package database

import (
	"context"
	"database/sql"
	"testing"

	"github.com/faisal004/pulseboard/internal/models"
	_ "modernc.org/sqlite"
)

// setupTestDB creates an in-memory database and runs migrations.
// This is the unified test database setup used by all tests.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	// One connection, or each connection would see its own empty :memory: db
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}

	if err := runMigrations(context.Background(), db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return db
}

// setupRepo builds a Repository with a deterministic clock: every creation
// gets a strictly increasing millisecond timestamp.
func setupRepo(t *testing.T) *Repository {
	t.Helper()
	repo := NewRepository(setupTestDB(t))

	var tick int64 = 1700000000000
	next := func() int64 {
		tick++
		return tick
	}
	repo.TaskRepo.now = next
	repo.SubtaskRepo.now = next

	return repo
}

// mustCreateTask creates a task or fails the test
func mustCreateTask(t *testing.T, repo *Repository, title string, status models.Status) *models.Task {
	t.Helper()
	task, err := repo.CreateTask(context.Background(), title, "", status, nil)
	if err != nil {
		t.Fatalf("Failed to create task %q: %v", title, err)
	}
	return task
}
