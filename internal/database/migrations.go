package database

import (
	"context"
	"database/sql"
)

// runMigrations creates the board schema if it does not exist yet
func runMigrations(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS kanban_tasks (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			due_date INTEGER,
			created_at INTEGER NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS kanban_subtasks (
			id TEXT PRIMARY KEY,
			task_id TEXT NOT NULL,
			title TEXT NOT NULL,
			completed INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL,
			FOREIGN KEY (task_id) REFERENCES kanban_tasks(id) ON DELETE CASCADE
		)
	`)
	if err != nil {
		return err
	}

	// Index for grouping subtasks under their task
	_, err = db.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS idx_kanban_subtasks_task
		ON kanban_subtasks(task_id, created_at)
	`)
	return err
}
