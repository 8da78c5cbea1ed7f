package persistence

import (
	"context"
	"fmt"
)

const schemaVersion = 1

// initSchema creates all required tables if they don't exist.
func (s *SQLiteStore) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS projects (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		code TEXT NOT NULL UNIQUE,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		next_task_sequence INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	-- AUTOINCREMENT so task ids are never reused after a delete.
	CREATE TABLE IF NOT EXISTS tasks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		display_id TEXT NOT NULL UNIQUE,
		project_id INTEGER NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		position INTEGER NOT NULL,
		priority TEXT NOT NULL DEFAULT 'MEDIUM',
		story_points INTEGER,
		prompt TEXT NOT NULL DEFAULT '',
		git_feature_branch TEXT NOT NULL DEFAULT '',
		git_pull_request_url TEXT NOT NULL DEFAULT '',
		is_blocked INTEGER NOT NULL DEFAULT 0,
		blocked_reason TEXT NOT NULL DEFAULT '',
		started_at DATETIME,
		completed_at DATETIME,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_column ON tasks(project_id, status, position);

	CREATE TABLE IF NOT EXISTS tags (
		name TEXT PRIMARY KEY,
		color TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS task_tags (
		task_id INTEGER NOT NULL,
		tag TEXT NOT NULL,
		PRIMARY KEY (task_id, tag),
		FOREIGN KEY (task_id) REFERENCES tasks(id) ON DELETE CASCADE,
		FOREIGN KEY (tag) REFERENCES tags(name) ON DELETE CASCADE
	);
	`

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("failed to set schema version: %w", err)
	}
	return nil
}
