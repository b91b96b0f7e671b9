package db

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
)

// Migrate runs all schema migrations. Every statement is idempotent, so the
// whole list is replayed on each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE ADD COLUMN has no IF NOT EXISTS form in SQLite.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateLegacyCategories(db); err != nil {
		return fmt.Errorf("migrating legacy task categories: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         TEXT PRIMARY KEY,
		email      TEXT NOT NULL DEFAULT '',
		first_name TEXT NOT NULL DEFAULT '',
		last_name  TEXT NOT NULL DEFAULT '',
		image_url  TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS tasks (
		id            TEXT PRIMARY KEY,
		user_id       TEXT NOT NULL,
		name          TEXT NOT NULL,
		category_name TEXT NOT NULL,
		description   TEXT NOT NULL DEFAULT '',
		subtasks      TEXT NOT NULL DEFAULT '[]',
		priority      TEXT NOT NULL DEFAULT 'medium'
		              CHECK(priority IN ('high','medium','low')),
		tags          TEXT NOT NULL DEFAULT '[]',
		is_completed  INTEGER NOT NULL DEFAULT 0,
		created_at    TEXT NOT NULL,
		modified_at   TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_tasks_user ON tasks(user_id)`,

	// Due dates arrived after the first release.
	`ALTER TABLE tasks ADD COLUMN due_date TEXT`,
	`ALTER TABLE tasks ADD COLUMN due_time TEXT NOT NULL DEFAULT ''`,

	// Categories became an explicit preset/custom variant. Rows written
	// before this carry '' and are backfilled by migrateLegacyCategories.
	`ALTER TABLE tasks ADD COLUMN category_kind TEXT NOT NULL DEFAULT ''`,
	`ALTER TABLE tasks ADD COLUMN category_color TEXT NOT NULL DEFAULT ''`,

	`CREATE TABLE IF NOT EXISTS sticky_notes (
		id            TEXT PRIMARY KEY,
		user_id       TEXT NOT NULL,
		name          TEXT NOT NULL,
		description   TEXT NOT NULL DEFAULT '',
		color         TEXT NOT NULL DEFAULT '',
		icon          TEXT NOT NULL DEFAULT '',
		pos_x         REAL NOT NULL DEFAULT 0,
		pos_y         REAL NOT NULL DEFAULT 0,
		pos_order     INTEGER NOT NULL DEFAULT 0,
		column_id     TEXT NOT NULL,
		is_pinned     INTEGER NOT NULL DEFAULT 0,
		created_at    TEXT NOT NULL,
		last_modified TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_sticky_notes_user ON sticky_notes(user_id)`,

	`CREATE TABLE IF NOT EXISTS user_progress (
		user_id    TEXT PRIMARY KEY,
		points     INTEGER NOT NULL DEFAULT 0 CHECK(points >= 0),
		level      INTEGER NOT NULL DEFAULT 1 CHECK(level >= 1),
		updated_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_user_progress_points ON user_progress(points DESC)`,

	`CREATE TABLE IF NOT EXISTS user_progress_logs (
		id          TEXT PRIMARY KEY,
		user_id     TEXT NOT NULL,
		description TEXT NOT NULL,
		points      INTEGER NOT NULL,
		timestamp   TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_progress_logs_user ON user_progress_logs(user_id, timestamp)`,

	// One live timer per user: the user id is the key.
	`CREATE TABLE IF NOT EXISTS pomodoro_sessions (
		user_id       TEXT PRIMARY KEY,
		name          TEXT NOT NULL DEFAULT '',
		study_seconds INTEGER NOT NULL CHECK(study_seconds > 0),
		break_seconds INTEGER NOT NULL CHECK(break_seconds >= 0),
		started_at    TEXT NOT NULL,
		paused_at     TEXT,
		phase         TEXT NOT NULL DEFAULT 'focus'
		              CHECK(phase IN ('focus','break')),
		created_at    TEXT NOT NULL
	)`,
}

// legacyCustomCategory matches the old "Name (#RRGGBB)" packed encoding.
var legacyCustomCategory = regexp.MustCompile(`^(.*) \((#[A-Fa-f0-9]{6})\)$`)

// migrateLegacyCategories splits packed custom categories into name and
// color columns and marks every other legacy row as a preset. Idempotent:
// only rows with an empty category_kind are touched.
func migrateLegacyCategories(db *sql.DB) error {
	ctx := context.Background()

	rows, err := db.QueryContext(ctx, `SELECT id, category_name FROM tasks WHERE category_kind = ''`)
	if err != nil {
		return fmt.Errorf("listing legacy categories: %w", err)
	}
	type legacyRow struct{ id, category string }
	var pending []legacyRow
	for rows.Next() {
		var r legacyRow
		if err := rows.Scan(&r.id, &r.category); err != nil {
			rows.Close()
			return fmt.Errorf("scanning legacy category: %w", err)
		}
		pending = append(pending, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating legacy categories: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting category migration: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, r := range pending {
		kind, name, color := "preset", r.category, ""
		if m := legacyCustomCategory.FindStringSubmatch(r.category); m != nil {
			kind, name, color = "custom", m[1], strings.ToLower(m[2])
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE tasks SET category_kind = ?, category_name = ?, category_color = ? WHERE id = ?`,
			kind, name, color, r.id); err != nil {
			return fmt.Errorf("updating category for task %s: %w", r.id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing category migration: %w", err)
	}
	return nil
}
