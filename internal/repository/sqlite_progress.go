package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/taskmate/internal/db"
	"github.com/alexanderramin/taskmate/internal/domain"
)

// SQLiteProgressRepo stores the points ledger and its audit log.
type SQLiteProgressRepo struct {
	db db.DBTX
}

func NewSQLiteProgressRepo(conn db.DBTX) *SQLiteProgressRepo {
	return &SQLiteProgressRepo{db: conn}
}

func (r *SQLiteProgressRepo) GetLedger(ctx context.Context, userID string) (*domain.PointsLedger, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT user_id, points, level, updated_at FROM user_progress WHERE user_id = ?`, userID)

	var l domain.PointsLedger
	var updatedAtStr string
	if err := row.Scan(&l.UserID, &l.Points, &l.Level, &updatedAtStr); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("points ledger for %s: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning points ledger: %w", err)
	}
	var err error
	if l.UpdatedAt, err = parseTimestamp(updatedAtStr); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &l, nil
}

func (r *SQLiteProgressRepo) UpsertLedger(ctx context.Context, l *domain.PointsLedger) error {
	query := `INSERT INTO user_progress (user_id, points, level, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			points = excluded.points,
			level = excluded.level,
			updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query, l.UserID, l.Points, l.Level, formatTimestamp(l.UpdatedAt))
	if err != nil {
		return fmt.Errorf("upserting points ledger: %w", err)
	}
	return nil
}

func (r *SQLiteProgressRepo) AppendLog(ctx context.Context, e *domain.PointsLogEntry) error {
	query := `INSERT INTO user_progress_logs (id, user_id, description, points, timestamp)
		VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, e.ID, e.UserID, e.Description, e.Points, formatTimestamp(e.Timestamp))
	if err != nil {
		return fmt.Errorf("inserting points log: %w", err)
	}
	return nil
}

func (r *SQLiteProgressRepo) ListLogs(ctx context.Context, userID string, limit int) ([]*domain.PointsLogEntry, error) {
	query := `SELECT id, user_id, description, points, timestamp
		FROM user_progress_logs
		WHERE user_id = ?
		ORDER BY timestamp DESC, rowid DESC
		LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing points logs: %w", err)
	}
	defer rows.Close()

	var logs []*domain.PointsLogEntry
	for rows.Next() {
		var e domain.PointsLogEntry
		var tsStr string
		if err := rows.Scan(&e.ID, &e.UserID, &e.Description, &e.Points, &tsStr); err != nil {
			return nil, fmt.Errorf("scanning points log: %w", err)
		}
		if e.Timestamp, err = parseTimestamp(tsStr); err != nil {
			return nil, fmt.Errorf("parsing log timestamp: %w", err)
		}
		logs = append(logs, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating points logs: %w", err)
	}
	return logs, nil
}

func (r *SQLiteProgressRepo) TopLedgers(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	query := `SELECT p.user_id, p.points, p.level,
			COALESCE(u.first_name, ''), COALESCE(u.last_name, ''), COALESCE(u.image_url, '')
		FROM user_progress p
		LEFT JOIN users u ON u.id = p.user_id
		ORDER BY p.points DESC, p.updated_at ASC, p.user_id ASC
		LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing top ledgers: %w", err)
	}
	defer rows.Close()

	var entries []domain.LeaderboardEntry
	for rows.Next() {
		var e domain.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Points, &e.Level, &e.FirstName, &e.LastName, &e.ImageURL); err != nil {
			return nil, fmt.Errorf("scanning leaderboard row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating leaderboard: %w", err)
	}
	return entries, nil
}

func (r *SQLiteProgressRepo) CountLedgers(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM user_progress`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting ledgers: %w", err)
	}
	return n, nil
}
