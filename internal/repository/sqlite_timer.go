package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/taskmate/internal/db"
	"github.com/alexanderramin/taskmate/internal/domain"
)

// SQLiteTimerRepo stores at most one live Pomodoro session per user.
type SQLiteTimerRepo struct {
	db db.DBTX
}

func NewSQLiteTimerRepo(conn db.DBTX) *SQLiteTimerRepo {
	return &SQLiteTimerRepo{db: conn}
}

func (r *SQLiteTimerRepo) Get(ctx context.Context, userID string) (*domain.TimerSession, error) {
	query := `SELECT user_id, name, study_seconds, break_seconds, started_at, paused_at, phase, created_at
		FROM pomodoro_sessions WHERE user_id = ?`
	row := r.db.QueryRowContext(ctx, query, userID)

	var s domain.TimerSession
	var startedAtStr, phase, createdAtStr string
	var pausedAtStr sql.NullString
	err := row.Scan(&s.UserID, &s.Name, &s.StudySeconds, &s.BreakSeconds,
		&startedAtStr, &pausedAtStr, &phase, &createdAtStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("timer session for %s: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning timer session: %w", err)
	}

	s.Phase = domain.Phase(phase)
	if s.StartedAt, err = parseTimestamp(startedAtStr); err != nil {
		return nil, fmt.Errorf("parsing started_at: %w", err)
	}
	if s.CreatedAt, err = parseTimestamp(createdAtStr); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if pausedAtStr.Valid && pausedAtStr.String != "" {
		p, err := parseTimestamp(pausedAtStr.String)
		if err != nil {
			return nil, fmt.Errorf("parsing paused_at: %w", err)
		}
		s.PausedAt = &p
	}
	return &s, nil
}

func (r *SQLiteTimerRepo) Create(ctx context.Context, s *domain.TimerSession) error {
	query := `INSERT INTO pomodoro_sessions
		(user_id, name, study_seconds, break_seconds, started_at, paused_at, phase, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.UserID, s.Name, s.StudySeconds, s.BreakSeconds,
		formatTimestamp(s.StartedAt), nullableTimestamp(s),
		string(s.Phase), formatTimestamp(s.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting timer session: %w", err)
	}
	return nil
}

func (r *SQLiteTimerRepo) Update(ctx context.Context, s *domain.TimerSession) error {
	query := `UPDATE pomodoro_sessions
		SET name = ?, started_at = ?, paused_at = ?, phase = ?
		WHERE user_id = ?`
	res, err := r.db.ExecContext(ctx, query,
		s.Name, formatTimestamp(s.StartedAt), nullableTimestamp(s), string(s.Phase), s.UserID)
	if err != nil {
		return fmt.Errorf("updating timer session: %w", err)
	}
	return requireAffected(res, "timer session", s.UserID)
}

func (r *SQLiteTimerRepo) Delete(ctx context.Context, userID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pomodoro_sessions WHERE user_id = ?`, userID)
	if err != nil {
		return false, fmt.Errorf("deleting timer session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking timer session rows affected: %w", err)
	}
	return n > 0, nil
}

func nullableTimestamp(s *domain.TimerSession) interface{} {
	if s.PausedAt == nil {
		return nil
	}
	return formatTimestamp(*s.PausedAt)
}
