package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/taskmate/internal/domain"
)

type TaskSort string

const (
	TaskSortNewest TaskSort = "newest"
	TaskSortOldest TaskSort = "oldest"
)

// TaskFilter narrows ListByUser. Zero values mean "no filter"; the default
// sort is newest first.
type TaskFilter struct {
	Sort      TaskSort
	Completed *bool
	Priority  domain.Priority
	DueOn     *time.Time
}

type TaskRepo interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	ListByUser(ctx context.Context, userID string, f TaskFilter) ([]*domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID string) (int, error)
}

type NoteRepo interface {
	Create(ctx context.Context, n *domain.StickyNote) error
	GetByID(ctx context.Context, id string) (*domain.StickyNote, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.StickyNote, error)
	Update(ctx context.Context, n *domain.StickyNote) error
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID string) (int, error)
}

type ProgressRepo interface {
	GetLedger(ctx context.Context, userID string) (*domain.PointsLedger, error)
	UpsertLedger(ctx context.Context, l *domain.PointsLedger) error
	AppendLog(ctx context.Context, e *domain.PointsLogEntry) error
	ListLogs(ctx context.Context, userID string, limit int) ([]*domain.PointsLogEntry, error)
	// TopLedgers returns ledgers by points descending, joined with the user
	// profile when one exists. Rank is left for the caller.
	TopLedgers(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
	CountLedgers(ctx context.Context) (int, error)
}

type TimerRepo interface {
	Get(ctx context.Context, userID string) (*domain.TimerSession, error)
	Create(ctx context.Context, s *domain.TimerSession) error
	Update(ctx context.Context, s *domain.TimerSession) error
	// Delete removes the user's session and reports whether a row existed.
	Delete(ctx context.Context, userID string) (bool, error)
}

type UserRepo interface {
	Upsert(ctx context.Context, u *domain.User, now time.Time) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	Delete(ctx context.Context, id string) (bool, error)
	ListRecent(ctx context.Context, limit int) ([]*domain.User, error)
}
