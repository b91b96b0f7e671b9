package service

import (
	"context"

	"github.com/alexanderramin/taskmate/internal/domain"
	"github.com/alexanderramin/taskmate/internal/repository"
)

// Every use case takes the acting user id explicitly. An empty id is
// rejected with domain.ErrUnauthenticated before any store access.

type TaskService interface {
	List(ctx context.Context, userID string, f repository.TaskFilter) ([]*domain.Task, error)
	Get(ctx context.Context, userID, id string) (*domain.Task, error)
	Add(ctx context.Context, userID string, t *domain.Task) error
	// Update merges the patch. A completion flip awards or revokes points
	// in the same transaction.
	Update(ctx context.Context, userID, id string, patch domain.TaskPatch) (*domain.Task, error)
	Remove(ctx context.Context, userID, id string) error
	RemoveAll(ctx context.Context, userID string) (int, error)
}

type NoteService interface {
	List(ctx context.Context, userID string) ([]*domain.StickyNote, error)
	Add(ctx context.Context, userID string, n *domain.StickyNote) error
	Update(ctx context.Context, userID, id string, patch domain.NotePatch) (*domain.StickyNote, error)
	UpdateOrder(ctx context.Context, userID string, moves []domain.NoteMove) error
	Remove(ctx context.Context, userID, id string) error
	RemoveAll(ctx context.Context, userID string) (int, error)
}

type ProgressService interface {
	GetUserProgress(ctx context.Context, userID string) (domain.UserProgress, error)
	GetUserLogs(ctx context.Context, userID string) ([]*domain.PointsLogEntry, error)
	Leaderboard(ctx context.Context, limit int) (*domain.Leaderboard, error)
}

// TimerSnapshot pairs the stored session (nil when idle) with its
// reconciled state.
type TimerSnapshot struct {
	Session *domain.TimerSession
	State   domain.TimerState
}

type TimerService interface {
	GetSession(ctx context.Context, userID string) (*domain.TimerSession, error)
	State(ctx context.Context, userID string) (TimerSnapshot, error)
	Start(ctx context.Context, userID, name string, studySeconds, breakSeconds int) (TimerSnapshot, error)
	Pause(ctx context.Context, userID string) (TimerSnapshot, error)
	Resume(ctx context.Context, userID string) (TimerSnapshot, error)
	Stop(ctx context.Context, userID string) error
	// CompleteAndAward deletes a completed session and awards its points
	// exactly once. It reports whether this call did the award.
	CompleteAndAward(ctx context.Context, userID string) (bool, error)
	// Tick refreshes the cached phase and completes the session when due.
	Tick(ctx context.Context, userID string) (TimerSnapshot, bool, error)
}

type UserService interface {
	UpsertFromIdentity(ctx context.Context, u *domain.User) error
	DeleteFromIdentity(ctx context.Context, id string) error
	Current(ctx context.Context, userID string) (*domain.User, error)
	ListRecent(ctx context.Context) ([]*domain.User, error)
}
