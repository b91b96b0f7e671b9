package service

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/alexanderramin/taskmate/internal/domain"
	"github.com/alexanderramin/taskmate/internal/repository"
)

type userService struct {
	users    repository.UserRepo
	now      Clock
	logger   *slog.Logger
	observer UseCaseObserver
}

// NewUserService keeps the local user table in sync with the identity
// provider. logger receives warnings for deletes of unknown users.
func NewUserService(users repository.UserRepo, clock Clock, logger *slog.Logger, observers ...UseCaseObserver) UserService {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &userService{
		users:    users,
		now:      clockOrSystem(clock),
		logger:   logger,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *userService) UpsertFromIdentity(ctx context.Context, u *domain.User) (err error) {
	startedAt := time.Now()
	defer func() { observe(ctx, s.observer, "upsert-user", u.ID, startedAt, nil, err) }()

	u.ID = strings.TrimSpace(u.ID)
	if u.ID == "" {
		return &domain.ValidationError{Field: "id", Message: "identity subject is required"}
	}
	return s.users.Upsert(ctx, u, s.now())
}

// DeleteFromIdentity removes the user profile. An unknown id is logged
// and otherwise ignored.
func (s *userService) DeleteFromIdentity(ctx context.Context, id string) (err error) {
	startedAt := time.Now()
	fields := map[string]any{}
	defer func() { observe(ctx, s.observer, "delete-user", id, startedAt, fields, err) }()

	deleted, err := s.users.Delete(ctx, id)
	if err != nil {
		return err
	}
	fields["deleted"] = deleted
	if !deleted {
		s.logger.WarnContext(ctx, "cannot delete user, none exists for identity subject", "user_id", id)
	}
	return nil
}

func (s *userService) Current(ctx context.Context, userID string) (*domain.User, error) {
	if err := domain.RequireUser(userID, "read the current user"); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, userID)
}

func (s *userService) ListRecent(ctx context.Context) ([]*domain.User, error) {
	return s.users.ListRecent(ctx, recentUsersLen)
}
