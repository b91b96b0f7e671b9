package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/taskmate/internal/domain"
	"github.com/alexanderramin/taskmate/internal/repository"
	"github.com/google/uuid"
)

const (
	logsPageSize          = 10
	defaultLeaderboardLen = 20
	recentUsersLen        = 5

	timerAwardDescription = "Completed pomodoro session"
)

// Clock supplies the current time; tests pass a manual clock.
type Clock func() time.Time

func clockOrSystem(c Clock) Clock {
	if c == nil {
		return func() time.Time { return time.Now().UTC() }
	}
	return c
}

// checkOwner maps a foreign record to ErrUnauthorized.
func checkOwner(ownerID, userID, kind, id string) error {
	if ownerID != userID {
		return fmt.Errorf("%s %s: %w", kind, id, domain.ErrUnauthorized)
	}
	return nil
}

// awardPoints applies delta to the user's ledger and appends the audit log
// entry. It must run inside the caller's transaction. The log records the
// nominal delta; the returned value is what the ledger actually moved after
// clamping at zero.
func awardPoints(ctx context.Context, progress repository.ProgressRepo, userID string, delta int, description string, now time.Time) (int, error) {
	ledger, err := progress.GetLedger(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		ledger = domain.NewPointsLedger(userID, now)
	} else if err != nil {
		return 0, fmt.Errorf("loading points ledger: %w", err)
	}

	applied := ledger.Apply(delta, now)
	if err := progress.UpsertLedger(ctx, ledger); err != nil {
		return 0, err
	}
	entry := &domain.PointsLogEntry{
		ID:          uuid.New().String(),
		UserID:      userID,
		Description: description,
		Points:      delta,
		Timestamp:   now,
	}
	if err := progress.AppendLog(ctx, entry); err != nil {
		return 0, err
	}
	return applied, nil
}
