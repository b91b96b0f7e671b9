package service

import (
	"context"
	"errors"

	"github.com/alexanderramin/taskmate/internal/domain"
	"github.com/alexanderramin/taskmate/internal/repository"
)

type progressService struct {
	progress repository.ProgressRepo
}

func NewProgressService(progress repository.ProgressRepo) ProgressService {
	return &progressService{progress: progress}
}

// GetUserProgress reports a fresh user (no ledger yet) as level 1 with
// zero points.
func (s *progressService) GetUserProgress(ctx context.Context, userID string) (domain.UserProgress, error) {
	if err := domain.RequireUser(userID, "read progress"); err != nil {
		return domain.UserProgress{}, err
	}
	ledger, err := s.progress.GetLedger(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.ProgressFromLedger(nil), nil
	}
	if err != nil {
		return domain.UserProgress{}, err
	}
	return domain.ProgressFromLedger(ledger), nil
}

func (s *progressService) GetUserLogs(ctx context.Context, userID string) ([]*domain.PointsLogEntry, error) {
	if err := domain.RequireUser(userID, "read progress logs"); err != nil {
		return nil, err
	}
	return s.progress.ListLogs(ctx, userID, logsPageSize)
}

// Leaderboard ranks ledgers by points. Level is recomputed from points so
// a stale cached level never leaks out.
func (s *progressService) Leaderboard(ctx context.Context, limit int) (*domain.Leaderboard, error) {
	if limit <= 0 {
		limit = defaultLeaderboardLen
	}
	rows, err := s.progress.TopLedgers(ctx, limit)
	if err != nil {
		return nil, err
	}
	total, err := s.progress.CountLedgers(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.LeaderboardEntry, 0, len(rows))
	for i, row := range rows {
		row.Rank = i + 1
		row.Level = domain.LevelOf(row.Points).Level
		row.FirstName = domain.CoalesceStr(row.FirstName, domain.DefaultFirstName)
		row.LastName = domain.CoalesceStr(row.LastName, domain.DefaultLastName)
		row.ImageURL = domain.CoalesceStr(row.ImageURL, domain.DefaultImageURL)
		entries = append(entries, row)
	}
	return &domain.Leaderboard{Entries: entries, TotalUsers: total}, nil
}
