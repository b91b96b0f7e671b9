package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/taskmate/internal/domain"
	"github.com/alexanderramin/taskmate/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimerRepo_Lifecycle(t *testing.T) {
	repo := NewSQLiteTimerRepo(testutil.NewTestDB(t))
	ctx := context.Background()
	start := time.Date(2025, 6, 1, 8, 0, 0, 123456789, time.UTC)

	_, err := repo.Get(ctx, "u1")
	assert.ErrorIs(t, err, ErrNotFound)

	s, err := domain.NewTimerSession("u1", "", 1500, 300, start)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, s))

	got, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Pomodoro Session", got.Name)
	assert.Equal(t, 1500, got.StudySeconds)
	assert.Equal(t, 300, got.BreakSeconds)
	assert.True(t, got.StartedAt.Equal(start), "sub-second precision must survive storage")
	assert.Nil(t, got.PausedAt)
	assert.Equal(t, domain.PhaseFocus, got.Phase)

	got.Pause(start.Add(100 * time.Second))
	require.NoError(t, repo.Update(ctx, got))

	paused, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, paused.PausedAt)
	assert.True(t, paused.PausedAt.Equal(start.Add(100*time.Second)))

	paused.Resume(start.Add(160 * time.Second))
	require.NoError(t, repo.Update(ctx, paused))

	resumed, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, resumed.PausedAt)
	assert.True(t, resumed.StartedAt.Equal(start.Add(60*time.Second)))

	deleted, err := repo.Delete(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, deleted, "second delete finds nothing")
}

func TestTimerRepo_CreateTwiceFails(t *testing.T) {
	repo := NewSQLiteTimerRepo(testutil.NewTestDB(t))
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

	s, err := domain.NewTimerSession("u1", "Deep work", 600, 60, now)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, s))
	assert.Error(t, repo.Create(ctx, s))
}

func TestTimerRepo_UpdateMissing(t *testing.T) {
	repo := NewSQLiteTimerRepo(testutil.NewTestDB(t))
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

	s, err := domain.NewTimerSession("ghost", "", 600, 60, now)
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Update(context.Background(), s), ErrNotFound)
}
