package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alexanderramin/taskmate/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepo_UpsertOverwritesProfile(t *testing.T) {
	repo := NewSQLiteUserRepo(testutil.NewTestDB(t))
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

	u := testutil.NewTestUser("user_1")
	require.NoError(t, repo.Upsert(ctx, u, now))

	u.FirstName = "Renamed"
	u.ImageURL = ""
	require.NoError(t, repo.Upsert(ctx, u, now.Add(time.Hour)))

	got, err := repo.GetByID(ctx, "user_1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.FirstName)
	assert.Empty(t, got.ImageURL)
	assert.Equal(t, u.Email, got.Email)
}

func TestUserRepo_GetAndDeleteMissing(t *testing.T) {
	repo := NewSQLiteUserRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	_, err := repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	deleted, err := repo.Delete(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestUserRepo_ListRecent(t *testing.T) {
	repo := NewSQLiteUserRepo(testutil.NewTestDB(t))
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

	for i := 0; i < 7; i++ {
		u := testutil.NewTestUser(fmt.Sprintf("user_%d", i))
		require.NoError(t, repo.Upsert(ctx, u, base.Add(time.Duration(i)*time.Minute)))
	}

	recent, err := repo.ListRecent(ctx, 5)
	require.NoError(t, err)
	require.Len(t, recent, 5)
	assert.Equal(t, "user_6", recent[0].ID)
	assert.Equal(t, "user_2", recent[4].ID)
}
