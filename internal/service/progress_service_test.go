package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alexanderramin/taskmate/internal/domain"
	"github.com/alexanderramin/taskmate/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressService_FreshUser(t *testing.T) {
	env := newTestEnv(t)

	p, err := env.progressService().GetUserProgress(context.Background(), "newcomer")
	require.NoError(t, err)
	assert.Equal(t, domain.UserProgress{Points: 0, Level: 1, Progress: 0, RequiredPoints: 20}, p)
}

func TestProgressService_Unauthenticated(t *testing.T) {
	env := newTestEnv(t)
	svc := env.progressService()

	_, err := svc.GetUserProgress(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	_, err = svc.GetUserLogs(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestProgressService_LogsAreTenNewest(t *testing.T) {
	env := newTestEnv(t)
	tasks := env.taskService()
	ctx := context.Background()

	task := newTask("Flip flop")
	require.NoError(t, tasks.Add(ctx, "u1", task))
	for i := 0; i < 12; i++ {
		env.clock.Advance(time.Second)
		_, err := tasks.Update(ctx, "u1", task.ID, domain.TaskPatch{IsCompleted: domain.Ptr(i%2 == 0)})
		require.NoError(t, err)
	}

	logs, err := env.progressService().GetUserLogs(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, logs, 10)
	assert.True(t, logs[0].Timestamp.Equal(t0.Add(12*time.Second)))
	assert.Equal(t, "Uncompleted task: Flip flop", logs[0].Description)
	for i := 1; i < len(logs); i++ {
		assert.True(t, logs[i].Timestamp.Before(logs[i-1].Timestamp))
	}
}

func TestProgressService_Leaderboard(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.users.Upsert(ctx, &domain.User{ID: "alice", FirstName: "Alice", LastName: "Liddell", ImageURL: "/alice.png"}, t0))
	require.NoError(t, env.users.Upsert(ctx, &domain.User{ID: "bob", FirstName: "Bob"}, t0))

	for id, pts := range map[string]int{"alice": 50, "bob": 90, "ghost": 10} {
		l := domain.NewPointsLedger(id, t0)
		l.Apply(pts, t0)
		require.NoError(t, env.progress.UpsertLedger(ctx, l))
	}
	// A stale cached level must not leak into the board.
	_, err := env.db.Exec(`UPDATE user_progress SET level = 1 WHERE user_id = 'bob'`)
	require.NoError(t, err)

	board, err := env.progressService().Leaderboard(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, board.TotalUsers)
	require.Len(t, board.Entries, 3)

	bob := board.Entries[0]
	assert.Equal(t, 1, bob.Rank)
	assert.Equal(t, "bob", bob.UserID)
	assert.Equal(t, domain.LevelOf(90).Level, bob.Level)
	assert.Equal(t, "Bob", bob.FirstName)
	assert.Equal(t, "User", bob.LastName)
	assert.Equal(t, "/avatar.png", bob.ImageURL)

	assert.Equal(t, "alice", board.Entries[1].UserID)
	assert.Equal(t, "/alice.png", board.Entries[1].ImageURL)

	ghost := board.Entries[2]
	assert.Equal(t, 3, ghost.Rank)
	assert.Equal(t, "Anonymous", ghost.FirstName)
	assert.Equal(t, "User", ghost.LastName)
}

func TestProgressService_LeaderboardDefaultLimit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		l := domain.NewPointsLedger(fmt.Sprintf("user-%02d", i), t0)
		l.Apply(i*10, t0)
		require.NoError(t, env.progress.UpsertLedger(ctx, l))
	}

	board, err := env.progressService().Leaderboard(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, board.Entries, 20)
	assert.Equal(t, 25, board.TotalUsers)
	assert.Equal(t, "user-24", board.Entries[0].UserID)
	for i := 1; i < len(board.Entries); i++ {
		assert.GreaterOrEqual(t, board.Entries[i-1].Points, board.Entries[i].Points)
	}
}

func TestProgressService_TimerAndTasksShareLedger(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	task := testutil.NewTestTask("u1", "Shared ledger")
	require.NoError(t, env.tasks.Create(ctx, task))
	_, err := env.taskService().Update(ctx, "u1", task.ID, domain.TaskPatch{IsCompleted: domain.Ptr(true)})
	require.NoError(t, err)

	timers := env.timerService()
	_, err = timers.Start(ctx, "u1", "", 60, 0)
	require.NoError(t, err)
	env.clock.Advance(time.Minute)
	_, err = timers.CompleteAndAward(ctx, "u1")
	require.NoError(t, err)

	p, err := env.progressService().GetUserProgress(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.UserProgress{Points: 20, Level: 2, Progress: 0, RequiredPoints: 30}, p)
}
