package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/alexanderramin/taskmate/internal/db"
	"github.com/alexanderramin/taskmate/internal/domain"
	"github.com/alexanderramin/taskmate/internal/repository"
	"github.com/alexanderramin/taskmate/internal/testutil"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

type testEnv struct {
	db       *sql.DB
	uow      db.UnitOfWork
	clock    *testutil.ManualClock
	tasks    *repository.SQLiteTaskRepo
	notes    *repository.SQLiteNoteRepo
	progress *repository.SQLiteProgressRepo
	timers   *repository.SQLiteTimerRepo
	users    *repository.SQLiteUserRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	return &testEnv{
		db:       database,
		uow:      testutil.NewTestUoW(database),
		clock:    testutil.NewManualClock(t0),
		tasks:    repository.NewSQLiteTaskRepo(database),
		notes:    repository.NewSQLiteNoteRepo(database),
		progress: repository.NewSQLiteProgressRepo(database),
		timers:   repository.NewSQLiteTimerRepo(database),
		users:    repository.NewSQLiteUserRepo(database),
	}
}

func (e *testEnv) taskService(observers ...UseCaseObserver) TaskService {
	return NewTaskService(e.tasks, e.uow, e.clock.Now, observers...)
}

func (e *testEnv) noteService(observers ...UseCaseObserver) NoteService {
	return NewNoteService(e.notes, e.uow, e.clock.Now, observers...)
}

func (e *testEnv) timerService(observers ...UseCaseObserver) TimerService {
	return NewTimerService(e.timers, e.uow, e.clock.Now, observers...)
}

func (e *testEnv) progressService() ProgressService {
	return NewProgressService(e.progress)
}

// points returns the stored ledger total, 0 when there is no ledger.
func (e *testEnv) points(t *testing.T, userID string) int {
	t.Helper()
	p, err := e.progressService().GetUserProgress(context.Background(), userID)
	require.NoError(t, err)
	return p.Points
}

func (e *testEnv) logs(t *testing.T, userID string) []*domain.PointsLogEntry {
	t.Helper()
	logs, err := e.progress.ListLogs(context.Background(), userID, 100)
	require.NoError(t, err)
	return logs
}
