package cli

import (
	"database/sql"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/alexanderramin/taskmate/internal/api"
	"github.com/alexanderramin/taskmate/internal/db"
	"github.com/alexanderramin/taskmate/internal/repository"
	"github.com/alexanderramin/taskmate/internal/service"
)

// NewRuntime wires repositories and services over an open database. The
// metrics observer registers on reg, which also backs /metrics. A nil
// clock means the system clock.
func NewRuntime(database *sql.DB, clock service.Clock, logger *slog.Logger, reg *prometheus.Registry, observers ...service.UseCaseObserver) *Runtime {
	if logger == nil {
		logger = slog.Default()
	}
	if reg != nil {
		observers = append(observers, service.NewMetricsObserver(reg))
	}

	uow := db.NewSQLiteUnitOfWork(database)
	taskRepo := repository.NewSQLiteTaskRepo(database)
	noteRepo := repository.NewSQLiteNoteRepo(database)
	progressRepo := repository.NewSQLiteProgressRepo(database)
	timerRepo := repository.NewSQLiteTimerRepo(database)
	userRepo := repository.NewSQLiteUserRepo(database)

	rt := &Runtime{
		Services: api.Services{
			Tasks:    service.NewTaskService(taskRepo, uow, clock, observers...),
			Notes:    service.NewNoteService(noteRepo, uow, clock, observers...),
			Progress: service.NewProgressService(progressRepo),
			Timer:    service.NewTimerService(timerRepo, uow, clock, observers...),
			Users:    service.NewUserService(userRepo, clock, logger, observers...),
		},
		Logger: logger,
		Close:  database.Close,
	}
	if reg != nil {
		rt.Metrics = reg
	}
	return rt
}
