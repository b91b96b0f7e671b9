package service

import (
	"context"
	"time"

	"github.com/alexanderramin/taskmate/internal/db"
	"github.com/alexanderramin/taskmate/internal/domain"
	"github.com/alexanderramin/taskmate/internal/repository"
	"github.com/google/uuid"
)

type taskService struct {
	tasks    repository.TaskRepo
	uow      db.UnitOfWork
	now      Clock
	observer UseCaseObserver
}

func NewTaskService(tasks repository.TaskRepo, uow db.UnitOfWork, clock Clock, observers ...UseCaseObserver) TaskService {
	return &taskService{
		tasks:    tasks,
		uow:      uow,
		now:      clockOrSystem(clock),
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *taskService) List(ctx context.Context, userID string, f repository.TaskFilter) ([]*domain.Task, error) {
	if err := domain.RequireUser(userID, "list tasks"); err != nil {
		return nil, err
	}
	return s.tasks.ListByUser(ctx, userID, f)
}

func (s *taskService) Get(ctx context.Context, userID, id string) (*domain.Task, error) {
	if err := domain.RequireUser(userID, "read a task"); err != nil {
		return nil, err
	}
	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkOwner(t.UserID, userID, "task", id); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *taskService) Add(ctx context.Context, userID string, t *domain.Task) (err error) {
	startedAt := time.Now()
	defer func() { observe(ctx, s.observer, "add-task", userID, startedAt, nil, err) }()

	if err = domain.RequireUser(userID, "add a task"); err != nil {
		return err
	}
	now := s.now()
	t.ID = uuid.New().String()
	t.UserID = userID
	t.IsCompleted = false
	t.CreatedAt = now
	t.ModifiedAt = now
	if t.Priority == "" {
		t.Priority = domain.PriorityMedium
	}
	t.Normalize()
	if err = t.Validate(); err != nil {
		return err
	}
	return s.tasks.Create(ctx, t)
}

func (s *taskService) Update(ctx context.Context, userID, id string, patch domain.TaskPatch) (updated *domain.Task, err error) {
	startedAt := time.Now()
	fields := map[string]any{"task_id": id}
	defer func() { observe(ctx, s.observer, "update-task", userID, startedAt, fields, err) }()

	if err = domain.RequireUser(userID, "update a task"); err != nil {
		return nil, err
	}

	now := s.now()
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		txProgress := repository.NewSQLiteProgressRepo(tx)

		t, err := txTasks.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := checkOwner(t.UserID, userID, "task", id); err != nil {
			return err
		}

		_, toggled := patch.Apply(t, now)
		t.Normalize()
		if err := t.Validate(); err != nil {
			return err
		}
		if err := txTasks.Update(ctx, t); err != nil {
			return err
		}

		if toggled {
			delta := domain.TaskCompletionPoints
			if !t.IsCompleted {
				delta = -delta
			}
			desc := domain.CompletionLogDescription(t.Name, t.IsCompleted)
			applied, err := awardPoints(ctx, txProgress, userID, delta, desc, now)
			if err != nil {
				return err
			}
			fields[fieldPointsDelta] = applied
		}
		updated = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *taskService) Remove(ctx context.Context, userID, id string) (err error) {
	startedAt := time.Now()
	defer func() { observe(ctx, s.observer, "remove-task", userID, startedAt, nil, err) }()

	if err = domain.RequireUser(userID, "remove a task"); err != nil {
		return err
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		t, err := txTasks.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := checkOwner(t.UserID, userID, "task", id); err != nil {
			return err
		}
		return txTasks.Delete(ctx, id)
	})
}

// RemoveAll deletes the user's tasks. Points and their log are kept.
func (s *taskService) RemoveAll(ctx context.Context, userID string) (n int, err error) {
	startedAt := time.Now()
	fields := map[string]any{}
	defer func() { observe(ctx, s.observer, "remove-all-tasks", userID, startedAt, fields, err) }()

	if err = domain.RequireUser(userID, "remove tasks"); err != nil {
		return 0, err
	}
	n, err = s.tasks.DeleteByUser(ctx, userID)
	fields["deleted"] = n
	return n, err
}
