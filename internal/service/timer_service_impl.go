package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/taskmate/internal/db"
	"github.com/alexanderramin/taskmate/internal/domain"
	"github.com/alexanderramin/taskmate/internal/repository"
)

type timerService struct {
	timers   repository.TimerRepo
	uow      db.UnitOfWork
	now      Clock
	observer UseCaseObserver
}

func NewTimerService(timers repository.TimerRepo, uow db.UnitOfWork, clock Clock, observers ...UseCaseObserver) TimerService {
	return &timerService{
		timers:   timers,
		uow:      uow,
		now:      clockOrSystem(clock),
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *timerService) GetSession(ctx context.Context, userID string) (*domain.TimerSession, error) {
	if err := domain.RequireUser(userID, "read the timer"); err != nil {
		return nil, err
	}
	return s.timers.Get(ctx, userID)
}

// State reconciles the stored session against the clock. No session is
// the idle state, not an error.
func (s *timerService) State(ctx context.Context, userID string) (TimerSnapshot, error) {
	if err := domain.RequireUser(userID, "read the timer"); err != nil {
		return TimerSnapshot{}, err
	}
	sess, err := s.timers.Get(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return TimerSnapshot{State: domain.Reconcile(nil, s.now())}, nil
	}
	if err != nil {
		return TimerSnapshot{}, err
	}
	return TimerSnapshot{Session: sess, State: domain.Reconcile(sess, s.now())}, nil
}

// Start begins a new cycle. A live session is a conflict; a finished one
// that was never awarded is awarded first.
func (s *timerService) Start(ctx context.Context, userID, name string, studySeconds, breakSeconds int) (snap TimerSnapshot, err error) {
	startedAt := time.Now()
	fields := map[string]any{"study_seconds": studySeconds, "break_seconds": breakSeconds}
	defer func() { observe(ctx, s.observer, "start-timer", userID, startedAt, fields, err) }()

	if err = domain.RequireUser(userID, "start a timer"); err != nil {
		return TimerSnapshot{}, err
	}
	now := s.now()
	sess, err := domain.NewTimerSession(userID, name, studySeconds, breakSeconds, now)
	if err != nil {
		return TimerSnapshot{}, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTimers := repository.NewSQLiteTimerRepo(tx)
		txProgress := repository.NewSQLiteProgressRepo(tx)

		existing, err := txTimers.Get(ctx, userID)
		switch {
		case err == nil:
			if !domain.Reconcile(existing, now).Completed {
				return fmt.Errorf("timer %q is still running: %w", existing.Name, domain.ErrConflict)
			}
			awarded, err := completeInTx(ctx, txTimers, txProgress, userID, now)
			if err != nil {
				return err
			}
			if awarded {
				fields[fieldAwarded] = true
				fields[fieldPointsDelta] = domain.TimerCompletionPoints
			}
		case !errors.Is(err, repository.ErrNotFound):
			return err
		}
		return txTimers.Create(ctx, sess)
	})
	if err != nil {
		return TimerSnapshot{}, err
	}
	return TimerSnapshot{Session: sess, State: domain.Reconcile(sess, now)}, nil
}

func (s *timerService) Pause(ctx context.Context, userID string) (TimerSnapshot, error) {
	return s.mutate(ctx, userID, "pause-timer", "pause the timer", func(sess *domain.TimerSession, now time.Time) {
		sess.Pause(now)
	})
}

func (s *timerService) Resume(ctx context.Context, userID string) (TimerSnapshot, error) {
	return s.mutate(ctx, userID, "resume-timer", "resume the timer", func(sess *domain.TimerSession, now time.Time) {
		sess.Resume(now)
	})
}

// mutate loads the session, applies fn unless the cycle already finished,
// and stores the result.
func (s *timerService) mutate(ctx context.Context, userID, useCase, op string, fn func(*domain.TimerSession, time.Time)) (snap TimerSnapshot, err error) {
	startedAt := time.Now()
	defer func() { observe(ctx, s.observer, useCase, userID, startedAt, nil, err) }()

	if err = domain.RequireUser(userID, op); err != nil {
		return TimerSnapshot{}, err
	}
	now := s.now()
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTimers := repository.NewSQLiteTimerRepo(tx)
		sess, err := txTimers.Get(ctx, userID)
		if err != nil {
			return err
		}
		if !domain.Reconcile(sess, now).Completed {
			fn(sess, now)
			if err := txTimers.Update(ctx, sess); err != nil {
				return err
			}
		}
		snap = TimerSnapshot{Session: sess, State: domain.Reconcile(sess, now)}
		return nil
	})
	if err != nil {
		return TimerSnapshot{}, err
	}
	return snap, nil
}

// Stop discards the session without an award. Stopping with no session is
// not an error.
func (s *timerService) Stop(ctx context.Context, userID string) (err error) {
	startedAt := time.Now()
	fields := map[string]any{}
	defer func() { observe(ctx, s.observer, "stop-timer", userID, startedAt, fields, err) }()

	if err = domain.RequireUser(userID, "stop the timer"); err != nil {
		return err
	}
	deleted, err := s.timers.Delete(ctx, userID)
	fields["deleted"] = deleted
	return err
}

func (s *timerService) CompleteAndAward(ctx context.Context, userID string) (awarded bool, err error) {
	startedAt := time.Now()
	fields := map[string]any{}
	defer func() { observe(ctx, s.observer, "complete-timer", userID, startedAt, fields, err) }()

	if err = domain.RequireUser(userID, "complete a timer"); err != nil {
		return false, err
	}
	now := s.now()
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTimers := repository.NewSQLiteTimerRepo(tx)
		sess, err := txTimers.Get(ctx, userID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if !domain.Reconcile(sess, now).Completed {
			return nil
		}
		awarded, err = completeInTx(ctx, txTimers, repository.NewSQLiteProgressRepo(tx), userID, now)
		return err
	})
	if err != nil {
		return false, err
	}
	fields[fieldAwarded] = awarded
	if awarded {
		fields[fieldPointsDelta] = domain.TimerCompletionPoints
	}
	return awarded, nil
}

func (s *timerService) Tick(ctx context.Context, userID string) (TimerSnapshot, bool, error) {
	snap, err := s.State(ctx, userID)
	if err != nil || snap.Session == nil {
		return snap, false, err
	}
	if snap.State.Completed {
		awarded, err := s.CompleteAndAward(ctx, userID)
		if err != nil {
			return TimerSnapshot{}, false, err
		}
		return TimerSnapshot{State: snap.State}, awarded, nil
	}
	if snap.Session.Phase == snap.State.Phase {
		return snap, false, nil
	}

	now := s.now()
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTimers := repository.NewSQLiteTimerRepo(tx)
		sess, err := txTimers.Get(ctx, userID)
		if errors.Is(err, repository.ErrNotFound) {
			snap = TimerSnapshot{State: domain.Reconcile(nil, now)}
			return nil
		}
		if err != nil {
			return err
		}
		st := domain.Reconcile(sess, now)
		if !st.Completed && sess.Phase != st.Phase {
			sess.Phase = st.Phase
			if err := txTimers.Update(ctx, sess); err != nil {
				return err
			}
		}
		snap = TimerSnapshot{Session: sess, State: st}
		return nil
	})
	return snap, false, err
}

// completeInTx deletes the session and awards the cycle. The delete's
// affected-row count guards against a double award from concurrent callers.
func completeInTx(ctx context.Context, timers repository.TimerRepo, progress repository.ProgressRepo, userID string, now time.Time) (bool, error) {
	deleted, err := timers.Delete(ctx, userID)
	if err != nil || !deleted {
		return false, err
	}
	if _, err := awardPoints(ctx, progress, userID, domain.TimerCompletionPoints, timerAwardDescription, now); err != nil {
		return false, err
	}
	return true, nil
}
