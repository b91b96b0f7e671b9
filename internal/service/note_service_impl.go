package service

import (
	"context"
	"time"

	"github.com/alexanderramin/taskmate/internal/db"
	"github.com/alexanderramin/taskmate/internal/domain"
	"github.com/alexanderramin/taskmate/internal/repository"
	"github.com/google/uuid"
)

type noteService struct {
	notes    repository.NoteRepo
	uow      db.UnitOfWork
	now      Clock
	observer UseCaseObserver
}

func NewNoteService(notes repository.NoteRepo, uow db.UnitOfWork, clock Clock, observers ...UseCaseObserver) NoteService {
	return &noteService{
		notes:    notes,
		uow:      uow,
		now:      clockOrSystem(clock),
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *noteService) List(ctx context.Context, userID string) ([]*domain.StickyNote, error) {
	if err := domain.RequireUser(userID, "list notes"); err != nil {
		return nil, err
	}
	return s.notes.ListByUser(ctx, userID)
}

func (s *noteService) Add(ctx context.Context, userID string, n *domain.StickyNote) (err error) {
	startedAt := time.Now()
	defer func() { observe(ctx, s.observer, "add-note", userID, startedAt, nil, err) }()

	if err = domain.RequireUser(userID, "add a note"); err != nil {
		return err
	}
	if err = n.Validate(); err != nil {
		return err
	}
	now := s.now()
	n.ID = uuid.New().String()
	n.UserID = userID
	n.CreatedAt = now
	n.LastModified = now
	return s.notes.Create(ctx, n)
}

func (s *noteService) Update(ctx context.Context, userID, id string, patch domain.NotePatch) (updated *domain.StickyNote, err error) {
	startedAt := time.Now()
	defer func() { observe(ctx, s.observer, "update-note", userID, startedAt, nil, err) }()

	if err = domain.RequireUser(userID, "update a note"); err != nil {
		return nil, err
	}
	now := s.now()
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txNotes := repository.NewSQLiteNoteRepo(tx)
		n, err := txNotes.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := checkOwner(n.UserID, userID, "sticky note", id); err != nil {
			return err
		}
		patch.Apply(n, now)
		if err := n.Validate(); err != nil {
			return err
		}
		if err := txNotes.Update(ctx, n); err != nil {
			return err
		}
		updated = n
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// UpdateOrder repositions several notes at once. One foreign or missing
// note fails the whole batch.
func (s *noteService) UpdateOrder(ctx context.Context, userID string, moves []domain.NoteMove) (err error) {
	startedAt := time.Now()
	fields := map[string]any{"moves": len(moves)}
	defer func() { observe(ctx, s.observer, "reorder-notes", userID, startedAt, fields, err) }()

	if err = domain.RequireUser(userID, "reorder notes"); err != nil {
		return err
	}
	if len(moves) == 0 {
		return nil
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txNotes := repository.NewSQLiteNoteRepo(tx)
		for _, mv := range moves {
			n, err := txNotes.GetByID(ctx, mv.ID)
			if err != nil {
				return err
			}
			if err := checkOwner(n.UserID, userID, "sticky note", mv.ID); err != nil {
				return err
			}
			n.Position = mv.Position
			if mv.ColumnID != "" {
				n.ColumnID = mv.ColumnID
			}
			if err := txNotes.Update(ctx, n); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *noteService) Remove(ctx context.Context, userID, id string) (err error) {
	startedAt := time.Now()
	defer func() { observe(ctx, s.observer, "remove-note", userID, startedAt, nil, err) }()

	if err = domain.RequireUser(userID, "remove a note"); err != nil {
		return err
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txNotes := repository.NewSQLiteNoteRepo(tx)
		n, err := txNotes.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := checkOwner(n.UserID, userID, "sticky note", id); err != nil {
			return err
		}
		return txNotes.Delete(ctx, id)
	})
}

func (s *noteService) RemoveAll(ctx context.Context, userID string) (n int, err error) {
	startedAt := time.Now()
	fields := map[string]any{}
	defer func() { observe(ctx, s.observer, "remove-all-notes", userID, startedAt, fields, err) }()

	if err = domain.RequireUser(userID, "remove notes"); err != nil {
		return 0, err
	}
	n, err = s.notes.DeleteByUser(ctx, userID)
	fields["deleted"] = n
	return n, err
}
