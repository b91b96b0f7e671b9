package service

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/taskmate/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addNote(t *testing.T, svc NoteService, userID, name, column string, order int) *domain.StickyNote {
	t.Helper()
	n := &domain.StickyNote{Name: name, ColumnID: column, Position: domain.NotePosition{Order: order}}
	require.NoError(t, svc.Add(context.Background(), userID, n))
	return n
}

func TestNoteService_AddValidation(t *testing.T) {
	env := newTestEnv(t)
	svc := env.noteService()
	ctx := context.Background()

	err := svc.Add(ctx, "u1", &domain.StickyNote{Name: "", ColumnID: "todo"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	err = svc.Add(ctx, "", &domain.StickyNote{Name: "x", ColumnID: "todo"})
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestNoteService_UpdateStampsOnlyContent(t *testing.T) {
	env := newTestEnv(t)
	svc := env.noteService()
	ctx := context.Background()

	n := addNote(t, svc, "u1", "Idea", "todo", 0)

	env.clock.Advance(time.Minute)
	updated, err := svc.Update(ctx, "u1", n.ID, domain.NotePatch{IsPinned: domain.Ptr(true)})
	require.NoError(t, err)
	assert.True(t, updated.IsPinned)
	assert.True(t, updated.LastModified.Equal(t0))

	updated, err = svc.Update(ctx, "u1", n.ID, domain.NotePatch{Color: domain.Ptr("#ffccbc")})
	require.NoError(t, err)
	assert.True(t, updated.LastModified.Equal(t0.Add(time.Minute)))
}

func TestNoteService_UpdateOrder(t *testing.T) {
	env := newTestEnv(t)
	svc := env.noteService()
	ctx := context.Background()

	a := addNote(t, svc, "u1", "A", "todo", 0)
	b := addNote(t, svc, "u1", "B", "todo", 1)

	err := svc.UpdateOrder(ctx, "u1", []domain.NoteMove{
		{ID: a.ID, Position: domain.NotePosition{Order: 1}, ColumnID: "todo"},
		{ID: b.ID, Position: domain.NotePosition{Order: 0, X: 5}, ColumnID: "todo"},
	})
	require.NoError(t, err)

	notes, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "B", notes[0].Name)
	assert.Equal(t, 5.0, notes[0].Position.X)
	assert.Equal(t, "A", notes[1].Name)
}

func TestNoteService_UpdateOrder_ForeignNoteFailsBatch(t *testing.T) {
	env := newTestEnv(t)
	svc := env.noteService()
	ctx := context.Background()

	mine := addNote(t, svc, "u1", "Mine", "todo", 0)
	theirs := addNote(t, svc, "u2", "Theirs", "todo", 0)

	err := svc.UpdateOrder(ctx, "u1", []domain.NoteMove{
		{ID: mine.ID, Position: domain.NotePosition{Order: 9}, ColumnID: "done"},
		{ID: theirs.ID, Position: domain.NotePosition{Order: 3}, ColumnID: "done"},
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	stored, err := env.notes.GetByID(ctx, mine.ID)
	require.NoError(t, err)
	assert.Equal(t, "todo", stored.ColumnID, "the first move was rolled back")
	assert.Equal(t, 0, stored.Position.Order)
}

func TestNoteService_RemoveOwnerChecked(t *testing.T) {
	env := newTestEnv(t)
	svc := env.noteService()
	ctx := context.Background()

	n := addNote(t, svc, "u1", "Keep", "todo", 0)
	assert.ErrorIs(t, svc.Remove(ctx, "u2", n.ID), domain.ErrUnauthorized)
	assert.ErrorIs(t, svc.Remove(ctx, "u1", "missing"), domain.ErrNotFound)
	require.NoError(t, svc.Remove(ctx, "u1", n.ID))

	addNote(t, svc, "u1", "One", "todo", 0)
	addNote(t, svc, "u1", "Two", "todo", 1)
	count, err := svc.RemoveAll(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
