package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/taskmate/internal/domain"
	"github.com/google/uuid"
)

var testSeq atomic.Int64

// fixtureTime spaces fixtures one second apart so ordering by created_at is
// deterministic.
func fixtureTime() time.Time {
	base := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	return base.Add(time.Duration(testSeq.Add(1)) * time.Second)
}

// Task options
type TaskOption func(*domain.Task)

func WithCategory(c domain.Category) TaskOption {
	return func(t *domain.Task) {
		t.Category = c
	}
}

func WithPriority(p domain.Priority) TaskOption {
	return func(t *domain.Task) {
		t.Priority = p
	}
}

func WithTags(tags ...string) TaskOption {
	return func(t *domain.Task) {
		t.Tags = tags
	}
}

func WithSubtasks(titles ...string) TaskOption {
	return func(t *domain.Task) {
		for _, title := range titles {
			t.Subtasks = append(t.Subtasks, domain.Subtask{Title: title})
		}
	}
}

func WithDueDate(d time.Time) TaskOption {
	return func(t *domain.Task) {
		t.DueDate = &d
	}
}

func WithCompleted() TaskOption {
	return func(t *domain.Task) {
		t.IsCompleted = true
	}
}

func NewTestTask(userID, name string, opts ...TaskOption) *domain.Task {
	now := fixtureTime()
	t := &domain.Task{
		ID:         uuid.New().String(),
		UserID:     userID,
		Name:       name,
		Category:   domain.NamedCategory(domain.PresetWork),
		Subtasks:   []domain.Subtask{},
		Priority:   domain.PriorityMedium,
		Tags:       []string{},
		CreatedAt:  now,
		ModifiedAt: now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Note options
type NoteOption func(*domain.StickyNote)

func WithColumn(columnID string) NoteOption {
	return func(n *domain.StickyNote) {
		n.ColumnID = columnID
	}
}

func WithOrder(order int) NoteOption {
	return func(n *domain.StickyNote) {
		n.Position.Order = order
	}
}

func WithPinned() NoteOption {
	return func(n *domain.StickyNote) {
		n.IsPinned = true
	}
}

func NewTestNote(userID, name string, opts ...NoteOption) *domain.StickyNote {
	now := fixtureTime()
	n := &domain.StickyNote{
		ID:           uuid.New().String(),
		UserID:       userID,
		Name:         name,
		Color:        "#fff59d",
		ColumnID:     "todo",
		CreatedAt:    now,
		LastModified: now,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func NewTestUser(id string) *domain.User {
	return &domain.User{
		ID:        id,
		Email:     fmt.Sprintf("%s@example.com", id),
		FirstName: "Test",
		LastName:  fmt.Sprintf("User %d", testSeq.Add(1)),
		ImageURL:  "https://img.example.com/" + id + ".png",
	}
}
