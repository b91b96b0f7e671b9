package domain

import (
	"strings"
	"time"
)

type NotePosition struct {
	X     float64
	Y     float64
	Order int
}

type StickyNote struct {
	ID          string
	UserID      string
	Name        string
	Description string
	Color       string
	Icon        string
	Position    NotePosition
	ColumnID    string
	IsPinned    bool
	CreatedAt   time.Time
	// LastModified is stamped whenever name, description, color or icon change.
	LastModified time.Time
}

func (n *StickyNote) Validate() error {
	if strings.TrimSpace(n.Name) == "" {
		return invalid("name", "note name is required")
	}
	if strings.TrimSpace(n.ColumnID) == "" {
		return invalid("columnId", "column is required")
	}
	return nil
}

// NotePatch is a partial update; nil fields are left unchanged.
type NotePatch struct {
	Name        *string
	Description *string
	Color       *string
	Icon        *string
	Position    *NotePosition
	ColumnID    *string
	IsPinned    *bool
}

// Apply merges the patch and reports whether a content field changed.
func (p NotePatch) Apply(n *StickyNote, now time.Time) bool {
	changed := false
	if p.Name != nil && *p.Name != n.Name {
		n.Name = *p.Name
		changed = true
	}
	if p.Description != nil && *p.Description != n.Description {
		n.Description = *p.Description
		changed = true
	}
	if p.Color != nil && *p.Color != n.Color {
		n.Color = *p.Color
		changed = true
	}
	if p.Icon != nil && *p.Icon != n.Icon {
		n.Icon = *p.Icon
		changed = true
	}
	if p.Position != nil {
		n.Position = *p.Position
	}
	if p.ColumnID != nil {
		n.ColumnID = *p.ColumnID
	}
	if p.IsPinned != nil {
		n.IsPinned = *p.IsPinned
	}
	if changed {
		n.LastModified = now
	}
	return changed
}

// NoteMove repositions one note on the board.
type NoteMove struct {
	ID       string
	Position NotePosition
	ColumnID string
}
