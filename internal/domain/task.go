package domain

import (
	"fmt"
	"strings"
	"time"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// ValidPriorities is the canonical set of accepted priority strings.
var ValidPriorities = map[Priority]bool{
	PriorityHigh: true, PriorityMedium: true, PriorityLow: true,
}

const minTaskNameLen = 3

// DueTimeLayout is the wall-clock format for Task.DueTime.
const DueTimeLayout = "15:04"

type Subtask struct {
	Title       string
	IsCompleted bool
}

type Task struct {
	ID          string
	UserID      string
	Name        string
	Category    Category
	Description string
	Subtasks    []Subtask
	Priority    Priority
	Tags        []string
	DueDate     *time.Time
	DueTime     string
	IsCompleted bool

	CreatedAt time.Time
	// ModifiedAt is stamped whenever name, category or description change.
	ModifiedAt time.Time
}

// Validate checks the invariants every stored task must satisfy.
func (t *Task) Validate() error {
	name := strings.TrimSpace(t.Name)
	if name == "" {
		return invalid("name", "task name is required")
	}
	if len([]rune(name)) < minTaskNameLen {
		return invalid("name", fmt.Sprintf("task name must be at least %d letters long", minTaskNameLen))
	}
	if err := t.Category.Validate(); err != nil {
		return err
	}
	if !ValidPriorities[t.Priority] {
		return invalid("priority", fmt.Sprintf("unknown priority %q", t.Priority))
	}
	for i, st := range t.Subtasks {
		if strings.TrimSpace(st.Title) == "" {
			return invalid(fmt.Sprintf("subtasks[%d].title", i), "subtask title is required")
		}
	}
	if t.DueTime != "" {
		if _, err := time.Parse(DueTimeLayout, t.DueTime); err != nil {
			return invalid("dueTime", fmt.Sprintf("%q must be HH:MM", t.DueTime))
		}
	}
	return nil
}

// Normalize trims text fields and deduplicates tags, preserving order.
func (t *Task) Normalize() {
	t.Name = strings.TrimSpace(t.Name)
	t.Description = strings.TrimSpace(t.Description)
	t.Tags = NormalizeTags(t.Tags)
	for i := range t.Subtasks {
		t.Subtasks[i].Title = strings.TrimSpace(t.Subtasks[i].Title)
	}
	if t.Subtasks == nil {
		t.Subtasks = []Subtask{}
	}
}

// NormalizeTags trims, drops empties and removes duplicates.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}

// SubtaskProgress returns completed and total subtask counts.
func (t *Task) SubtaskProgress() (done, total int) {
	for _, st := range t.Subtasks {
		if st.IsCompleted {
			done++
		}
	}
	return done, len(t.Subtasks)
}

// DueOn reports whether the task is due on the calendar day of d.
func (t *Task) DueOn(d time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	y1, m1, d1 := t.DueDate.Date()
	y2, m2, d2 := d.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// TaskPatch is a partial update; nil fields are left unchanged.
type TaskPatch struct {
	Name        *string
	Category    *Category
	Description *string
	Subtasks    *[]Subtask
	Priority    *Priority
	Tags        *[]string
	DueDate     **time.Time
	DueTime     *string
	IsCompleted *bool
}

// Apply merges the patch into t. It reports whether a content field
// (name, category, description) changed and whether completion flipped.
func (p TaskPatch) Apply(t *Task, now time.Time) (contentChanged, completionToggled bool) {
	if p.Name != nil && *p.Name != t.Name {
		t.Name = *p.Name
		contentChanged = true
	}
	if p.Category != nil && *p.Category != t.Category {
		t.Category = *p.Category
		contentChanged = true
	}
	if p.Description != nil && *p.Description != t.Description {
		t.Description = *p.Description
		contentChanged = true
	}
	if p.Subtasks != nil {
		t.Subtasks = *p.Subtasks
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Tags != nil {
		t.Tags = *p.Tags
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.DueTime != nil {
		t.DueTime = *p.DueTime
	}
	if p.IsCompleted != nil && *p.IsCompleted != t.IsCompleted {
		t.IsCompleted = *p.IsCompleted
		completionToggled = true
	}
	if contentChanged {
		t.ModifiedAt = now
	}
	return contentChanged, completionToggled
}

// CompletionLogDescription is the points log text for a completion toggle.
func CompletionLogDescription(taskName string, completed bool) string {
	if completed {
		return "Completed task: " + taskName
	}
	return "Uncompleted task: " + taskName
}
