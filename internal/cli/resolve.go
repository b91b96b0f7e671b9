package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/taskmate/internal/repository"
)

// matchPrefix expands ref to the single id it prefixes. No match returns
// ref unchanged so the service reports the not-found error.
func matchPrefix(kind, ref string, ids []string) (string, error) {
	var found []string
	for _, id := range ids {
		if id == ref {
			return id, nil
		}
		if strings.HasPrefix(id, ref) {
			found = append(found, id)
		}
	}
	switch len(found) {
	case 0:
		return ref, nil
	case 1:
		return found[0], nil
	default:
		return "", fmt.Errorf("%s id %q is ambiguous, it matches %d %ss", kind, ref, len(found), kind)
	}
}

func (a *App) resolveTaskID(ctx context.Context, ref string) (string, error) {
	tasks, err := a.Tasks.List(ctx, a.user(), repository.TaskFilter{})
	if err != nil {
		return "", err
	}
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return matchPrefix("task", ref, ids)
}

func (a *App) resolveNoteID(ctx context.Context, ref string) (string, error) {
	notes, err := a.Notes.List(ctx, a.user())
	if err != nil {
		return "", err
	}
	ids := make([]string, len(notes))
	for i, n := range notes {
		ids[i] = n.ID
	}
	return matchPrefix("note", ref, ids)
}
