package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/alexanderramin/taskmate/internal/domain"
	"github.com/alexanderramin/taskmate/internal/repository"
)

// taskFilterFromQuery parses ?sort=&completed=&priority=&due=.
func taskFilterFromQuery(r *http.Request) (repository.TaskFilter, error) {
	q := r.URL.Query()
	var f repository.TaskFilter

	switch sort := repository.TaskSort(q.Get("sort")); sort {
	case "", repository.TaskSortNewest, repository.TaskSortOldest:
		f.Sort = sort
	default:
		return f, &domain.ValidationError{Field: "sort", Message: "must be newest or oldest"}
	}

	if v := q.Get("completed"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return f, &domain.ValidationError{Field: "completed", Message: "must be true or false"}
		}
		f.Completed = &b
	}

	if v := q.Get("priority"); v != "" {
		p := domain.Priority(v)
		if !domain.ValidPriorities[p] {
			return f, &domain.ValidationError{Field: "priority", Message: "must be high, medium or low"}
		}
		f.Priority = p
	}

	if v := q.Get("due"); v != "" {
		d, err := parseDate("due", v)
		if err != nil {
			return f, err
		}
		f.DueOn = &d
	}
	return f, nil
}

// GET /api/tasks
func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	f, err := taskFilterFromQuery(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	tasks, err := s.svc.Tasks.List(r.Context(), userID(r.Context()), f)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tasksFromDomain(tasks))
}

// POST /api/tasks
func (s *Server) handleAddTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	t, err := req.toDomain()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.svc.Tasks.Add(r.Context(), userID(r.Context()), t); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, taskFromDomain(t))
}

// GET /api/tasks/{id}
func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	t, err := s.svc.Tasks.Get(r.Context(), userID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, taskFromDomain(t))
}

// PATCH /api/tasks/{id}
func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	var req patchTaskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	patch, err := req.toDomain()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	t, err := s.svc.Tasks.Update(r.Context(), userID(r.Context()), chi.URLParam(r, "id"), patch)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, taskFromDomain(t))
}

// DELETE /api/tasks/{id}
func (s *Server) handleRemoveTask(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Tasks.Remove(r.Context(), userID(r.Context()), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DELETE /api/tasks
func (s *Server) handleRemoveAllTasks(w http.ResponseWriter, r *http.Request) {
	n, err := s.svc.Tasks.RemoveAll(r.Context(), userID(r.Context()))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"deleted": n})
}
