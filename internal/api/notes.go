package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/alexanderramin/taskmate/internal/domain"
)

// GET /api/notes
func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := s.svc.Notes.List(r.Context(), userID(r.Context()))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, notesFromDomain(notes))
}

// POST /api/notes
func (s *Server) handleAddNote(w http.ResponseWriter, r *http.Request) {
	var req createNoteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	n := req.toDomain()
	if err := s.svc.Notes.Add(r.Context(), userID(r.Context()), n); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, noteFromDomain(n))
}

// PATCH /api/notes/{id}
func (s *Server) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	var req patchNoteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	n, err := s.svc.Notes.Update(r.Context(), userID(r.Context()), chi.URLParam(r, "id"), req.toDomain())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, noteFromDomain(n))
}

// PUT /api/notes/order takes a JSON array of {id, position, columnId}.
func (s *Server) handleUpdateNoteOrder(w http.ResponseWriter, r *http.Request) {
	var req []noteMoveJSON
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	moves := make([]domain.NoteMove, len(req))
	for i, m := range req {
		moves[i] = domain.NoteMove{ID: m.ID, Position: m.Position.toDomain(), ColumnID: m.ColumnID}
	}
	if err := s.svc.Notes.UpdateOrder(r.Context(), userID(r.Context()), moves); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DELETE /api/notes/{id}
func (s *Server) handleRemoveNote(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Notes.Remove(r.Context(), userID(r.Context()), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DELETE /api/notes
func (s *Server) handleRemoveAllNotes(w http.ResponseWriter, r *http.Request) {
	n, err := s.svc.Notes.RemoveAll(r.Context(), userID(r.Context()))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"deleted": n})
}
