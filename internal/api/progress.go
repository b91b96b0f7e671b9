package api

import (
	"net/http"
	"strconv"

	"github.com/alexanderramin/taskmate/internal/domain"
)

// GET /api/progress
func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.Progress.GetUserProgress(r.Context(), userID(r.Context()))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, progressJSON{
		Points:         p.Points,
		Level:          p.Level,
		Progress:       p.Progress,
		RequiredPoints: p.RequiredPoints,
	})
}

// GET /api/progress/logs returns the newest entries first.
func (s *Server) handleProgressLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := s.svc.Progress.GetUserLogs(r.Context(), userID(r.Context()))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out := make([]logJSON, len(logs))
	for i, l := range logs {
		out[i] = logJSON{ID: l.ID, Description: l.Description, Points: l.Points, Timestamp: l.Timestamp}
	}
	writeJSON(w, http.StatusOK, out)
}

// GET /api/leaderboard?limit=
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.fail(w, r, &domain.ValidationError{Field: "limit", Message: "must be a positive integer"})
			return
		}
		limit = n
	}
	lb, err := s.svc.Progress.Leaderboard(r.Context(), limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out := leaderboardJSON{
		Entries:    make([]leaderboardEntryJSON, len(lb.Entries)),
		TotalUsers: lb.TotalUsers,
	}
	for i, e := range lb.Entries {
		out.Entries[i] = leaderboardEntryJSON{
			Rank:      e.Rank,
			UserID:    e.UserID,
			Points:    e.Points,
			Level:     e.Level,
			FirstName: e.FirstName,
			LastName:  e.LastName,
			ImageURL:  e.ImageURL,
		}
	}
	writeJSON(w, http.StatusOK, out)
}
