package api

import "net/http"

// GET /api/users/me
func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	u, err := s.svc.Users.Current(r.Context(), userID(r.Context()))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userFromDomain(u))
}

// GET /api/users/recent
func (s *Server) handleRecentUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.svc.Users.ListRecent(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out := make([]userJSON, len(users))
	for i, u := range users {
		out[i] = userFromDomain(u)
	}
	writeJSON(w, http.StatusOK, out)
}
