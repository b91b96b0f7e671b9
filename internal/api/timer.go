package api

import (
	"context"
	"net/http"

	"github.com/alexanderramin/taskmate/internal/service"
)

// GET /api/timer
func (s *Server) handleTimerState(w http.ResponseWriter, r *http.Request) {
	snap, err := s.svc.Timer.State(r.Context(), userID(r.Context()))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, timerFromSnapshot(snap))
}

// POST /api/timer/start
func (s *Server) handleTimerStart(w http.ResponseWriter, r *http.Request) {
	var req startTimerRequest
	if err := decodeOptionalJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	study, brk := s.opts.StudySeconds, s.opts.BreakSeconds
	if req.StudySeconds != nil {
		study = *req.StudySeconds
	}
	if req.BreakSeconds != nil {
		brk = *req.BreakSeconds
	}
	snap, err := s.svc.Timer.Start(r.Context(), userID(r.Context()), req.Name, study, brk)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, timerFromSnapshot(snap))
}

// POST /api/timer/pause
func (s *Server) handleTimerPause(w http.ResponseWriter, r *http.Request) {
	s.timerTransition(w, r, s.svc.Timer.Pause)
}

// POST /api/timer/resume
func (s *Server) handleTimerResume(w http.ResponseWriter, r *http.Request) {
	s.timerTransition(w, r, s.svc.Timer.Resume)
}

func (s *Server) timerTransition(w http.ResponseWriter, r *http.Request,
	op func(context.Context, string) (service.TimerSnapshot, error)) {
	snap, err := op(r.Context(), userID(r.Context()))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, timerFromSnapshot(snap))
}

// POST /api/timer/stop discards the session without awarding points.
func (s *Server) handleTimerStop(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Timer.Stop(r.Context(), userID(r.Context())); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /api/timer/complete awards a finished cycle at most once.
func (s *Server) handleTimerComplete(w http.ResponseWriter, r *http.Request) {
	awarded, err := s.svc.Timer.CompleteAndAward(r.Context(), userID(r.Context()))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"awarded": awarded})
}
