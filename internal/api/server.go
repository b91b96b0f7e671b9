// Package api serves the Taskmate use cases over HTTP as JSON.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alexanderramin/taskmate/internal/config"
	"github.com/alexanderramin/taskmate/internal/domain"
	"github.com/alexanderramin/taskmate/internal/service"
)

const maxBodyBytes = 1 << 20

// Services bundles the use cases the API exposes.
type Services struct {
	Tasks    service.TaskService
	Notes    service.NoteService
	Progress service.ProgressService
	Timer    service.TimerService
	Users    service.UserService
}

type Options struct {
	// IdentityHeader carries the acting user id, set by the trusted
	// identity proxy in front of the server.
	IdentityHeader string
	WebhookHeader  string
	// WebhookSecret must be non-empty for the identity webhook to accept
	// calls.
	WebhookSecret string
	StudySeconds  int
	BreakSeconds  int
	Logger        *slog.Logger
	// Metrics is served at /metrics when non-nil.
	Metrics prometheus.Gatherer
}

// Server is the Taskmate HTTP API server.
type Server struct {
	svc    Services
	opts   Options
	logger *slog.Logger
}

// NewServer fills unset options with the config defaults.
func NewServer(svc Services, opts Options) *Server {
	opts.IdentityHeader = domain.CoalesceStr(opts.IdentityHeader, config.DefaultIdentityHeader)
	opts.WebhookHeader = domain.CoalesceStr(opts.WebhookHeader, config.DefaultWebhookHeader)
	opts.StudySeconds = domain.CoalesceInt(opts.StudySeconds, domain.DefaultStudySeconds)
	if opts.BreakSeconds < 0 {
		opts.BreakSeconds = domain.DefaultBreakSeconds
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Server{svc: svc, opts: opts, logger: logger}
}

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if s.opts.Metrics != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.opts.Metrics, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/webhooks/identity", s.handleIdentityWebhook)

		r.Group(func(r chi.Router) {
			r.Use(s.requireIdentity)

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", s.handleListTasks)
				r.Post("/", s.handleAddTask)
				r.Delete("/", s.handleRemoveAllTasks)
				r.Get("/{id}", s.handleGetTask)
				r.Patch("/{id}", s.handleUpdateTask)
				r.Delete("/{id}", s.handleRemoveTask)
			})

			r.Route("/notes", func(r chi.Router) {
				r.Get("/", s.handleListNotes)
				r.Post("/", s.handleAddNote)
				r.Delete("/", s.handleRemoveAllNotes)
				r.Put("/order", s.handleUpdateNoteOrder)
				r.Patch("/{id}", s.handleUpdateNote)
				r.Delete("/{id}", s.handleRemoveNote)
			})

			r.Get("/progress", s.handleProgress)
			r.Get("/progress/logs", s.handleProgressLogs)
			r.Get("/leaderboard", s.handleLeaderboard)

			r.Route("/timer", func(r chi.Router) {
				r.Get("/", s.handleTimerState)
				r.Post("/start", s.handleTimerStart)
				r.Post("/pause", s.handleTimerPause)
				r.Post("/resume", s.handleTimerResume)
				r.Post("/stop", s.handleTimerStop)
				r.Post("/complete", s.handleTimerComplete)
			})

			r.Get("/users/me", s.handleCurrentUser)
			r.Get("/users/recent", s.handleRecentUsers)
		})
	})

	return r
}

// logRequests writes one slog line per request once the response is done.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			s.logger.InfoContext(r.Context(), "http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()
		next.ServeHTTP(ww, r)
	})
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
	Field string `json:"field,omitempty"`
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorBody{Error: msg, Code: code})
}

// fail maps a use case error onto a status code. Unexpected errors are
// logged and hidden from the client.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: verr.Error(), Code: "invalid", Field: verr.Field})
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, "invalid", err.Error())
	case errors.Is(err, domain.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "unauthenticated", err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusForbidden, "unauthorized", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, "conflict", err.Error())
	default:
		s.logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, "internal", "internal server error")
	}
}

// decodeJSON reads a JSON body into v. Unknown fields and trailing data
// are rejected as validation errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	return decodeBody(w, r, v, false)
}

// decodeOptionalJSON is decodeJSON for endpoints where the body may be
// omitted. An empty body, chunked or not, leaves v untouched.
func decodeOptionalJSON(w http.ResponseWriter, r *http.Request, v any) error {
	return decodeBody(w, r, v, true)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any, optional bool) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return nil
		}
		return &domain.ValidationError{Field: "body", Message: err.Error()}
	}
	if dec.More() {
		return &domain.ValidationError{Field: "body", Message: "unexpected data after JSON value"}
	}
	return nil
}
