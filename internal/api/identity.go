package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/alexanderramin/taskmate/internal/domain"
)

type userIDKey struct{}

// withUserID stores the acting user id on the request context.
func withUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userIDKey{}, id)
}

// userID returns the acting user id, or "" when none was set.
func userID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey{}).(string)
	return id
}

// requireIdentity rejects requests without the identity header.
func (s *Server) requireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(s.opts.IdentityHeader))
		if id == "" {
			writeError(w, http.StatusUnauthorized, "unauthenticated", "missing "+s.opts.IdentityHeader+" header")
			return
		}
		next.ServeHTTP(w, r.WithContext(withUserID(r.Context(), id)))
	})
}

// Identity webhook event types.
const (
	eventUserCreated = "user.created"
	eventUserUpdated = "user.updated"
	eventUserDeleted = "user.deleted"
)

type identityEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type identityEmail struct {
	EmailAddress string `json:"email_address"`
}

type identityUser struct {
	ID             string          `json:"id"`
	EmailAddresses []identityEmail `json:"email_addresses"`
	FirstName      *string         `json:"first_name"`
	LastName       *string         `json:"last_name"`
	ImageURL       *string         `json:"image_url"`
}

func (u identityUser) toDomain() *domain.User {
	out := &domain.User{ID: u.ID}
	if len(u.EmailAddresses) > 0 {
		out.Email = u.EmailAddresses[0].EmailAddress
	}
	if u.FirstName != nil {
		out.FirstName = *u.FirstName
	}
	if u.LastName != nil {
		out.LastName = *u.LastName
	}
	if u.ImageURL != nil {
		out.ImageURL = *u.ImageURL
	}
	return out
}

type identityDeleted struct {
	ID string `json:"id"`
}

// handleIdentityWebhook keeps the user table in sync with the identity
// provider. Unknown event types are acknowledged and ignored.
// POST /api/webhooks/identity
func (s *Server) handleIdentityWebhook(w http.ResponseWriter, r *http.Request) {
	if s.opts.WebhookSecret == "" {
		writeError(w, http.StatusServiceUnavailable, "disabled", "identity webhook is not configured")
		return
	}
	got := r.Header.Get(s.opts.WebhookHeader)
	if subtle.ConstantTimeCompare([]byte(got), []byte(s.opts.WebhookSecret)) != 1 {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "invalid webhook secret")
		return
	}

	// Provider payloads carry many fields we do not read.
	var ev identityEvent
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&ev); err != nil {
		s.fail(w, r, &domain.ValidationError{Field: "body", Message: err.Error()})
		return
	}

	switch ev.Type {
	case eventUserCreated, eventUserUpdated:
		var u identityUser
		if err := json.Unmarshal(ev.Data, &u); err != nil {
			s.fail(w, r, &domain.ValidationError{Field: "data", Message: err.Error()})
			return
		}
		if err := s.svc.Users.UpsertFromIdentity(r.Context(), u.toDomain()); err != nil {
			s.fail(w, r, err)
			return
		}
	case eventUserDeleted:
		var d identityDeleted
		if err := json.Unmarshal(ev.Data, &d); err != nil {
			s.fail(w, r, &domain.ValidationError{Field: "data", Message: err.Error()})
			return
		}
		if d.ID == "" {
			s.fail(w, r, &domain.ValidationError{Field: "data.id", Message: "user id is required"})
			return
		}
		if err := s.svc.Users.DeleteFromIdentity(r.Context(), d.ID); err != nil {
			s.fail(w, r, err)
			return
		}
	default:
		s.logger.InfoContext(r.Context(), "ignored identity webhook event", "type", ev.Type)
		writeJSON(w, http.StatusOK, map[string]any{"status": "ignored", "type": ev.Type})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "type": ev.Type})
}
