package session

import (
	"context"
	"time"

	"ussd_lms/internal/menu"
	"ussd_lms/pkg"
)

// Session is one user's multi-step interaction, keyed by the opaque id
// supplied by the protocol gateway. Owned exclusively by the Store;
// handlers work on value copies and persist them with a single Save.
type Session struct {
	ID            string         `json:"session_id"`
	PhoneNumber   string         `json:"phone_number"`
	State         string         `json:"state"`
	Subject       string         `json:"subject,omitempty"`
	Grade         string         `json:"grade,omitempty"`
	Resources     []pkg.Resource `json:"resources,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	LastTouchedAt time.Time      `json:"last_touched_at"`
}

// New returns a fresh session positioned at the main menu.
func New(id string, now time.Time) Session {
	return Session{
		ID:            id,
		State:         menu.StateMain,
		CreatedAt:     now,
		LastTouchedAt: now,
	}
}

// ClearSelection drops the accumulated subject/grade narrowing and the
// cached result list. Called when the user backs out of a search.
func (s *Session) ClearSelection() {
	s.Subject = ""
	s.Grade = ""
	s.Resources = nil
}

// Store is the concurrency-safe table of session id to session state.
type Store interface {
	// GetOrCreate returns the stored session or a fresh one at the main
	// menu. A store that cannot reach its backend returns a fresh
	// session together with the error so the caller can degrade.
	GetOrCreate(ctx context.Context, id string) (Session, error)

	// Save replaces the stored value for the session's id.
	Save(ctx context.Context, s Session) error

	// Delete removes a session. Idempotent.
	Delete(ctx context.Context, id string) error

	// List returns all live sessions, for the admin surface.
	List(ctx context.Context) ([]Session, error)

	// SweepExpired removes sessions untouched for longer than the TTL
	// and returns the count removed.
	SweepExpired(ctx context.Context, now time.Time) (int, error)
}
