// Package ussd adapts the Africa's Talking callback protocol to the
// session store and state machine, and exposes the admin surface.
package ussd

import (
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"ussd_lms/internal/flow"
	"ussd_lms/internal/logger"
	"ussd_lms/internal/session"
	"ussd_lms/pkg"
)

// Handler serves the USSD callback and the admin endpoints.
type Handler struct {
	store  session.Store
	engine *flow.Engine
	locks  session.KeyedMutex
}

// NewHandler wires the protocol adapter.
func NewHandler(store session.Store, engine *flow.Engine) *Handler {
	return &Handler{store: store, engine: engine}
}

// Routes builds the HTTP handler tree.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /ussd", h.handleUSSD)
	mux.HandleFunc("GET /health", h.handleHealth)
	mux.HandleFunc("GET /sessions", h.handleListSessions)
	mux.HandleFunc("DELETE /sessions/{id}", h.handleDeleteSession)

	return RequestLogger(mux)
}

// LatestToken derives the newest input fragment from the accumulated
// text: the substring after the last "*", or the empty string on first
// contact.
func LatestToken(text string) string {
	text = strings.TrimSpace(text)
	if i := strings.LastIndex(text, "*"); i >= 0 {
		return text[i+1:]
	}
	return text
}

func (h *Handler) handleUSSD(w http.ResponseWriter, r *http.Request) {
	var req pkg.USSDRequest
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "sessionId is required")
		return
	}

	ctx := r.Context()

	// Serialize getOrCreate -> step -> save per session id so a gateway
	// retry can never interleave with the request it duplicates.
	unlock := h.locks.Lock(req.SessionID)
	defer unlock()

	sess, err := h.store.GetOrCreate(ctx, req.SessionID)
	if err != nil {
		// Degraded backend: answer from the fresh session we got back.
		logger.Warn().Err(err).Str("session_id", req.SessionID).Msg("session load degraded")
	}
	if sess.PhoneNumber == "" && req.PhoneNumber != "" {
		sess.PhoneNumber = req.PhoneNumber
	}

	result := h.engine.Step(ctx, &sess, LatestToken(req.Text))

	if result.Continues {
		if err := h.store.Save(ctx, sess); err != nil {
			logger.Error().Err(err).Str("session_id", sess.ID).Msg("session save failed")
		}
	} else {
		// Terminal screen: drop the session proactively instead of
		// waiting for the TTL sweep.
		if err := h.store.Delete(ctx, sess.ID); err != nil {
			logger.Error().Err(err).Str("session_id", sess.ID).Msg("session delete failed")
		}
	}

	marker := "CON "
	if !result.Continues {
		marker = "END "
	}
	writeJSON(w, http.StatusOK, pkg.USSDResponse{
		SessionID:   req.SessionID,
		ServiceCode: req.ServiceCode,
		PhoneNumber: req.PhoneNumber,
		Text:        marker + result.Text,
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "LMS USSD Handler",
	})
}

// sessionSummary is the admin view of one session.
type sessionSummary struct {
	SessionID     string    `json:"session_id"`
	PhoneNumber   string    `json:"phone_number"`
	State         string    `json:"state"`
	Subject       string    `json:"subject,omitempty"`
	Grade         string    `json:"grade,omitempty"`
	CachedResults int       `json:"cached_results"`
	CreatedAt     time.Time `json:"created_at"`
	LastTouchedAt time.Time `json:"last_touched_at"`
}

func (h *Handler) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.store.List(r.Context())
	if err != nil {
		logger.Error().Err(err).Msg("session list failed")
		writeError(w, http.StatusInternalServerError, "failed to list sessions")
		return
	}

	summaries := make([]sessionSummary, 0, len(sessions))
	for _, s := range sessions {
		summaries = append(summaries, sessionSummary{
			SessionID:     s.ID,
			PhoneNumber:   s.PhoneNumber,
			State:         s.State,
			Subject:       s.Subject,
			Grade:         s.Grade,
			CachedResults: len(s.Resources),
			CreatedAt:     s.CreatedAt,
			LastTouchedAt: s.LastTouchedAt,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"sessions": summaries,
		"count":    len(summaries),
	})
}

func (h *Handler) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	unlock := h.locks.Lock(id)
	defer unlock()

	if err := h.store.Delete(r.Context(), id); err != nil {
		logger.Error().Err(err).Str("session_id", id).Msg("session delete failed")
		writeError(w, http.StatusInternalServerError, "failed to delete session")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "session " + id + " cleared",
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := sonic.ConfigDefault.NewEncoder(w).Encode(v); err != nil {
		logger.Error().Err(err).Msg("response encode failed")
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
