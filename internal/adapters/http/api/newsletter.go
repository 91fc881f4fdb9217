package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"github.com/okian/herofan/pkg/metrics"
)

// signupRequest mirrors the OpenAPI schema for POST /api/newsletter.
type signupRequest struct {
	Email string `json:"email"`
}

// normalize validates the address and returns its lower-cased form. Display
// names such as "Tony <tony@example.com>" are rejected.
func (s signupRequest) normalize() (string, error) {
	raw := strings.TrimSpace(s.Email)
	if raw == "" {
		return "", errors.New("missing email")
	}
	addr, err := mail.ParseAddress(raw)
	if err != nil || addr.Address != raw {
		return "", errors.New("invalid email")
	}
	return strings.ToLower(addr.Address), nil
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// NewsletterHandler accepts newsletter signups.
type NewsletterHandler struct {
	deps NewsletterDependencies
}

// NewNewsletterHandler creates a new newsletter handler.
func NewNewsletterHandler(deps NewsletterDependencies) *NewsletterHandler {
	return &NewsletterHandler{deps: deps}
}

// HandlePostSignup handles POST /api/newsletter.
func (h *NewsletterHandler) HandlePostSignup(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_signup"
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		metrics.RecordSignupRejected("malformed")
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	email, err := req.normalize()
	if err != nil {
		metrics.RecordSignupRejected("invalid_email")
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	if h.deps.SeenAndRecord(r.Context(), email) {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true})
		return
	}
	if !h.deps.EnqueueSignup(r.Context(), email) {
		// Forget the address so the client can retry.
		h.deps.Unrecord(r.Context(), email)
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted"})
}
