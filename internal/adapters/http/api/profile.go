// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/glowup/beacon/internal/domain/types"
)

// ProfileDependencies defines the interface for profile read and reset
// dependencies.
type ProfileDependencies interface {
	Profile(ctx context.Context) (types.ProfileView, error)
	GetInsights(ctx context.Context) (types.Insights, error)
	ClearProfile(ctx context.Context) error
	Flush(ctx context.Context) (delivered, dropped int, err error)
}

// ProfileHandler handles profile, insight, and flush requests.
type ProfileHandler struct {
	deps ProfileDependencies
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(deps ProfileDependencies) *ProfileHandler {
	return &ProfileHandler{deps: deps}
}

// HandleProfile handles GET and DELETE /profile requests.
func (h *ProfileHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	const op = "api.profile"
	switch r.Method {
	case http.MethodGet:
		view, err := h.deps.Profile(r.Context())
		if err != nil {
			writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrUnavailable, err))
			return
		}
		writeJSON(w, http.StatusOK, view)
	case http.MethodDelete:
		if err := h.deps.ClearProfile(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrUnavailable, err))
			return
		}
		writeJSON(w, http.StatusOK, ackResponse{Status: "cleared"})
	default:
		http.NotFound(w, r)
	}
}

// HandleInsights handles GET /insights requests.
func (h *ProfileHandler) HandleInsights(w http.ResponseWriter, r *http.Request) {
	const op = "api.insights"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	insights, err := h.deps.GetInsights(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrUnavailable, err))
		return
	}
	writeJSON(w, http.StatusOK, insights)
}

// HandlePostFlush handles POST /flush requests, forcing an immediate
// dispatch of the pending queue.
func (h *ProfileHandler) HandlePostFlush(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_flush"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	delivered, dropped, err := h.deps.Flush(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrUnavailable, err))
		return
	}
	writeJSON(w, http.StatusOK, flushResponse{Status: "flushed", Delivered: delivered, Dropped: dropped})
}
