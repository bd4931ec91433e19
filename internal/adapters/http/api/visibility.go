// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
)

// VisibilityDependencies defines the interface for visibility tracking
// dependencies.
type VisibilityDependencies interface {
	ObserveSection(section string, ratios ...float64) error
	ReportVisibility(ctx context.Context, section string, visibleRatio float64) error
}

// VisibilityHandler handles section registration and visibility reports.
type VisibilityHandler struct {
	deps VisibilityDependencies
}

// NewVisibilityHandler creates a new visibility handler.
func NewVisibilityHandler(deps VisibilityDependencies) *VisibilityHandler {
	return &VisibilityHandler{deps: deps}
}

// HandlePostSection handles POST /sections requests.
func (h *VisibilityHandler) HandlePostSection(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_section"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req sectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	if err := h.deps.ObserveSection(req.Section, req.Thresholds...); err != nil {
		writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrUnavailable, err))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "observing"})
}

// HandlePostVisibility handles POST /visibility requests.
func (h *VisibilityHandler) HandlePostVisibility(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_visibility"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req visibilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	if err := h.deps.ReportVisibility(r.Context(), req.Section, req.VisibleRatio); err != nil {
		writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrUnavailable, err))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "reported"})
}
