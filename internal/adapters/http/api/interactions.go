// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/glowup/beacon/internal/domain/activity"
	"github.com/glowup/beacon/internal/domain/model"
	"github.com/glowup/beacon/internal/domain/recorder"
)

// InteractionDependencies defines the interface for interaction recording
// dependencies.
type InteractionDependencies interface {
	RecordInteraction(ctx context.Context, t model.InteractionType, ct model.ContentType, d recorder.Data) error
	RecordSearch(ctx context.Context, query, searchType string, d recorder.Data) error
	TouchActivity(signal activity.Signal) error
}

// InteractionsHandler handles interaction, search, and activity requests.
type InteractionsHandler struct {
	deps InteractionDependencies
}

// NewInteractionsHandler creates a new interactions handler.
func NewInteractionsHandler(deps InteractionDependencies) *InteractionsHandler {
	return &InteractionsHandler{deps: deps}
}

// HandlePostInteraction handles POST /interactions requests.
func (h *InteractionsHandler) HandlePostInteraction(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_interaction"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req interactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	if err := h.deps.RecordInteraction(r.Context(), model.InteractionType(req.Type), model.ContentType(req.ContentType), req.data()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrUnavailable, err))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "recorded"})
}

// HandlePostSearch handles POST /searches requests.
func (h *InteractionsHandler) HandlePostSearch(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_search"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	d := recorder.Data{ContentName: req.Query, PageURL: req.PageURL}
	if err := h.deps.RecordSearch(r.Context(), req.Query, req.SearchType, d); err != nil {
		writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrUnavailable, err))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "recorded"})
}

// HandlePostActivity handles POST /activity requests.
func (h *InteractionsHandler) HandlePostActivity(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_activity"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req activityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	if err := h.deps.TouchActivity(activity.Signal(req.Signal)); err != nil {
		writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrUnavailable, err))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "touched"})
}
