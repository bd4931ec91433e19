// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
)

// PersonalizeDependencies defines the interface for markup transformation
// dependencies.
type PersonalizeDependencies interface {
	Personalize(ctx context.Context, fragment string) (string, error)
}

// PersonalizeHandler handles personalization requests.
type PersonalizeHandler struct {
	deps PersonalizeDependencies
}

// NewPersonalizeHandler creates a new personalize handler.
func NewPersonalizeHandler(deps PersonalizeDependencies) *PersonalizeHandler {
	return &PersonalizeHandler{deps: deps}
}

// HandlePostPersonalize handles POST /personalize requests. The request
// body carries an HTML fragment; the response carries the re-ranked and
// highlighted markup.
func (h *PersonalizeHandler) HandlePostPersonalize(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_personalize"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req personalizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	out, err := h.deps.Personalize(r.Context(), req.HTML)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "unprocessable", WrapKind(op, ErrBadRequest, err))
		return
	}
	writeJSON(w, http.StatusOK, personalizeResponse{HTML: out})
}
