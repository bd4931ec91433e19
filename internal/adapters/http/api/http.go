// Package api declares HTTP contracts and route registration helpers.
//
// The API is the local binding surface: page scripts and UI bindings post
// raw interaction signals here, and pull transformed markup and profile
// read models back. It is not the upstream ingestion endpoint.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/glowup/beacon/internal/domain/activity"
	"github.com/glowup/beacon/internal/domain/model"
	"github.com/glowup/beacon/internal/domain/recorder"
	"github.com/glowup/beacon/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Write operations feed the tracking pipeline.
	RecordInteraction(ctx context.Context, t model.InteractionType, ct model.ContentType, d recorder.Data) error
	RecordSearch(ctx context.Context, query, searchType string, d recorder.Data) error
	ObserveSection(section string, ratios ...float64) error
	ReportVisibility(ctx context.Context, section string, visibleRatio float64) error
	TouchActivity(signal activity.Signal) error
	ClearProfile(ctx context.Context) error
	Flush(ctx context.Context) (delivered, dropped int, err error)

	// Read operations expose the profile and transformed markup.
	Personalize(ctx context.Context, fragment string) (string, error)
	Profile(ctx context.Context) (types.ProfileView, error)
	GetInsights(ctx context.Context) (types.Insights, error)
}

// Server wires HTTP routes for the tracking API.
type Server struct {
	healthHandler       *HealthHandler
	statsHandler        *StatsHandler
	interactionsHandler *InteractionsHandler
	visibilityHandler   *VisibilityHandler
	personalizeHandler  *PersonalizeHandler
	profileHandler      *ProfileHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:       NewHealthHandler(),
		statsHandler:        NewStatsHandler(statsProvider),
		interactionsHandler: NewInteractionsHandler(deps),
		visibilityHandler:   NewVisibilityHandler(deps),
		personalizeHandler:  NewPersonalizeHandler(deps),
		profileHandler:      NewProfileHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/interactions", MetricsMiddleware(s.interactionsHandler.HandlePostInteraction, "interactions"))
	mux.HandleFunc("/searches", MetricsMiddleware(s.interactionsHandler.HandlePostSearch, "searches"))
	mux.HandleFunc("/activity", MetricsMiddleware(s.interactionsHandler.HandlePostActivity, "activity"))
	mux.HandleFunc("/sections", MetricsMiddleware(s.visibilityHandler.HandlePostSection, "sections"))
	mux.HandleFunc("/visibility", MetricsMiddleware(s.visibilityHandler.HandlePostVisibility, "visibility"))
	mux.HandleFunc("/personalize", MetricsMiddleware(s.personalizeHandler.HandlePostPersonalize, "personalize"))
	mux.HandleFunc("/profile", MetricsMiddleware(s.profileHandler.HandleProfile, "profile"))
	mux.HandleFunc("/insights", MetricsMiddleware(s.profileHandler.HandleInsights, "insights"))
	mux.HandleFunc("/flush", MetricsMiddleware(s.profileHandler.HandlePostFlush, "flush"))
}

// interactionRequest mirrors the wire schema for POST /interactions.
type interactionRequest struct {
	Type        string `json:"type"`
	ContentType string `json:"content_type"`
	ContentID   int    `json:"content_id"`
	ContentName string `json:"content_name"`
	CategoryID  int    `json:"category_id"`
	PageURL     string `json:"page_url"`
	Referrer    string `json:"referrer"`
}

var validInteractionTypes = map[model.InteractionType]bool{
	model.TypeClick:  true,
	model.TypeScroll: true,
	model.TypeView:   true,
	model.TypeCustom: true,
}

var validContentTypes = map[model.ContentType]bool{
	model.ContentProcedure: true,
	model.ContentDoctor:    true,
	model.ContentCategory:  true,
	model.ContentPage:      true,
	model.ContentSection:   true,
}

func (r interactionRequest) validate() error {
	switch {
	case strings.TrimSpace(r.Type) == "":
		return errors.New("missing type")
	case !validInteractionTypes[model.InteractionType(r.Type)]:
		return errors.New("unknown type: " + r.Type)
	case strings.TrimSpace(r.ContentType) == "":
		return errors.New("missing content_type")
	case !validContentTypes[model.ContentType(r.ContentType)]:
		return errors.New("unknown content_type: " + r.ContentType)
	}
	return nil
}

func (r interactionRequest) data() recorder.Data {
	return recorder.Data{
		ContentID:   r.ContentID,
		ContentName: r.ContentName,
		CategoryID:  r.CategoryID,
		PageURL:     r.PageURL,
		Referrer:    r.Referrer,
	}
}

// searchRequest mirrors the wire schema for POST /searches.
type searchRequest struct {
	Query      string `json:"query"`
	SearchType string `json:"search_type"`
	PageURL    string `json:"page_url"`
}

func (r searchRequest) validate() error {
	if strings.TrimSpace(r.Query) == "" {
		return errors.New("missing query")
	}
	return nil
}

// activityRequest mirrors the wire schema for POST /activity.
type activityRequest struct {
	Signal string `json:"signal"`
}

var validSignals = map[activity.Signal]bool{
	activity.SignalPointerDown: true,
	activity.SignalPointerMove: true,
	activity.SignalKeyPress:    true,
	activity.SignalScroll:      true,
	activity.SignalTouchStart:  true,
}

func (r activityRequest) validate() error {
	switch {
	case strings.TrimSpace(r.Signal) == "":
		return errors.New("missing signal")
	case !validSignals[activity.Signal(r.Signal)]:
		return errors.New("unknown signal: " + r.Signal)
	}
	return nil
}

// sectionRequest mirrors the wire schema for POST /sections.
type sectionRequest struct {
	Section    string    `json:"section"`
	Thresholds []float64 `json:"thresholds,omitempty"`
}

func (r sectionRequest) validate() error {
	if strings.TrimSpace(r.Section) == "" {
		return errors.New("missing section")
	}
	for _, t := range r.Thresholds {
		if t <= 0 || t > 1 {
			return errors.New("threshold out of range (0, 1]")
		}
	}
	return nil
}

// visibilityRequest mirrors the wire schema for POST /visibility.
type visibilityRequest struct {
	Section      string  `json:"section"`
	VisibleRatio float64 `json:"visible_ratio"`
}

func (r visibilityRequest) validate() error {
	switch {
	case strings.TrimSpace(r.Section) == "":
		return errors.New("missing section")
	case r.VisibleRatio < 0 || r.VisibleRatio > 1:
		return errors.New("visible_ratio out of range [0, 1]")
	}
	return nil
}

// personalizeRequest mirrors the wire schema for POST /personalize.
type personalizeRequest struct {
	HTML string `json:"html"`
}

func (r personalizeRequest) validate() error {
	if r.HTML == "" {
		return errors.New("missing html")
	}
	return nil
}

type personalizeResponse struct {
	HTML string `json:"html"`
}

type ackResponse struct {
	Status string `json:"status"`
}

type flushResponse struct {
	Status    string `json:"status"`
	Delivered int    `json:"delivered"`
	Dropped   int    `json:"dropped"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
