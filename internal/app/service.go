// Package service assembles the tracking pipeline and implements the
// dependencies required by the HTTP API.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/glowup/beacon/internal/adapters/ingest"
	eventqueue "github.com/glowup/beacon/internal/adapters/mq/dispatcher"
	"github.com/glowup/beacon/internal/adapters/mq/queue"
	"github.com/glowup/beacon/internal/adapters/rendering"
	"github.com/glowup/beacon/internal/adapters/repository"
	"github.com/glowup/beacon/internal/domain/activity"
	"github.com/glowup/beacon/internal/domain/history"
	"github.com/glowup/beacon/internal/domain/identity"
	"github.com/glowup/beacon/internal/domain/model"
	"github.com/glowup/beacon/internal/domain/personalize"
	"github.com/glowup/beacon/internal/domain/preferences"
	"github.com/glowup/beacon/internal/domain/recorder"
	"github.com/glowup/beacon/internal/domain/types"
	"github.com/glowup/beacon/internal/domain/visibility"
	"github.com/glowup/beacon/pkg/logger"
)

// Default service configuration constants.
const (
	defaultStopTimeout = 10 * time.Second
)

// Service owns the component graph for one visitor process: identity,
// preference accumulation, the interaction queue, the dispatcher, and the
// personalization applier.
type Service struct {
	mu sync.RWMutex

	// Core components
	store      repository.KV
	ident      *identity.Provider
	prefs      *preferences.Store
	hist       *history.Log
	monitor    *activity.Monitor
	queue      queue.Queue
	rec        *recorder.Recorder
	observer   *visibility.Observer
	transport  ingest.Transport
	dispatcher *eventqueue.Dispatcher
	applier    *personalize.Applier

	// Configuration
	storePath            string
	ingestEndpoint       string
	signals              identity.Signals
	flushInterval        time.Duration
	inactivityWindow     time.Duration
	searchWeight         int
	browseWeight         int
	minKeywordLength     int
	topKeywordCount      int
	highlightClass       string
	visitCap             int
	searchCap            int
	visibilityThresholds []float64
	clock                func() time.Time

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore injects a pre-built key-value store, bypassing the
// path-based selection in Start.
func WithStore(kv repository.KV) Option {
	return func(s *Service) {
		if kv != nil {
			s.store = kv
		}
	}
}

// WithStorePath sets the sqlite database path for the persistent store.
// Empty means in-memory only.
func WithStorePath(path string) Option {
	return func(s *Service) {
		s.storePath = path
	}
}

// WithIngestEndpoint sets the upstream ingestion URL.
func WithIngestEndpoint(endpoint string) Option {
	return func(s *Service) {
		s.ingestEndpoint = endpoint
	}
}

// WithTransport injects a custom dispatch transport, bypassing the HTTP
// client built from the ingest endpoint.
func WithTransport(t ingest.Transport) Option {
	return func(s *Service) {
		if t != nil {
			s.transport = t
		}
	}
}

// WithSignals sets the environment signals feeding fingerprint derivation.
func WithSignals(sig identity.Signals) Option {
	return func(s *Service) {
		s.signals = sig
	}
}

// WithFlushInterval sets the dispatcher flush cadence.
func WithFlushInterval(interval time.Duration) Option {
	return func(s *Service) {
		if interval > 0 {
			s.flushInterval = interval
		}
	}
}

// WithInactivityWindow sets the idle threshold for the activity monitor.
func WithInactivityWindow(window time.Duration) Option {
	return func(s *Service) {
		if window > 0 {
			s.inactivityWindow = window
		}
	}
}

// WithScoringWeights sets the search and browse keyword weights.
func WithScoringWeights(search, browse int) Option {
	return func(s *Service) {
		if search > 0 {
			s.searchWeight = search
		}
		if browse > 0 {
			s.browseWeight = browse
		}
	}
}

// WithMinKeywordLength sets the minimum token length scored as a keyword.
func WithMinKeywordLength(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.minKeywordLength = n
		}
	}
}

// WithTopKeywordCount sets how many keywords drive link highlighting.
func WithTopKeywordCount(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.topKeywordCount = n
		}
	}
}

// WithHighlightClass sets the CSS class attached to highlighted links.
func WithHighlightClass(class string) Option {
	return func(s *Service) {
		if class != "" {
			s.highlightClass = class
		}
	}
}

// WithHistoryCaps sets the visit and search history caps.
func WithHistoryCaps(visits, searches int) Option {
	return func(s *Service) {
		if visits > 0 {
			s.visitCap = visits
		}
		if searches > 0 {
			s.searchCap = searches
		}
	}
}

// WithVisibilityThresholds sets the default section view thresholds.
func WithVisibilityThresholds(thresholds []float64) Option {
	return func(s *Service) {
		if len(thresholds) > 0 {
			s.visibilityThresholds = thresholds
		}
	}
}

// WithClock sets the time source.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		visibilityThresholds: visibility.DefaultThresholds,
		clock:                time.Now,
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components. A started service
// has loaded its persisted profile, recorded the visit, and is flushing
// the queue on the configured cadence.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting tracking service...")

	if err := s.initStore(ctx); err != nil {
		return err
	}

	s.ident = identity.New(s.store, s.signals)

	prefOpts := []preferences.Option{}
	if s.searchWeight > 0 && s.browseWeight > 0 {
		prefOpts = append(prefOpts,
			preferences.WithSearchWeight(s.searchWeight),
			preferences.WithBrowseWeight(s.browseWeight),
		)
	}
	if s.minKeywordLength > 0 {
		prefOpts = append(prefOpts, preferences.WithMinKeywordLength(s.minKeywordLength))
	}
	s.prefs = preferences.New(s.store, prefOpts...)
	s.prefs.Load(ctx)

	histOpts := []history.Option{history.WithClock(history.Clock(s.clock))}
	if s.visitCap > 0 {
		histOpts = append(histOpts, history.WithVisitCap(s.visitCap))
	}
	if s.searchCap > 0 {
		histOpts = append(histOpts, history.WithSearchCap(s.searchCap))
	}
	s.hist = history.New(s.store, histOpts...)
	s.hist.Load(ctx)

	monOpts := []activity.Option{activity.WithClock(activity.Clock(s.clock))}
	if s.inactivityWindow > 0 {
		monOpts = append(monOpts, activity.WithWindow(s.inactivityWindow))
	}
	s.monitor = activity.New(monOpts...)

	s.queue = queue.NewInMemoryQueue()
	s.rec = recorder.New(s.queue, s.prefs, s.ident.SessionID,
		recorder.WithActivity(s.monitor),
		recorder.WithHistory(s.hist),
		recorder.WithClock(recorder.Clock(s.clock)),
	)

	// A threshold crossing is recorded like any other interaction so it
	// flows through scoring and dispatch with the rest.
	s.observer = visibility.New(func(ctx context.Context, section string, _ float64) {
		s.rec.Record(ctx, model.TypeView, model.ContentSection, recorder.Data{ContentName: section})
	})

	if s.transport == nil {
		s.transport = ingest.NewClient(s.ingestEndpoint)
	}

	dispOpts := []eventqueue.Option{}
	if s.flushInterval > 0 {
		dispOpts = append(dispOpts, eventqueue.WithInterval(s.flushInterval))
	}
	s.dispatcher = eventqueue.New(s.queue, s.transport, func() string {
		return s.ident.Fingerprint(context.Background())
	}, dispOpts...)
	go s.dispatcher.Run(context.WithoutCancel(ctx))

	applyOpts := []personalize.Option{}
	if s.topKeywordCount > 0 {
		applyOpts = append(applyOpts, personalize.WithTopKeywordCount(s.topKeywordCount))
	}
	s.applier = personalize.New(applyOpts...)

	// The engine coming up on a page counts as a visit.
	s.hist.RecordVisit(ctx)

	s.started = true
	s.logger.Info(ctx, "tracking service started",
		logger.String("fingerprint", s.ident.Fingerprint(ctx)),
		logger.String("session", s.ident.SessionID()),
		logger.Bool("persistent", s.storePath != ""),
	)

	return nil
}

// initStore selects the key-value store: an injected one wins, then the
// sqlite path, then in-memory. Must be called with s.mu held.
func (s *Service) initStore(ctx context.Context) error {
	if s.store != nil {
		return nil
	}
	if s.storePath == "" {
		s.store = repository.NewMemoryStore()
		s.logger.Info(ctx, "using in-memory store")
		return nil
	}

	store, err := repository.NewSQLiteStore(ctx, s.storePath)
	if err != nil {
		// A broken store degrades to session-only tracking rather than
		// taking the engine down.
		s.logger.Warn(ctx, "persistent store unavailable, falling back to memory",
			logger.String("path", s.storePath),
			logger.Error(err),
		)
		s.store = repository.NewMemoryStore()
		return nil
	}
	s.store = store
	s.logger.Info(ctx, "using sqlite store", logger.String("path", s.storePath))
	return nil
}

// Stop gracefully shuts down the service: the dispatcher performs its
// final best-effort flush, then the store is closed.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultStopTimeout)
	defer cancel()

	s.logger.Info(ctx, "stopping tracking service...")

	if s.dispatcher != nil {
		_ = s.dispatcher.Shutdown(ctx)
	}

	if closer, ok := s.store.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			s.logger.Warn(ctx, "store close failed", logger.Error(err))
		}
	}

	s.started = false
	s.logger.Info(ctx, "tracking service stopped")
}

// RecordInteraction records a discrete interaction from a UI binding.
func (s *Service) RecordInteraction(ctx context.Context, t model.InteractionType, ct model.ContentType, d recorder.Data) error {
	if err := s.ready(); err != nil {
		return err
	}
	if t == model.TypeScroll {
		s.rec.RecordScroll(ctx, d)
		return nil
	}
	s.rec.Record(ctx, t, ct, d)
	return nil
}

// RecordSearch records a search submission.
func (s *Service) RecordSearch(ctx context.Context, query, searchType string, d recorder.Data) error {
	if err := s.ready(); err != nil {
		return err
	}
	s.rec.RecordSearch(ctx, query, searchType, d)
	return nil
}

// ObserveSection registers a page section for visibility tracking. With no
// ratios the service defaults apply.
func (s *Service) ObserveSection(section string, ratios ...float64) error {
	if err := s.ready(); err != nil {
		return err
	}
	if len(ratios) == 0 {
		ratios = s.visibilityThresholds
	}
	s.observer.Observe(section, ratios...)
	return nil
}

// ReportVisibility feeds the current visible fraction for a section.
func (s *Service) ReportVisibility(ctx context.Context, section string, visibleRatio float64) error {
	if err := s.ready(); err != nil {
		return err
	}
	s.observer.Report(ctx, section, visibleRatio)
	return nil
}

// TouchActivity records an input signal, resetting the inactivity window.
func (s *Service) TouchActivity(signal activity.Signal) error {
	if err := s.ready(); err != nil {
		return err
	}
	s.monitor.Touch(signal)
	return nil
}

// Personalize re-ranks and highlights an HTML fragment against the current
// profile and returns the transformed markup.
func (s *Service) Personalize(ctx context.Context, fragment string) (string, error) {
	if err := s.ready(); err != nil {
		return "", err
	}

	bindOpts := []rendering.Option{}
	if s.highlightClass != "" {
		bindOpts = append(bindOpts, rendering.WithHighlightClass(s.highlightClass))
	}
	binding, err := rendering.NewHTMLBinding(fragment, bindOpts...)
	if err != nil {
		return "", err
	}

	if err := s.applier.Apply(ctx, s.prefs.Profile(), binding); err != nil {
		return "", err
	}
	return binding.HTML()
}

// Profile returns the current profile read model.
func (s *Service) Profile(ctx context.Context) (types.ProfileView, error) {
	if err := s.ready(); err != nil {
		return types.ProfileView{}, err
	}

	p := s.prefs.Profile()
	return types.ProfileView{
		Fingerprint:    s.ident.Fingerprint(ctx),
		SessionID:      s.ident.SessionID(),
		Categories:     p.Categories,
		Keywords:       p.Keywords,
		VisitFrequency: s.hist.VisitFrequency(),
	}, nil
}

// GetInsights returns the local debug read model.
func (s *Service) GetInsights(ctx context.Context) (types.Insights, error) {
	if err := s.ready(); err != nil {
		return types.Insights{}, err
	}

	return types.Insights{
		Fingerprint:    s.ident.Fingerprint(ctx),
		SessionID:      s.ident.SessionID(),
		TopKeywords:    personalize.TopKeywords(s.prefs.Profile(), s.effectiveTopKeywordCount()),
		RecentSearches: s.hist.Searches(),
		VisitFrequency: s.hist.VisitFrequency(),
		Active:         s.monitor.Active(),
		QueueLength:    s.queue.Len(ctx),
	}, nil
}

func (s *Service) effectiveTopKeywordCount() int {
	if s.topKeywordCount > 0 {
		return s.topKeywordCount
	}
	return 5
}

// ClearProfile resets the accumulated preference state.
func (s *Service) ClearProfile(ctx context.Context) error {
	if err := s.ready(); err != nil {
		return err
	}
	s.prefs.Clear(ctx)
	s.logger.Info(ctx, "profile cleared")
	return nil
}

// Flush forces an immediate queue flush, returning the delivered and
// dropped counts.
func (s *Service) Flush(ctx context.Context) (delivered, dropped int, err error) {
	if err := s.ready(); err != nil {
		return 0, 0, err
	}
	delivered, dropped = s.dispatcher.Flush(ctx)
	return delivered, dropped, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started": s.started,
	}

	if s.started {
		p := s.prefs.Profile()
		stats["fingerprint"] = s.ident.Fingerprint(ctx)
		stats["sessionID"] = s.ident.SessionID()
		stats["queueLength"] = s.queue.Len(ctx)
		stats["categoryCount"] = len(p.Categories)
		stats["keywordCount"] = len(p.Keywords)
		stats["visitFrequency"] = s.hist.VisitFrequency()
		stats["observedSections"] = s.observer.Observed()
		stats["active"] = s.monitor.Active()
	}

	return stats
}

// ready reports whether Start has completed.
func (s *Service) ready() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}
