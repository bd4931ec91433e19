// Package metrics provides Prometheus metrics for the beacon tracking engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the beacon service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Core Business Metrics - What really matters for a tracking engine
	interactionsRecorded *prometheus.CounterVec
	searchesRecorded     prometheus.Counter
	viewsEmitted         prometheus.Counter
	profileUpdates       prometheus.Counter

	// Dispatch Metrics - Upstream ingestion performance
	flushesTotal     prometheus.Counter
	eventsDispatched prometheus.Counter
	dispatchErrors   prometheus.Counter
	dispatchLatency  prometheus.Histogram
	eventsDropped    prometheus.Counter

	// Operational Health Metrics
	queueSize         prometheus.Gauge
	profileCategories prometheus.Gauge
	profileKeywords   prometheus.Gauge

	// Store Metrics - Persistent key-value store health
	storeWrites      prometheus.Counter
	storeWriteErrors prometheus.Counter
	storeReadErrors  prometheus.Counter

	// Personalization Metrics
	personalizeApplies prometheus.Counter
	blocksReordered    prometheus.Counter
	highlightsApplied  prometheus.Counter

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Enhanced Error Metrics - Detailed error tracking
	errorRateByComponent *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "beacon",
		subsystem:        "tracker",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	// Initialize metrics
	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	// Core Business Metrics - Focus on what drives personalization value
	m.interactionsRecorded = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "interactions_recorded_total",
			Help:      "Total number of interactions recorded by type",
		},
		[]string{"type"},
	)

	m.searchesRecorded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "searches_recorded_total",
		Help:      "Total number of searches recorded (high-intent signal)",
	})

	m.viewsEmitted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "section_views_emitted_total",
		Help:      "Total number of section view events emitted on threshold crossings",
	})

	m.profileUpdates = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "profile_updates_total",
		Help:      "Total number of preference profile mutations",
	})

	// Dispatch Metrics - Upstream ingestion performance
	m.flushesTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "flushes_total",
		Help:      "Total number of queue flush cycles",
	})

	m.eventsDispatched = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_dispatched_total",
		Help:      "Total number of events delivered to the ingestion endpoint",
	})

	m.dispatchErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dispatch_errors_total",
		Help:      "Total number of transport failures during dispatch",
	})

	m.eventsDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_dropped_total",
		Help:      "Total number of events dropped after failed dispatch (at-most-once)",
	})

	m.dispatchLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dispatch_latency_milliseconds",
		Help:      "Histogram of per-event dispatch latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	// Operational Health Metrics - System stability indicators
	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_size",
		Help:      "Current size of the pending interaction queue (backlog indicator)",
	})

	m.profileCategories = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "profile_category_count",
		Help:      "Number of distinct categories in the preference profile",
	})

	m.profileKeywords = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "profile_keyword_count",
		Help:      "Number of distinct keywords in the preference profile",
	})

	// Store Metrics - Persistent key-value store health
	m.storeWrites = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_writes_total",
		Help:      "Total number of key-value store writes",
	})

	m.storeWriteErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_write_errors_total",
		Help:      "Total number of failed key-value store writes (degraded mode)",
	})

	m.storeReadErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_read_errors_total",
		Help:      "Total number of failed key-value store reads",
	})

	// Personalization Metrics
	m.personalizeApplies = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "personalize_applies_total",
		Help:      "Total number of personalization applications",
	})

	m.blocksReordered = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "blocks_reordered_total",
		Help:      "Total number of content blocks repositioned by re-ranking",
	})

	m.highlightsApplied = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "highlights_applied_total",
		Help:      "Total number of highlight markers attached to links",
	})

	// HTTP Performance Metrics - User experience indicators
	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds (user experience)",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	// Enhanced Error Metrics - Detailed error tracking
	m.errorRateByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_component_total",
			Help:      "Total number of errors by component and reason",
		},
		[]string{"component", "reason"},
	)

	m.errorRateByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_endpoint_total",
			Help:      "Total number of errors by endpoint and method",
		},
		[]string{"endpoint", "method", "error_type"},
	)

	// System Performance Metrics
	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_bytes",
		Help:      "Current memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutines",
		Help:      "Current number of goroutines",
	})
}

// GetRegistry returns the custom Prometheus registry used by the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// RecordInteraction increments the interaction counter for the given type.
func RecordInteraction(interactionType string) {
	globalManager.interactionsRecorded.WithLabelValues(interactionType).Inc()
}

// RecordSearch increments the search counter.
func RecordSearch() {
	globalManager.searchesRecorded.Inc()
}

// RecordViewEmitted increments the section view counter.
func RecordViewEmitted() {
	globalManager.viewsEmitted.Inc()
}

// RecordProfileUpdate increments the profile mutation counter.
func RecordProfileUpdate() {
	globalManager.profileUpdates.Inc()
}

// RecordFlush increments the flush cycle counter.
func RecordFlush() {
	globalManager.flushesTotal.Inc()
}

// RecordEventDispatched increments the delivered event counter.
func RecordEventDispatched() {
	globalManager.eventsDispatched.Inc()
}

// RecordDispatchError increments the transport failure counter.
func RecordDispatchError() {
	globalManager.dispatchErrors.Inc()
}

// RecordEventDropped increments the dropped event counter.
func RecordEventDropped() {
	globalManager.eventsDropped.Inc()
}

// RecordDispatchLatency observes a per-event dispatch latency in milliseconds.
func RecordDispatchLatency(ms float64) {
	globalManager.dispatchLatency.Observe(ms)
}

// UpdateQueueSize sets the current queue size gauge.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateProfileSize sets the profile cardinality gauges.
func UpdateProfileSize(categories, keywords int) {
	globalManager.profileCategories.Set(float64(categories))
	globalManager.profileKeywords.Set(float64(keywords))
}

// RecordStoreWrite increments the store write counter.
func RecordStoreWrite() {
	globalManager.storeWrites.Inc()
}

// RecordStoreWriteError increments the store write failure counter.
func RecordStoreWriteError() {
	globalManager.storeWriteErrors.Inc()
}

// RecordStoreReadError increments the store read failure counter.
func RecordStoreReadError() {
	globalManager.storeReadErrors.Inc()
}

// RecordPersonalizeApply increments the personalization application counter.
func RecordPersonalizeApply() {
	globalManager.personalizeApplies.Inc()
}

// RecordBlocksReordered adds to the reordered block counter.
func RecordBlocksReordered(n int) {
	globalManager.blocksReordered.Add(float64(n))
}

// RecordHighlightsApplied adds to the highlight counter.
func RecordHighlightsApplied(n int) {
	globalManager.highlightsApplied.Add(float64(n))
}

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration observes an HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, ms float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(ms)
}

// RecordErrorByComponent increments the component error counter.
func RecordErrorByComponent(component, reason string) {
	globalManager.errorRateByComponent.WithLabelValues(component, reason).Inc()
}

// RecordErrorByEndpoint increments the endpoint error counter.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the memory gauge.
func UpdateSystemMemoryUsage(bytes float64) {
	globalManager.systemMemoryUsage.Set(bytes)
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}
