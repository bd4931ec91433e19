// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

import "time"

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the local HTTP listen address, e.g. "127.0.0.1:9180".
	Addr string `koanf:"addr"`

	// IngestEndpoint is the upstream ingestion URL events are dispatched to.
	IngestEndpoint string `koanf:"ingest_endpoint"`

	// StorePath locates the sqlite profile store. Empty keeps state in memory.
	StorePath string `koanf:"store_path"`

	// FlushIntervalMS sets the dispatcher flush cadence.
	FlushIntervalMS int `koanf:"flush_interval_ms"`

	// DispatchTimeoutMS bounds each outbound event dispatch.
	DispatchTimeoutMS int `koanf:"dispatch_timeout_ms"`

	// InactivityWindowMS sets the idle threshold for the activity monitor.
	InactivityWindowMS int `koanf:"inactivity_window_ms"`

	// SearchWeight and BrowseWeight set the keyword scoring increments.
	SearchWeight int `koanf:"search_weight"`
	BrowseWeight int `koanf:"browse_weight"`

	// MinKeywordLength sets the minimum token length scored as a keyword.
	MinKeywordLength int `koanf:"min_keyword_length"`

	// TopKeywordCount sets how many keywords drive link highlighting.
	TopKeywordCount int `koanf:"top_keyword_count"`

	// HighlightClass is the CSS class attached to highlighted links.
	HighlightClass string `koanf:"highlight_class"`

	// VisitHistoryCap and SearchHistoryCap bound the local history logs.
	VisitHistoryCap  int `koanf:"visit_history_cap"`
	SearchHistoryCap int `koanf:"search_history_cap"`

	// VisibilityThresholds are the default section view crossings.
	VisibilityThresholds []float64 `koanf:"visibility_thresholds"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		Addr:                 "127.0.0.1:9180",
		IngestEndpoint:       "http://localhost:8080/api/v1/state",
		StorePath:            "",
		FlushIntervalMS:      30_000,
		DispatchTimeoutMS:    5_000,
		InactivityWindowMS:   30_000,
		SearchWeight:         2,
		BrowseWeight:         1,
		MinKeywordLength:     4,
		TopKeywordCount:      5,
		HighlightClass:       "beacon-highlight",
		VisitHistoryCap:      30,
		SearchHistoryCap:     50,
		VisibilityThresholds: []float64{0.5, 1.0},
	}
}

// FlushInterval returns the dispatcher cadence as a duration.
func (c *Config) FlushInterval() time.Duration {
	return time.Duration(c.FlushIntervalMS) * time.Millisecond
}

// DispatchTimeout returns the per-dispatch bound as a duration.
func (c *Config) DispatchTimeout() time.Duration {
	return time.Duration(c.DispatchTimeoutMS) * time.Millisecond
}

// InactivityWindow returns the idle threshold as a duration.
func (c *Config) InactivityWindow() time.Duration {
	return time.Duration(c.InactivityWindowMS) * time.Millisecond
}
