package config

import (
	"testing"
	"time"
)

func TestNew_Defaults(t *testing.T) {
	cfg := New()

	if cfg.Addr != "127.0.0.1:9180" {
		t.Errorf("unexpected default addr: %q", cfg.Addr)
	}
	if cfg.IngestEndpoint == "" {
		t.Error("expected a default ingest endpoint")
	}
	if cfg.SearchWeight != 2 || cfg.BrowseWeight != 1 {
		t.Errorf("unexpected default weights: %d/%d", cfg.SearchWeight, cfg.BrowseWeight)
	}
	if cfg.MinKeywordLength != 4 {
		t.Errorf("unexpected default min keyword length: %d", cfg.MinKeywordLength)
	}
	if cfg.VisitHistoryCap != 30 || cfg.SearchHistoryCap != 50 {
		t.Errorf("unexpected default history caps: %d/%d", cfg.VisitHistoryCap, cfg.SearchHistoryCap)
	}
	if len(cfg.VisibilityThresholds) != 2 {
		t.Errorf("unexpected default thresholds: %v", cfg.VisibilityThresholds)
	}
	if err := cfg.validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestConfig_DurationHelpers(t *testing.T) {
	cfg := New()

	if cfg.FlushInterval() != 30*time.Second {
		t.Errorf("unexpected flush interval: %v", cfg.FlushInterval())
	}
	if cfg.DispatchTimeout() != 5*time.Second {
		t.Errorf("unexpected dispatch timeout: %v", cfg.DispatchTimeout())
	}
	if cfg.InactivityWindow() != 30*time.Second {
		t.Errorf("unexpected inactivity window: %v", cfg.InactivityWindow())
	}
}
