package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if BEACON_CONFIG is set
//  3. env (prefix BEACON_)
func Load(_ context.Context) (*Config, error) {
	// Start with defaults
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("BEACON_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: BEACON_ADDR, BEACON_INGEST_ENDPOINT, ...
	// Map env keys like BEACON_FLUSH_INTERVAL_MS -> flush_interval_ms.
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("BEACON_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "beacon_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate rejects configurations the pipeline cannot run with.
func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.IngestEndpoint == "":
		return fmt.Errorf("%w: ingest_endpoint must not be empty", ErrInvalidConfig)
	case c.FlushIntervalMS <= 0:
		return fmt.Errorf("%w: flush_interval_ms must be positive", ErrInvalidConfig)
	case c.SearchWeight <= 0 || c.BrowseWeight <= 0:
		return fmt.Errorf("%w: scoring weights must be positive", ErrInvalidConfig)
	}
	for _, t := range c.VisibilityThresholds {
		if t <= 0 || t > 1 {
			return fmt.Errorf("%w: visibility thresholds must be in (0, 1]", ErrInvalidConfig)
		}
	}
	return nil
}
