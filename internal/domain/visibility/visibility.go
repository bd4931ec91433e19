// Package visibility emits view interactions when watched page sections
// cross registered visibility thresholds.
package visibility

import (
	"context"
	"strconv"
	"sync"

	"github.com/glowup/beacon/internal/domain/dedupe"
	"github.com/glowup/beacon/pkg/logger"
	"github.com/glowup/beacon/pkg/metrics"
)

// DefaultThresholds are the visible-fraction crossings that trigger a view.
var DefaultThresholds = []float64{0.5, 1.0}

// EmitFunc receives the section name and the threshold that was crossed.
type EmitFunc func(ctx context.Context, section string, threshold float64)

// Observer watches designated sections and emits at most one view per
// threshold per section per process lifetime. Constructed with a nil
// emitter it becomes a no-op, mirroring an execution environment without a
// visibility primitive; it must never block the rest of the pipeline.
type Observer struct {
	mu         sync.Mutex
	thresholds map[string][]float64
	seen       dedupe.Deduper
	emit       EmitFunc
	logger     logger.Logger
}

// Option applies a configuration option to the Observer.
type Option func(*Observer)

// WithLogger sets a custom logger for the observer.
func WithLogger(l logger.Logger) Option {
	return func(o *Observer) {
		if l != nil {
			o.logger = l
		}
	}
}

// New creates an Observer delivering view events through emit.
func New(emit EmitFunc, opts ...Option) *Observer {
	o := &Observer{
		thresholds: make(map[string][]float64),
		seen:       dedupe.NewInMemoryDeduper(),
		emit:       emit,
	}

	for _, opt := range opts {
		opt(o)
	}

	if o.logger == nil {
		o.logger = logger.Get().Named("visibility")
	}

	return o
}

// Observe registers a section for visibility tracking. With no ratios the
// default thresholds apply.
func (o *Observer) Observe(section string, ratios ...float64) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if len(ratios) == 0 {
		ratios = DefaultThresholds
	}
	o.thresholds[section] = append([]float64(nil), ratios...)
}

// Report feeds the current visible fraction for a section. Every
// registered threshold at or below the fraction fires once.
func (o *Observer) Report(ctx context.Context, section string, visibleRatio float64) {
	if o.emit == nil {
		return // visibility primitive unavailable
	}

	o.mu.Lock()
	ratios, ok := o.thresholds[section]
	o.mu.Unlock()
	if !ok {
		return
	}

	for _, threshold := range ratios {
		if visibleRatio < threshold {
			continue
		}
		key := section + "@" + strconv.FormatFloat(threshold, 'f', -1, 64)
		if o.seen.SeenAndRecord(ctx, key) {
			continue
		}
		metrics.RecordViewEmitted()
		o.logger.Debug(ctx, "section view threshold crossed",
			logger.String("section", section),
			logger.Any("threshold", threshold),
		)
		o.emit(ctx, section, threshold)
	}
}

// Observed returns the number of sections registered for tracking.
func (o *Observer) Observed() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.thresholds)
}
