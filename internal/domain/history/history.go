// Package history keeps capped visit and search logs for local insight
// surfaces. Neither log feeds scoring; they exist for debug and
// visit-frequency reads.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/glowup/beacon/internal/adapters/repository"
	"github.com/glowup/beacon/internal/domain/model"
	"github.com/glowup/beacon/pkg/logger"
)

// Default cap constants.
const (
	defaultVisitCap  = 30
	defaultSearchCap = 50
)

// Clock abstracts time for deterministic tests.
type Clock func() time.Time

// Log holds the capped visit and search histories, persisted through the
// key-value store on every mutation.
type Log struct {
	mu        sync.Mutex
	kv        repository.KV
	visits    []time.Time
	searches  []model.SearchEntry
	visitCap  int
	searchCap int
	clock     Clock
	logger    logger.Logger
}

// Option applies a configuration option to the Log.
type Option func(*Log)

// WithVisitCap sets the maximum number of retained visit timestamps.
func WithVisitCap(n int) Option {
	return func(l *Log) {
		if n > 0 {
			l.visitCap = n
		}
	}
}

// WithSearchCap sets the maximum number of retained searches.
func WithSearchCap(n int) Option {
	return func(l *Log) {
		if n > 0 {
			l.searchCap = n
		}
	}
}

// WithClock sets the time source.
func WithClock(clock Clock) Option {
	return func(l *Log) {
		if clock != nil {
			l.clock = clock
		}
	}
}

// WithLogger sets a custom logger for the log.
func WithLogger(lg logger.Logger) Option {
	return func(l *Log) {
		if lg != nil {
			l.logger = lg
		}
	}
}

// New creates a Log persisting through kv.
func New(kv repository.KV, opts ...Option) *Log {
	l := &Log{
		kv:        kv,
		visitCap:  defaultVisitCap,
		searchCap: defaultSearchCap,
		clock:     time.Now,
	}

	for _, opt := range opts {
		opt(l)
	}

	if l.logger == nil {
		l.logger = logger.Get().Named("history")
	}

	return l
}

// Load reads persisted histories from the store. Missing keys leave the
// logs empty; corrupt values are discarded with a warning.
func (l *Log) Load(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if raw, err := l.kv.Get(ctx, repository.KeyVisitHistory); err == nil {
		if err := json.Unmarshal([]byte(raw), &l.visits); err != nil {
			l.logger.Warn(ctx, "discarding corrupt visit history", logger.Error(err))
			l.visits = nil
		}
	} else if !errors.Is(err, repository.ErrKeyNotFound) {
		l.logger.Warn(ctx, "visit history read failed", logger.Error(err))
	}

	if raw, err := l.kv.Get(ctx, repository.KeySearchHistory); err == nil {
		if err := json.Unmarshal([]byte(raw), &l.searches); err != nil {
			l.logger.Warn(ctx, "discarding corrupt search history", logger.Error(err))
			l.searches = nil
		}
	} else if !errors.Is(err, repository.ErrKeyNotFound) {
		l.logger.Warn(ctx, "search history read failed", logger.Error(err))
	}
}

// RecordVisit appends a visit timestamp, evicting the oldest entries once
// the cap is exceeded.
func (l *Log) RecordVisit(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.visits = append(l.visits, l.clock())
	if len(l.visits) > l.visitCap {
		l.visits = l.visits[len(l.visits)-l.visitCap:]
	}
	l.persist(ctx, repository.KeyVisitHistory, l.visits)
}

// RecordSearch prepends a search entry, truncating to the cap. Most recent
// first.
func (l *Log) RecordSearch(ctx context.Context, query, searchType string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := model.SearchEntry{Query: query, Type: searchType, Timestamp: l.clock()}
	l.searches = append([]model.SearchEntry{entry}, l.searches...)
	if len(l.searches) > l.searchCap {
		l.searches = l.searches[:l.searchCap]
	}
	l.persist(ctx, repository.KeySearchHistory, l.searches)
}

// VisitFrequency returns the number of retained visits.
func (l *Log) VisitFrequency() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visits)
}

// Visits returns a copy of the retained visit timestamps, oldest first.
func (l *Log) Visits() []time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]time.Time, len(l.visits))
	copy(out, l.visits)
	return out
}

// Searches returns a copy of the retained searches, most recent first.
func (l *Log) Searches() []model.SearchEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]model.SearchEntry, len(l.searches))
	copy(out, l.searches)
	return out
}

// persist writes v under key. A failed write keeps the in-memory state for
// this process lifetime. Must be called with l.mu held.
func (l *Log) persist(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		l.logger.Warn(ctx, "history marshal failed", logger.String("key", key), logger.Error(err))
		return
	}
	if err := l.kv.Set(ctx, key, string(raw)); err != nil {
		l.logger.Warn(ctx, "history persist failed", logger.String("key", key), logger.Error(err))
	}
}
