// Package preferences accumulates category and keyword interest scores
// from recorded interactions.
//
// Scores only grow until an explicit clear: there is no decay or expiry.
// Search interactions are weighted twice as strong as passive browsing,
// reflecting higher intent.
package preferences

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"github.com/glowup/beacon/internal/adapters/repository"
	"github.com/glowup/beacon/internal/domain/model"
	"github.com/glowup/beacon/pkg/logger"
	"github.com/glowup/beacon/pkg/metrics"
)

// Default scoring configuration constants.
const (
	defaultSearchWeight     = 2
	defaultBrowseWeight     = 1
	defaultMinKeywordLength = 4 // tokens shorter than this carry no signal
)

// Store holds the preference profile and writes it through to the
// key-value store on every mutation. Each update is its own atomic
// read-modify-write against the previous serialized value; concurrent
// processes race with last-write-wins semantics.
type Store struct {
	mu sync.Mutex

	kv      repository.KV
	profile model.Profile

	searchWeight     int
	browseWeight     int
	minKeywordLength int

	logger logger.Logger
}

// Option applies a configuration option to the Store.
type Option func(*Store)

// WithSearchWeight sets the keyword increment for search interactions.
func WithSearchWeight(w int) Option {
	return func(s *Store) {
		if w > 0 {
			s.searchWeight = w
		}
	}
}

// WithBrowseWeight sets the keyword increment for non-search interactions.
func WithBrowseWeight(w int) Option {
	return func(s *Store) {
		if w > 0 {
			s.browseWeight = w
		}
	}
}

// WithMinKeywordLength sets the minimum token length scored as a keyword.
func WithMinKeywordLength(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.minKeywordLength = n
		}
	}
}

// WithLogger sets a custom logger for the store.
func WithLogger(l logger.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a Store persisting through kv.
func New(kv repository.KV, opts ...Option) *Store {
	s := &Store{
		kv:               kv,
		profile:          model.NewProfile(),
		searchWeight:     defaultSearchWeight,
		browseWeight:     defaultBrowseWeight,
		minKeywordLength: defaultMinKeywordLength,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("preferences")
	}

	return s
}

// Load reads the persisted profile. A missing key leaves the profile
// empty; a corrupt value is discarded with a warning.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.kv.Get(ctx, repository.KeyProfile)
	if err != nil {
		if !errors.Is(err, repository.ErrKeyNotFound) {
			s.logger.Warn(ctx, "profile read failed, starting empty", logger.Error(err))
		}
		return
	}

	var p model.Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		s.logger.Warn(ctx, "discarding corrupt profile", logger.Error(err))
		return
	}
	if p.Categories == nil {
		p.Categories = make(map[int]int)
	}
	if p.Keywords == nil {
		p.Keywords = make(map[string]int)
	}
	s.profile = p
}

// Update folds one interaction into the profile and persists the result.
// Never fails: a failed write keeps the in-memory state for this process
// lifetime, degrading to session-only personalization.
func (s *Store) Update(ctx context.Context, in model.Interaction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if in.CategoryID > 0 {
		s.profile.Categories[in.CategoryID]++
	}

	weight := s.browseWeight
	if in.IsSearch() {
		weight = s.searchWeight
	}
	for _, token := range s.tokenize(in.ContentName) {
		s.profile.Keywords[token] += weight
	}
	for _, token := range s.tokenize(in.Query) {
		s.profile.Keywords[token] += weight
	}

	metrics.RecordProfileUpdate()
	metrics.UpdateProfileSize(len(s.profile.Categories), len(s.profile.Keywords))
	s.persist(ctx)
}

// Profile returns a deep copy of the current profile.
func (s *Store) Profile() model.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile.Clone()
}

// Clear resets the accumulators and removes the persisted profile.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profile = model.NewProfile()
	metrics.UpdateProfileSize(0, 0)
	if err := s.kv.Remove(ctx, repository.KeyProfile); err != nil {
		s.logger.Warn(ctx, "profile clear failed", logger.Error(err))
	}
}

// tokenize lowercases s, splits on whitespace, and keeps tokens long
// enough to carry signal.
func (s *Store) tokenize(text string) []string {
	if text == "" {
		return nil
	}
	fields := strings.Fields(strings.ToLower(text))
	tokens := fields[:0]
	for _, f := range fields {
		if len(f) >= s.minKeywordLength {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// persist serializes the full profile and writes it back. Must be called
// with s.mu held.
func (s *Store) persist(ctx context.Context) {
	raw, err := json.Marshal(s.profile)
	if err != nil {
		s.logger.Warn(ctx, "profile marshal failed", logger.Error(err))
		return
	}
	if err := s.kv.Set(ctx, repository.KeyProfile, string(raw)); err != nil {
		metrics.RecordErrorByComponent("preferences", "persist")
		s.logger.Warn(ctx, "profile persist failed, keeping in-memory state", logger.Error(err))
	}
}
