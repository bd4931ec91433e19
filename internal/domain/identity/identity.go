// Package identity derives the stable browser-profile fingerprint and the
// per-load session id.
//
// The fingerprint is a non-cryptographic identifier standing in for a login:
// deterministic for a given set of environment signals, not guaranteed
// unique across profiles. Once computed it is persisted, and the persisted
// value wins on later loads so the identity stays stable even when
// individual signals drift (e.g. a surface resize).
package identity

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/glowup/beacon/internal/adapters/repository"
	"github.com/glowup/beacon/pkg/logger"
)

const signalSeparator = "|"

// Signals are the stable environment inputs to fingerprint derivation.
// Absent or unreadable signals stay zero-valued and degrade uniqueness
// rather than failing.
type Signals struct {
	SurfaceWidth      int
	SurfaceHeight     int
	Locale            string
	TimezoneOffsetMin int
	Platform          string
	CanvasSignature   string
	CookiesEnabled    bool
}

// join concatenates the signals with a fixed separator. Zero-valued numeric
// signals render as empty fields to match the absent-signal contract.
func (s Signals) join() string {
	fields := []string{
		intField(s.SurfaceWidth),
		intField(s.SurfaceHeight),
		s.Locale,
		intField(s.TimezoneOffsetMin),
		s.Platform,
		s.CanvasSignature,
		boolField(s.CookiesEnabled),
	}
	return strings.Join(fields, signalSeparator)
}

func intField(v int) string {
	if v == 0 {
		return ""
	}
	return strconv.Itoa(v)
}

func boolField(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

// Provider computes and caches the fingerprint and session id for one
// process lifetime.
type Provider struct {
	mu      sync.Mutex
	store   repository.KV
	signals Signals
	logger  logger.Logger

	fingerprint string
	sessionID   string
}

// Option applies a configuration option to the Provider.
type Option func(*Provider)

// WithLogger sets a custom logger for the provider.
func WithLogger(l logger.Logger) Option {
	return func(p *Provider) {
		if l != nil {
			p.logger = l
		}
	}
}

// New creates a Provider reading and writing identity state through store.
func New(store repository.KV, signals Signals, opts ...Option) *Provider {
	p := &Provider{
		store:   store,
		signals: signals,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = logger.Get().Named("identity")
	}

	return p
}

// Fingerprint returns the stable fingerprint for this profile. The first
// call reads the store, falling back to derivation from the environment
// signals; later calls return the cached value. Never fails: a store that
// cannot be read or written degrades to a session-scoped fingerprint.
func (p *Provider) Fingerprint(ctx context.Context) string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.fingerprint != "" {
		return p.fingerprint
	}

	stored, err := p.store.Get(ctx, repository.KeyFingerprint)
	if err == nil && stored != "" {
		p.fingerprint = stored
		return p.fingerprint
	}
	if err != nil && !errors.Is(err, repository.ErrKeyNotFound) {
		p.logger.Warn(ctx, "fingerprint read failed, deriving fresh", logger.Error(err))
	}

	p.fingerprint = Derive(p.signals)
	if err := p.store.Set(ctx, repository.KeyFingerprint, p.fingerprint); err != nil {
		p.logger.Warn(ctx, "fingerprint persist failed", logger.Error(err))
	}
	return p.fingerprint
}

// SessionID returns the random session id for this process lifetime.
// Generated on first call, cached afterwards, never persisted.
func (p *Provider) SessionID() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.sessionID == "" {
		p.sessionID = uuid.NewString()
	}
	return p.sessionID
}

// Derive computes the fingerprint hash for a set of signals: a 32-bit
// rolling hash over the joined signal string, base-36 encoded.
func Derive(signals Signals) string {
	var h uint32
	for _, b := range []byte(signals.join()) {
		h = h*31 + uint32(b) // wraps on overflow
	}
	return strconv.FormatUint(uint64(h), 36)
}
