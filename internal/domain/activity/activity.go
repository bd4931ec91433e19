// Package activity tracks the visitor's idle/active state from input
// signals. State is in-memory only and rebuilt each process lifetime.
package activity

import (
	"sync"
	"time"
)

// Default monitor configuration constants.
const (
	defaultInactivityWindow = 30 * time.Second
)

// Signal identifies the kind of input that proves the visitor is present.
type Signal string

// Input signals that reset the inactivity window.
const (
	SignalPointerDown Signal = "pointer_down"
	SignalPointerMove Signal = "pointer_move"
	SignalKeyPress    Signal = "key_press"
	SignalScroll      Signal = "scroll"
	SignalTouchStart  Signal = "touch_start"
)

// Clock abstracts time for deterministic tests.
type Clock func() time.Time

// Monitor exposes the active state and time since last activity.
// It starts active; any signal resets the inactivity window.
type Monitor struct {
	mu     sync.Mutex
	last   time.Time
	window time.Duration
	clock  Clock
}

// Option applies a configuration option to the Monitor.
type Option func(*Monitor)

// WithWindow sets the inactivity window.
func WithWindow(window time.Duration) Option {
	return func(m *Monitor) {
		if window > 0 {
			m.window = window
		}
	}
}

// WithClock sets the time source.
func WithClock(clock Clock) Option {
	return func(m *Monitor) {
		if clock != nil {
			m.clock = clock
		}
	}
}

// New creates a Monitor that starts in the active state.
func New(opts ...Option) *Monitor {
	m := &Monitor{
		window: defaultInactivityWindow,
		clock:  time.Now,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.last = m.clock()
	return m
}

// Touch records an input signal, resetting the inactivity window.
func (m *Monitor) Touch(_ Signal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = m.clock()
}

// Active reports whether the visitor produced a signal within the window.
func (m *Monitor) Active() bool {
	return m.IdleFor() < m.window
}

// IdleFor returns the time elapsed since the last signal.
func (m *Monitor) IdleFor() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clock().Sub(m.last)
}
