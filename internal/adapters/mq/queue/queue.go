// Package queue defines the contract for buffering interactions between
// recording and flush.
//
// Unlike a worker-fed channel queue, the interaction queue is drained
// wholesale: the dispatcher takes every pending event in insertion order
// and the queue resets atomically. There is no upper bound; the flush
// cadence keeps it small in practice.
package queue

import (
	"context"
	"sync"

	"github.com/glowup/beacon/internal/domain/model"
	"github.com/glowup/beacon/pkg/metrics"
)

// Default queue configuration constants.
const (
	defaultInitialCapacity = 64
)

// Interaction is the payload type flowing through the queue.
type Interaction = model.Interaction

// Queue provides append and atomic drain semantics.
type Queue interface {
	// Append adds an interaction to the back of the queue.
	Append(ctx context.Context, in Interaction)

	// Drain removes and returns all queued interactions in insertion order.
	Drain(ctx context.Context) []Interaction

	// Len returns the current number of queued interactions.
	Len(ctx context.Context) int
}

// InMemoryQueue implements Queue with a mutex-guarded slice.
type InMemoryQueue struct {
	mu              sync.Mutex
	items           []Interaction
	initialCapacity int
}

// Option applies a configuration option to the InMemoryQueue.
type Option func(*InMemoryQueue)

// WithInitialCapacity sets the backing slice capacity allocated on
// construction and after each drain.
func WithInitialCapacity(n int) Option {
	return func(q *InMemoryQueue) {
		if n > 0 {
			q.initialCapacity = n
		}
	}
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		initialCapacity: defaultInitialCapacity,
	}

	for _, opt := range opts {
		opt(q)
	}

	q.items = make([]Interaction, 0, q.initialCapacity)

	metrics.UpdateQueueSize(0)
	return q
}

// Append adds an interaction to the back of the queue.
func (q *InMemoryQueue) Append(_ context.Context, in Interaction) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.items = append(q.items, in)
	metrics.UpdateQueueSize(len(q.items))
}

// Drain removes and returns all queued interactions in insertion order.
// The returned slice is not aliased by later appends.
func (q *InMemoryQueue) Drain(_ context.Context) []Interaction {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := q.items
	q.items = make([]Interaction, 0, q.initialCapacity)
	metrics.UpdateQueueSize(0)
	return out
}

// Len returns the current number of queued interactions.
func (q *InMemoryQueue) Len(_ context.Context) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
