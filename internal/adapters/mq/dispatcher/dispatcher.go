// Package dispatcher drains the interaction queue on a cadence and
// forwards each event upstream on a best-effort basis.
//
// Delivery is at-most-once: a transport failure is logged and the event is
// dropped, never retried, never allowed to block the events behind it. A
// failed personalization ping must never degrade the browsing experience
// or accumulate retry state.
package dispatcher

import (
	"context"
	"time"

	"github.com/glowup/beacon/internal/adapters/ingest"
	"github.com/glowup/beacon/internal/domain/model"
	"github.com/glowup/beacon/pkg/logger"
	"github.com/glowup/beacon/pkg/metrics"
)

// Default dispatcher configuration constants.
const (
	defaultFlushInterval = 30 * time.Second
	shutdownFlushTimeout = 5 * time.Second
)

// Queue defines how the dispatcher takes pending interactions.
type Queue interface {
	Drain(ctx context.Context) []model.Interaction
	Len(ctx context.Context) int
}

// Dispatcher owns the flush cadence and the final best-effort flush on
// shutdown (the page-exit analog).
type Dispatcher struct {
	queue       Queue
	transport   ingest.Transport
	fingerprint func() string
	interval    time.Duration

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// Option applies a configuration option to the Dispatcher.
type Option func(*Dispatcher)

// WithInterval sets the periodic flush interval.
func WithInterval(interval time.Duration) Option {
	return func(d *Dispatcher) {
		if interval > 0 {
			d.interval = interval
		}
	}
}

// WithLogger sets a custom logger for the dispatcher.
func WithLogger(l logger.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// New creates a Dispatcher. The fingerprint func supplies the identity
// stamped on every outbound payload.
func New(queue Queue, transport ingest.Transport, fingerprint func() string, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		queue:       queue,
		transport:   transport,
		fingerprint: fingerprint,
		interval:    defaultFlushInterval,
		shutdown:    make(chan struct{}),
		done:        make(chan struct{}),
	}

	for _, opt := range opts {
		opt(d)
	}

	if d.logger == nil {
		d.logger = logger.Get().Named("dispatcher")
	}

	return d
}

// Run flushes on the configured cadence until ctx is canceled or Shutdown
// is called.
func (d *Dispatcher) Run(ctx context.Context) {
	defer close(d.done)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-d.shutdown:
			return
		case <-ticker.C:
			d.Flush(ctx)
		}
	}
}

// Shutdown stops the cadence loop and performs one final best-effort
// flush. The flush may not complete if the context expires first; that
// data-loss window is accepted.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	select {
	case <-d.shutdown:
		// already shut down
	default:
		close(d.shutdown)
	}

	select {
	case <-d.done:
	case <-ctx.Done():
		d.logger.Warn(ctx, "dispatcher loop did not stop in time")
	}

	flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownFlushTimeout)
	defer cancel()
	d.Flush(flushCtx)
	return nil
}

// Flush drains the queue and dispatches every pending event individually,
// in insertion order. The queue is cleared regardless of per-event
// outcomes. Returns the delivered and dropped counts.
func (d *Dispatcher) Flush(ctx context.Context) (delivered, dropped int) {
	pending := d.queue.Drain(ctx)
	metrics.RecordFlush()
	if len(pending) == 0 {
		return 0, 0
	}

	fp := d.fingerprint()
	for _, in := range pending {
		start := time.Now()
		err := d.transport.Send(ctx, ingest.Payload{
			Fingerprint:     fp,
			InteractionType: string(in.Type),
			ContentType:     string(in.ContentType),
			ContentID:       in.ContentID,
			ContentName:     in.ContentName,
			PageURL:         in.PageURL,
			SessionID:       in.SessionID,
		})
		metrics.RecordDispatchLatency(float64(time.Since(start).Milliseconds()))

		if err != nil {
			dropped++
			metrics.RecordDispatchError()
			metrics.RecordEventDropped()
			metrics.RecordErrorByComponent("dispatcher", "transport")
			d.logger.Warn(ctx, "event dropped after failed dispatch",
				logger.String("id", in.ID),
				logger.String("type", string(in.Type)),
				logger.Error(err),
			)
			continue
		}
		delivered++
		metrics.RecordEventDispatched()
	}

	d.logger.Debug(ctx, "flush complete",
		logger.Int("delivered", delivered),
		logger.Int("dropped", dropped),
	)
	return delivered, dropped
}
