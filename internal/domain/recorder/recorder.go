// Package recorder is the central interaction log: UI bindings feed typed
// events in, and every recorded event synchronously updates the preference
// accumulators before the dispatcher ever sees it.
package recorder

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/glowup/beacon/internal/domain/activity"
	"github.com/glowup/beacon/internal/domain/model"
	"github.com/glowup/beacon/pkg/logger"
	"github.com/glowup/beacon/pkg/metrics"
)

// Queue receives recorded interactions in strict call order.
type Queue interface {
	Append(ctx context.Context, in model.Interaction)
}

// Preferences folds interactions into the preference profile.
type Preferences interface {
	Update(ctx context.Context, in model.Interaction)
}

// Activity exposes the idle/active state consulted when gating continuous
// signals.
type Activity interface {
	Touch(signal activity.Signal)
	Active() bool
}

// History receives search entries for the local insight surface.
type History interface {
	RecordSearch(ctx context.Context, query, searchType string)
}

// Clock abstracts time for deterministic tests.
type Clock func() time.Time

// Data carries the optional identifying attributes read from the content
// element an interaction targeted. Missing identifiers stay zero-valued;
// partial signal is still useful for keyword scoring.
type Data struct {
	ContentID   int
	ContentName string
	CategoryID  int
	PageURL     string
	Referrer    string
}

// Recorder builds interactions and applies their synchronous side effects
// in order: queue append, preference update, activity touch.
type Recorder struct {
	queue    Queue
	prefs    Preferences
	activity Activity
	history  History
	session  func() string
	clock    Clock
	logger   logger.Logger
}

// Option applies a configuration option to the Recorder.
type Option func(*Recorder)

// WithActivity sets the activity monitor consulted for gating.
func WithActivity(a Activity) Option {
	return func(r *Recorder) {
		if a != nil {
			r.activity = a
		}
	}
}

// WithHistory sets the search history sink.
func WithHistory(h History) Option {
	return func(r *Recorder) {
		if h != nil {
			r.history = h
		}
	}
}

// WithClock sets the time source.
func WithClock(clock Clock) Option {
	return func(r *Recorder) {
		if clock != nil {
			r.clock = clock
		}
	}
}

// WithLogger sets a custom logger for the recorder.
func WithLogger(l logger.Logger) Option {
	return func(r *Recorder) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates a Recorder. The session func supplies the id stamped on
// every interaction.
func New(queue Queue, prefs Preferences, session func() string, opts ...Option) *Recorder {
	r := &Recorder{
		queue:   queue,
		prefs:   prefs,
		session: session,
		clock:   time.Now,
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.logger == nil {
		r.logger = logger.Get().Named("recorder")
	}

	return r
}

// Record builds an interaction and applies its side effects. Interactions
// are queued strictly in call order; the preference update happens
// synchronously before Record returns.
func (r *Recorder) Record(ctx context.Context, t model.InteractionType, ct model.ContentType, d Data) {
	in := r.build(t, ct, d)
	r.queue.Append(ctx, in)
	r.prefs.Update(ctx, in)
	if r.activity != nil {
		r.activity.Touch(activity.SignalPointerDown)
	}

	metrics.RecordInteraction(string(t))
	r.logger.Debug(ctx, "interaction recorded",
		logger.String("id", in.ID),
		logger.String("type", string(t)),
		logger.String("content_type", string(ct)),
		logger.Int("content_id", d.ContentID),
	)
}

// RecordSearch records a search interaction and additionally appends to
// the capped search history, independent of the main queue.
func (r *Recorder) RecordSearch(ctx context.Context, query, searchType string, d Data) {
	in := r.build(model.TypeSearch, model.ContentPage, d)
	in.Query = query
	in.SearchType = searchType

	r.queue.Append(ctx, in)
	r.prefs.Update(ctx, in)
	if r.activity != nil {
		r.activity.Touch(activity.SignalKeyPress)
	}
	if r.history != nil {
		r.history.RecordSearch(ctx, query, searchType)
	}

	metrics.RecordInteraction(string(model.TypeSearch))
	metrics.RecordSearch()
}

// RecordScroll records a scroll-depth interaction unless the visitor is
// idle. Scroll in a genuinely idle tab carries no signal.
func (r *Recorder) RecordScroll(ctx context.Context, d Data) {
	if r.activity != nil && !r.activity.Active() {
		r.logger.Debug(ctx, "dropping scroll from idle visitor")
		return
	}
	r.Record(ctx, model.TypeScroll, model.ContentPage, d)
	if r.activity != nil {
		r.activity.Touch(activity.SignalScroll)
	}
}

// build constructs an immutable interaction stamped with the current
// timestamp and session id.
func (r *Recorder) build(t model.InteractionType, ct model.ContentType, d Data) model.Interaction {
	return model.Interaction{
		ID:          ulid.Make().String(),
		Type:        t,
		ContentType: ct,
		ContentID:   d.ContentID,
		ContentName: d.ContentName,
		CategoryID:  d.CategoryID,
		Timestamp:   r.clock(),
		PageURL:     d.PageURL,
		Referrer:    d.Referrer,
		SessionID:   r.session(),
	}
}
