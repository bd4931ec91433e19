package recorder_test

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/glowup/beacon/internal/domain/activity"
	"github.com/glowup/beacon/internal/domain/model"
	"github.com/glowup/beacon/internal/domain/recorder"
)

type fakeQueue struct {
	items []model.Interaction
}

func (q *fakeQueue) Append(_ context.Context, in model.Interaction) {
	q.items = append(q.items, in)
}

type fakePrefs struct {
	updates []model.Interaction
}

func (p *fakePrefs) Update(_ context.Context, in model.Interaction) {
	p.updates = append(p.updates, in)
}

type fakeActivity struct {
	active  bool
	touched []activity.Signal
}

func (a *fakeActivity) Touch(signal activity.Signal) { a.touched = append(a.touched, signal) }
func (a *fakeActivity) Active() bool                 { return a.active }

type fakeHistory struct {
	queries []string
}

func (h *fakeHistory) RecordSearch(_ context.Context, query, _ string) {
	h.queries = append(h.queries, query)
}

func TestRecord(t *testing.T) {
	Convey("Given a recorder with capturing collaborators", t, func() {
		ctx := context.Background()
		queue := &fakeQueue{}
		prefs := &fakePrefs{}
		monitor := &fakeActivity{active: true}
		session := func() string { return "session-1" }

		r := recorder.New(queue, prefs, session,
			recorder.WithActivity(monitor),
			recorder.WithClock(func() time.Time {
				return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
			}),
		)

		Convey("When recording a click", func() {
			r.Record(ctx, model.TypeClick, model.ContentProcedure, recorder.Data{
				ContentID:   101,
				ContentName: "Lip Fillers Consultation",
				CategoryID:  42,
				PageURL:     "/procedures/lip-fillers",
			})

			Convey("Then the interaction is queued with its attributes", func() {
				So(len(queue.items), ShouldEqual, 1)
				in := queue.items[0]
				So(in.ID, ShouldNotBeEmpty)
				So(in.Type, ShouldEqual, model.TypeClick)
				So(in.ContentType, ShouldEqual, model.ContentProcedure)
				So(in.ContentID, ShouldEqual, 101)
				So(in.CategoryID, ShouldEqual, 42)
				So(in.SessionID, ShouldEqual, "session-1")
			})

			Convey("Then the preference update happens synchronously", func() {
				So(len(prefs.updates), ShouldEqual, 1)
				So(prefs.updates[0].ContentName, ShouldEqual, "Lip Fillers Consultation")
			})

			Convey("Then the activity monitor is touched", func() {
				So(len(monitor.touched), ShouldEqual, 1)
			})
		})

		Convey("When recording several interactions", func() {
			r.Record(ctx, model.TypeClick, model.ContentProcedure, recorder.Data{ContentName: "A"})
			r.Record(ctx, model.TypeClick, model.ContentDoctor, recorder.Data{ContentName: "B"})
			r.Record(ctx, model.TypeView, model.ContentSection, recorder.Data{ContentName: "C"})

			Convey("Then the queue preserves call order", func() {
				So(len(queue.items), ShouldEqual, 3)
				So(queue.items[0].ContentName, ShouldEqual, "A")
				So(queue.items[1].ContentName, ShouldEqual, "B")
				So(queue.items[2].ContentName, ShouldEqual, "C")
			})

			Convey("Then every interaction gets a distinct id", func() {
				So(queue.items[0].ID, ShouldNotEqual, queue.items[1].ID)
				So(queue.items[1].ID, ShouldNotEqual, queue.items[2].ID)
			})
		})
	})
}

func TestRecordSearch(t *testing.T) {
	Convey("Given a recorder with a search history sink", t, func() {
		ctx := context.Background()
		queue := &fakeQueue{}
		prefs := &fakePrefs{}
		hist := &fakeHistory{}

		r := recorder.New(queue, prefs, func() string { return "session-1" },
			recorder.WithHistory(hist),
		)

		Convey("When recording a search", func() {
			r.RecordSearch(ctx, "lip fillers", "text", recorder.Data{PageURL: "/search"})

			Convey("Then a search interaction is queued", func() {
				So(len(queue.items), ShouldEqual, 1)
				in := queue.items[0]
				So(in.Type, ShouldEqual, model.TypeSearch)
				So(in.Query, ShouldEqual, "lip fillers")
				So(in.SearchType, ShouldEqual, "text")
			})

			Convey("Then the search history receives the query", func() {
				So(hist.queries, ShouldResemble, []string{"lip fillers"})
			})

			Convey("Then the preference update sees the query", func() {
				So(prefs.updates[0].Query, ShouldEqual, "lip fillers")
			})
		})
	})
}

func TestRecordScroll(t *testing.T) {
	Convey("Given a recorder gated by an activity monitor", t, func() {
		ctx := context.Background()
		queue := &fakeQueue{}
		prefs := &fakePrefs{}
		monitor := &fakeActivity{active: true}

		r := recorder.New(queue, prefs, func() string { return "session-1" },
			recorder.WithActivity(monitor),
		)

		Convey("When the visitor is active", func() {
			r.RecordScroll(ctx, recorder.Data{PageURL: "/procedures/botox"})

			Convey("Then the scroll is recorded", func() {
				So(len(queue.items), ShouldEqual, 1)
				So(queue.items[0].Type, ShouldEqual, model.TypeScroll)
			})
		})

		Convey("When the visitor is idle", func() {
			monitor.active = false
			r.RecordScroll(ctx, recorder.Data{PageURL: "/procedures/botox"})

			Convey("Then the scroll is dropped", func() {
				So(queue.items, ShouldBeEmpty)
				So(prefs.updates, ShouldBeEmpty)
			})
		})
	})
}
