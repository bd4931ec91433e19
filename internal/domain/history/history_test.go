package history_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/glowup/beacon/internal/adapters/repository"
	"github.com/glowup/beacon/internal/domain/history"
)

func TestSearchLog(t *testing.T) {
	Convey("Given a history log", t, func() {
		ctx := context.Background()
		kv := repository.NewMemoryStore()
		l := history.New(kv)

		Convey("When searches are recorded", func() {
			l.RecordSearch(ctx, "lip fillers", "text")
			l.RecordSearch(ctx, "botox", "text")

			Convey("Then the most recent comes first", func() {
				searches := l.Searches()
				So(len(searches), ShouldEqual, 2)
				So(searches[0].Query, ShouldEqual, "botox")
				So(searches[1].Query, ShouldEqual, "lip fillers")
			})
		})

		Convey("When more searches arrive than the cap retains", func() {
			for i := 0; i < 60; i++ {
				l.RecordSearch(ctx, "query "+strconv.Itoa(i), "text")
			}

			Convey("Then only the newest fifty survive", func() {
				searches := l.Searches()
				So(len(searches), ShouldEqual, 50)
				So(searches[0].Query, ShouldEqual, "query 59")
				So(searches[49].Query, ShouldEqual, "query 10")
			})
		})
	})
}

func TestVisitLog(t *testing.T) {
	Convey("Given a history log with a controllable clock", t, func() {
		ctx := context.Background()
		now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
		l := history.New(repository.NewMemoryStore(),
			history.WithClock(func() time.Time { return now }),
		)

		Convey("When visits are recorded", func() {
			l.RecordVisit(ctx)
			now = now.Add(time.Hour)
			l.RecordVisit(ctx)

			Convey("Then the frequency reflects the count", func() {
				So(l.VisitFrequency(), ShouldEqual, 2)
			})

			Convey("Then visits come oldest first", func() {
				visits := l.Visits()
				So(visits[0].Before(visits[1]), ShouldBeTrue)
			})
		})

		Convey("When more visits arrive than the cap retains", func() {
			for i := 0; i < 40; i++ {
				now = now.Add(time.Minute)
				l.RecordVisit(ctx)
			}

			Convey("Then the oldest are evicted", func() {
				visits := l.Visits()
				So(len(visits), ShouldEqual, 30)
				So(visits[0].Equal(time.Date(2025, 6, 1, 9, 11, 0, 0, time.UTC)), ShouldBeTrue)
			})
		})
	})
}

func TestHistoryPersistence(t *testing.T) {
	Convey("Given histories accumulated through one log", t, func() {
		ctx := context.Background()
		kv := repository.NewMemoryStore()
		l := history.New(kv)
		l.RecordVisit(ctx)
		l.RecordSearch(ctx, "rhinoplasty", "text")

		Convey("When a fresh log loads from the same store", func() {
			later := history.New(kv)
			later.Load(ctx)

			Convey("Then both histories survive the restart", func() {
				So(later.VisitFrequency(), ShouldEqual, 1)
				So(later.Searches()[0].Query, ShouldEqual, "rhinoplasty")
			})
		})

		Convey("When a persisted value is corrupt", func() {
			So(kv.Set(ctx, repository.KeySearchHistory, "nonsense"), ShouldBeNil)
			later := history.New(kv)
			later.Load(ctx)

			Convey("Then the corrupt history is discarded", func() {
				So(later.Searches(), ShouldBeEmpty)
				So(later.VisitFrequency(), ShouldEqual, 1)
			})
		})

		Convey("When custom caps are configured", func() {
			capped := history.New(repository.NewMemoryStore(),
				history.WithVisitCap(2),
				history.WithSearchCap(1),
			)
			capped.RecordVisit(ctx)
			capped.RecordVisit(ctx)
			capped.RecordVisit(ctx)
			capped.RecordSearch(ctx, "first", "text")
			capped.RecordSearch(ctx, "second", "text")

			Convey("Then the custom caps apply", func() {
				So(capped.VisitFrequency(), ShouldEqual, 2)
				So(len(capped.Searches()), ShouldEqual, 1)
				So(capped.Searches()[0].Query, ShouldEqual, "second")
			})
		})
	})
}
