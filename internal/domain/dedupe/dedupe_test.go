package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/glowup/beacon/internal/domain/dedupe"
)

func TestInMemoryDeduper(t *testing.T) {
	Convey("Given a new in-memory deduper", t, func() {
		d := dedupe.NewInMemoryDeduper()

		Convey("Then it starts empty", func() {
			So(d.Size(), ShouldEqual, 0)
		})

		Convey("When recording a new key", func() {
			seen := d.SeenAndRecord(context.Background(), "hero@0.5")

			Convey("Then it is newly recorded", func() {
				So(seen, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When recording the same key twice", func() {
			d.SeenAndRecord(context.Background(), "hero@0.5")
			seen := d.SeenAndRecord(context.Background(), "hero@0.5")

			Convey("Then the second record reports seen", func() {
				So(seen, ShouldBeTrue)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When recording many distinct keys", func() {
			keys := []string{"hero@0.5", "hero@1", "pricing@0.5", "pricing@1"}
			for _, key := range keys {
				So(d.SeenAndRecord(context.Background(), key), ShouldBeFalse)
			}

			Convey("Then all keys are retained", func() {
				So(d.Size(), ShouldEqual, int64(len(keys)))
				for _, key := range keys {
					So(d.SeenAndRecord(context.Background(), key), ShouldBeTrue)
				}
			})
		})

		Convey("When recording the empty key", func() {
			So(d.SeenAndRecord(context.Background(), ""), ShouldBeFalse)
			So(d.SeenAndRecord(context.Background(), ""), ShouldBeTrue)
		})
	})
}

func TestDedupeConcurrency(t *testing.T) {
	Convey("Given a deduper with concurrent access", t, func() {
		d := dedupe.NewInMemoryDeduper()
		const numGoroutines = 10
		const keysPerGoroutine = 100

		Convey("When multiple goroutines record keys concurrently", func() {
			var wg sync.WaitGroup
			for i := 0; i < numGoroutines; i++ {
				wg.Add(1)
				go func(goroutineID int) {
					defer wg.Done()
					for j := 0; j < keysPerGoroutine; j++ {
						d.SeenAndRecord(context.Background(), fmt.Sprintf("key-%d-%d", goroutineID, j))
					}
				}(i)
			}
			wg.Wait()

			Convey("Then all keys are recorded exactly once", func() {
				So(d.Size(), ShouldEqual, int64(numGoroutines*keysPerGoroutine))
			})
		})
	})
}
