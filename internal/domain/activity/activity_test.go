package activity_test

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/glowup/beacon/internal/domain/activity"
)

func TestMonitor(t *testing.T) {
	Convey("Given a monitor with a controllable clock", t, func() {
		now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		clock := func() time.Time { return now }
		m := activity.New(
			activity.WithWindow(30*time.Second),
			activity.WithClock(clock),
		)

		Convey("Then it starts active", func() {
			So(m.Active(), ShouldBeTrue)
			So(m.IdleFor(), ShouldEqual, 0)
		})

		Convey("When time passes without any signal", func() {
			now = now.Add(31 * time.Second)

			Convey("Then the visitor is idle", func() {
				So(m.Active(), ShouldBeFalse)
				So(m.IdleFor(), ShouldEqual, 31*time.Second)
			})
		})

		Convey("When time passes within the window", func() {
			now = now.Add(29 * time.Second)

			Convey("Then the visitor is still active", func() {
				So(m.Active(), ShouldBeTrue)
			})
		})

		Convey("When a signal arrives after going idle", func() {
			now = now.Add(5 * time.Minute)
			So(m.Active(), ShouldBeFalse)

			m.Touch(activity.SignalPointerMove)

			Convey("Then the window resets", func() {
				So(m.Active(), ShouldBeTrue)
				So(m.IdleFor(), ShouldEqual, 0)
			})
		})

		Convey("When each signal kind is reported", func() {
			signals := []activity.Signal{
				activity.SignalPointerDown,
				activity.SignalPointerMove,
				activity.SignalKeyPress,
				activity.SignalScroll,
				activity.SignalTouchStart,
			}

			Convey("Then every kind resets the window", func() {
				for _, sig := range signals {
					now = now.Add(time.Minute)
					m.Touch(sig)
					So(m.Active(), ShouldBeTrue)
				}
			})
		})
	})
}
