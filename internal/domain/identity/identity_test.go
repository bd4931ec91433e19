package identity_test

import (
	"context"
	"regexp"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/glowup/beacon/internal/adapters/repository"
	"github.com/glowup/beacon/internal/domain/identity"
)

func TestDerive(t *testing.T) {
	Convey("Given a set of environment signals", t, func() {
		signals := identity.Signals{
			SurfaceWidth:      1920,
			SurfaceHeight:     1080,
			Locale:            "en-US",
			TimezoneOffsetMin: -300,
			Platform:          "linux/amd64",
			CanvasSignature:   "x",
			CookiesEnabled:    true,
		}

		Convey("When deriving the fingerprint twice", func() {
			first := identity.Derive(signals)
			second := identity.Derive(signals)

			Convey("Then the result is deterministic", func() {
				So(first, ShouldEqual, second)
				So(first, ShouldNotBeEmpty)
			})

			Convey("Then the result is base-36 encoded", func() {
				So(regexp.MustCompile(`^[0-9a-z]+$`).MatchString(first), ShouldBeTrue)
			})
		})

		Convey("When a single signal differs", func() {
			changed := signals
			changed.CanvasSignature = "y"

			Convey("Then the fingerprint differs", func() {
				So(identity.Derive(changed), ShouldNotEqual, identity.Derive(signals))
			})
		})

		Convey("When all signals are absent", func() {
			empty := identity.Derive(identity.Signals{})

			Convey("Then derivation still yields a stable value", func() {
				So(empty, ShouldNotBeEmpty)
				So(identity.Derive(identity.Signals{}), ShouldEqual, empty)
			})
		})
	})
}

func TestProvider(t *testing.T) {
	Convey("Given a provider over an empty store", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore()
		signals := identity.Signals{Locale: "en-US", Platform: "linux/amd64"}
		p := identity.New(store, signals)

		Convey("When requesting the fingerprint", func() {
			fp := p.Fingerprint(ctx)

			Convey("Then it matches derivation from the signals", func() {
				So(fp, ShouldEqual, identity.Derive(signals))
			})

			Convey("Then it is persisted to the store", func() {
				stored, err := store.Get(ctx, repository.KeyFingerprint)
				So(err, ShouldBeNil)
				So(stored, ShouldEqual, fp)
			})

			Convey("Then repeated calls return the cached value", func() {
				So(p.Fingerprint(ctx), ShouldEqual, fp)
			})
		})

		Convey("When a later process starts with drifted signals", func() {
			fp := p.Fingerprint(ctx)

			drifted := signals
			drifted.SurfaceWidth = 800
			later := identity.New(store, drifted)

			Convey("Then the persisted fingerprint wins", func() {
				So(later.Fingerprint(ctx), ShouldEqual, fp)
			})
		})

		Convey("When requesting the session id", func() {
			sid := p.SessionID()

			Convey("Then it is stable within the process lifetime", func() {
				So(sid, ShouldNotBeEmpty)
				So(p.SessionID(), ShouldEqual, sid)
			})

			Convey("Then a fresh provider gets a different session id", func() {
				other := identity.New(repository.NewMemoryStore(), signals)
				So(other.SessionID(), ShouldNotEqual, sid)
			})
		})
	})
}
