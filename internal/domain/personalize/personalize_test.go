package personalize_test

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/glowup/beacon/internal/domain/model"
	"github.com/glowup/beacon/internal/domain/personalize"
)

// fakeBinding implements personalize.Binding over plain slices, recording
// the mutations the applier requests.
type fakeBinding struct {
	blocks      []personalize.Block
	links       []personalize.Link
	highlighted map[string]int
	reorders    [][]string
	reorderErr  error
}

func newFakeBinding(blocks []personalize.Block, links []personalize.Link) *fakeBinding {
	return &fakeBinding{
		blocks:      blocks,
		links:       links,
		highlighted: make(map[string]int),
	}
}

func (b *fakeBinding) CategoryBlocks() []personalize.Block {
	return append([]personalize.Block(nil), b.blocks...)
}

func (b *fakeBinding) ReorderBlocks(refs []string) error {
	if b.reorderErr != nil {
		return b.reorderErr
	}
	b.reorders = append(b.reorders, refs)

	byRef := make(map[string]personalize.Block, len(b.blocks))
	for _, blk := range b.blocks {
		byRef[blk.Ref] = blk
	}
	ordered := make([]personalize.Block, 0, len(refs))
	for _, ref := range refs {
		ordered = append(ordered, byRef[ref])
	}
	b.blocks = ordered
	return nil
}

func (b *fakeBinding) Links() []personalize.Link {
	return append([]personalize.Link(nil), b.links...)
}

func (b *fakeBinding) Highlight(ref string) error {
	b.highlighted[ref]++
	return nil
}

func profileWith(categories map[int]int, keywords map[string]int) model.Profile {
	p := model.NewProfile()
	for k, v := range categories {
		p.Categories[k] = v
	}
	for k, v := range keywords {
		p.Keywords[k] = v
	}
	return p
}

func TestRank(t *testing.T) {
	Convey("Given category blocks in document order", t, func() {
		blocks := []personalize.Block{
			{Ref: "a", CategoryID: 1},
			{Ref: "b", CategoryID: 2},
			{Ref: "c", CategoryID: 3},
		}

		Convey("When one category dominates the profile", func() {
			profile := profileWith(map[int]int{2: 5}, nil)
			ordered := personalize.Rank(profile, blocks)

			Convey("Then that block moves to the front", func() {
				So(ordered[0].Ref, ShouldEqual, "b")
			})

			Convey("Then ties preserve the original relative order", func() {
				So(ordered[1].Ref, ShouldEqual, "a")
				So(ordered[2].Ref, ShouldEqual, "c")
			})
		})

		Convey("When the profile is empty", func() {
			ordered := personalize.Rank(model.NewProfile(), blocks)

			Convey("Then the order is unchanged", func() {
				So(ordered[0].Ref, ShouldEqual, "a")
				So(ordered[1].Ref, ShouldEqual, "b")
				So(ordered[2].Ref, ShouldEqual, "c")
			})
		})

		Convey("When ranking runs twice with the same profile", func() {
			profile := profileWith(map[int]int{3: 2, 1: 2}, nil)
			once := personalize.Rank(profile, blocks)
			twice := personalize.Rank(profile, once)

			Convey("Then the result is stable", func() {
				So(twice, ShouldResemble, once)
			})
		})
	})
}

func TestTopKeywords(t *testing.T) {
	Convey("Given an accumulated keyword map", t, func() {
		profile := profileWith(nil, map[string]int{
			"fillers":     6,
			"botox":       4,
			"rhinoplasty": 4,
			"laser":       2,
			"whitening":   1,
			"peel":        1,
		})

		Convey("When taking the top 3", func() {
			top := personalize.TopKeywords(profile, 3)

			Convey("Then keywords come in descending score order", func() {
				So(len(top), ShouldEqual, 3)
				So(top[0].Keyword, ShouldEqual, "fillers")
				So(top[0].Score, ShouldEqual, 6)
			})

			Convey("Then score ties break alphabetically", func() {
				So(top[1].Keyword, ShouldEqual, "botox")
				So(top[2].Keyword, ShouldEqual, "rhinoplasty")
			})
		})

		Convey("When asking for more than exist", func() {
			top := personalize.TopKeywords(profile, 50)

			Convey("Then all keywords are returned", func() {
				So(len(top), ShouldEqual, 6)
			})
		})

		Convey("When the profile has no keywords", func() {
			So(personalize.TopKeywords(model.NewProfile(), 5), ShouldBeEmpty)
		})
	})
}

func TestApply(t *testing.T) {
	Convey("Given an applier and a populated profile", t, func() {
		ctx := context.Background()
		a := personalize.New()
		profile := profileWith(
			map[int]int{2: 5},
			map[string]int{"fillers": 6, "botox": 4},
		)

		blocks := []personalize.Block{
			{Ref: "a", CategoryID: 1},
			{Ref: "b", CategoryID: 2},
		}
		links := []personalize.Link{
			{Ref: "l1", Text: "Lip Fillers Consultation"},
			{Ref: "l2", Text: "BOTOX Injections"},
			{Ref: "l3", Text: "Teeth Whitening"},
		}

		Convey("When applying once", func() {
			binding := newFakeBinding(blocks, links)
			So(a.Apply(ctx, profile, binding), ShouldBeNil)

			Convey("Then the dominant block is re-ranked to the front", func() {
				So(len(binding.reorders), ShouldEqual, 1)
				So(binding.blocks[0].Ref, ShouldEqual, "b")
			})

			Convey("Then matching links are highlighted case-insensitively", func() {
				So(binding.highlighted["l1"], ShouldEqual, 1)
				So(binding.highlighted["l2"], ShouldEqual, 1)
			})

			Convey("Then non-matching links are left alone", func() {
				_, ok := binding.highlighted["l3"]
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When applying twice with the same profile", func() {
			binding := newFakeBinding(blocks, links)
			So(a.Apply(ctx, profile, binding), ShouldBeNil)
			firstOrder := binding.CategoryBlocks()

			So(a.Apply(ctx, profile, binding), ShouldBeNil)

			Convey("Then the block order does not drift", func() {
				So(binding.CategoryBlocks(), ShouldResemble, firstOrder)
			})

			Convey("Then no second reorder is issued", func() {
				So(len(binding.reorders), ShouldEqual, 1)
			})
		})

		Convey("When there are fewer than two blocks", func() {
			binding := newFakeBinding(blocks[:1], links)
			So(a.Apply(ctx, profile, binding), ShouldBeNil)

			Convey("Then no reorder is attempted", func() {
				So(binding.reorders, ShouldBeEmpty)
			})
		})

		Convey("When the binding is nil", func() {
			So(a.Apply(ctx, profile, nil), ShouldBeNil)
		})

		Convey("When the binding fails to reorder", func() {
			binding := newFakeBinding(blocks, links)
			binding.reorderErr = errors.New("detached node")

			Convey("Then the failure propagates", func() {
				So(a.Apply(ctx, profile, binding), ShouldNotBeNil)
			})
		})

		Convey("When the profile has no keywords", func() {
			binding := newFakeBinding(blocks, links)
			So(a.Apply(ctx, profileWith(map[int]int{2: 5}, nil), binding), ShouldBeNil)

			Convey("Then nothing is highlighted", func() {
				So(binding.highlighted, ShouldBeEmpty)
			})
		})

		Convey("When only one keyword is configured to drive highlighting", func() {
			limited := personalize.New(personalize.WithTopKeywordCount(1))
			binding := newFakeBinding(blocks, links)
			So(limited.Apply(ctx, profile, binding), ShouldBeNil)

			Convey("Then only links matching the strongest keyword are marked", func() {
				So(binding.highlighted["l1"], ShouldEqual, 1)
				_, ok := binding.highlighted["l2"]
				So(ok, ShouldBeFalse)
			})
		})
	})
}
