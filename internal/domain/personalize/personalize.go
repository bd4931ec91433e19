// Package personalize re-ranks and highlights rendered content from the
// preference profile.
//
// Both transformations are pure functions of the profile and the element
// tree behind the binding, and both are idempotent: applying twice with
// the same profile produces the same order and the same highlight set.
package personalize

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/glowup/beacon/internal/domain/model"
	"github.com/glowup/beacon/internal/domain/types"
	"github.com/glowup/beacon/pkg/logger"
	"github.com/glowup/beacon/pkg/metrics"
)

// Default applier configuration constants.
const (
	defaultTopKeywordCount = 5
)

// Block is a content block carrying a category identifier.
type Block struct {
	Ref        string // opaque handle owned by the binding
	CategoryID int
}

// Link is a text-bearing link element eligible for highlighting.
type Link struct {
	Ref  string
	Text string
}

// Binding abstracts the element-tree operations so ranking logic stays
// independent of any specific rendering surface.
type Binding interface {
	// CategoryBlocks returns the category-tagged blocks in document order.
	CategoryBlocks() []Block

	// ReorderBlocks reinserts the blocks under their shared parent in the
	// given order.
	ReorderBlocks(refs []string) error

	// Links returns the text-bearing link elements in document order.
	Links() []Link

	// Highlight attaches the highlight marker to a link. Idempotent.
	Highlight(ref string) error
}

// Applier applies the two personalization transformations.
type Applier struct {
	topKeywords int
	logger      logger.Logger
}

// Option applies a configuration option to the Applier.
type Option func(*Applier)

// WithTopKeywordCount sets how many keywords drive highlighting.
func WithTopKeywordCount(n int) Option {
	return func(a *Applier) {
		if n > 0 {
			a.topKeywords = n
		}
	}
}

// WithLogger sets a custom logger for the applier.
func WithLogger(l logger.Logger) Option {
	return func(a *Applier) {
		if l != nil {
			a.logger = l
		}
	}
}

// New creates an Applier with default configuration.
func New(opts ...Option) *Applier {
	a := &Applier{
		topKeywords: defaultTopKeywordCount,
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.logger == nil {
		a.logger = logger.Get().Named("personalize")
	}

	return a
}

// Apply runs re-ranking then highlighting against the binding. Binding
// failures are returned for observability but callers treat them as
// non-fatal; the surrounding page must stay functional.
func (a *Applier) Apply(ctx context.Context, profile model.Profile, binding Binding) error {
	if binding == nil {
		return nil
	}
	metrics.RecordPersonalizeApply()

	if err := a.rerank(ctx, profile, binding); err != nil {
		return fmt.Errorf("rerank: %w", err)
	}
	if err := a.highlight(ctx, profile, binding); err != nil {
		return fmt.Errorf("highlight: %w", err)
	}
	return nil
}

// rerank stable-sorts the category blocks by descending score and
// reinserts them. Ties preserve original relative order so repeated
// application cannot drift.
func (a *Applier) rerank(ctx context.Context, profile model.Profile, binding Binding) error {
	blocks := binding.CategoryBlocks()
	if len(blocks) < 2 {
		return nil
	}

	ordered := Rank(profile, blocks)

	moved := 0
	refs := make([]string, len(ordered))
	for i, b := range ordered {
		refs[i] = b.Ref
		if b.Ref != blocks[i].Ref {
			moved++
		}
	}
	if moved == 0 {
		return nil
	}

	if err := binding.ReorderBlocks(refs); err != nil {
		return err
	}
	metrics.RecordBlocksReordered(moved)
	a.logger.Debug(ctx, "blocks re-ranked", logger.Int("moved", moved))
	return nil
}

// highlight attaches the marker to links whose text contains one of the
// top keywords, case-insensitive.
func (a *Applier) highlight(ctx context.Context, profile model.Profile, binding Binding) error {
	top := TopKeywords(profile, a.topKeywords)
	if len(top) == 0 {
		return nil
	}

	applied := 0
	for _, link := range binding.Links() {
		text := strings.ToLower(link.Text)
		for _, kw := range top {
			if !strings.Contains(text, kw.Keyword) {
				continue
			}
			if err := binding.Highlight(link.Ref); err != nil {
				return err
			}
			applied++
			break
		}
	}
	if applied > 0 {
		metrics.RecordHighlightsApplied(applied)
		a.logger.Debug(ctx, "links highlighted", logger.Int("count", applied))
	}
	return nil
}

// Rank returns the blocks stable-sorted by descending category score.
// Unknown categories score zero.
func Rank(profile model.Profile, blocks []Block) []Block {
	ordered := append([]Block(nil), blocks...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return profile.Categories[ordered[i].CategoryID] > profile.Categories[ordered[j].CategoryID]
	})
	return ordered
}

// TopKeywords returns the n highest-scoring keywords. Ties break
// alphabetically so the result is deterministic.
func TopKeywords(profile model.Profile, n int) []types.KeywordScore {
	scores := make([]types.KeywordScore, 0, len(profile.Keywords))
	for kw, score := range profile.Keywords {
		scores = append(scores, types.KeywordScore{Keyword: kw, Score: score})
	}
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score > scores[j].Score
		}
		return scores[i].Keyword < scores[j].Keyword
	})
	if len(scores) > n {
		scores = scores[:n]
	}
	return scores
}
