package simulate

import (
	"context"
	"fmt"
	"sort"

	"github.com/glowup/beacon/pkg/logger"
)

// verifyProfile checks that the submitted session actually accumulated
// into the preference profile.
func verifyProfile(ctx context.Context, config *Config, profile *ProfileView) error {
	logger.Get().Info(ctx, "verifying profile")

	if profile.Fingerprint == "" {
		return fmt.Errorf("profile has no fingerprint")
	}
	if profile.SessionID == "" {
		return fmt.Errorf("profile has no session id")
	}
	if len(profile.Categories) == 0 {
		return fmt.Errorf("no category scores accumulated")
	}
	if len(profile.Keywords) == 0 {
		return fmt.Errorf("no keyword scores accumulated")
	}
	if profile.VisitFrequency == 0 {
		return fmt.Errorf("visit frequency not recorded")
	}

	displayTopInterests(profile, config.Verbose)

	logger.Get().Info(ctx, "profile verification completed",
		logger.String("fingerprint", profile.Fingerprint),
		logger.Int("categories", len(profile.Categories)),
		logger.Int("keywords", len(profile.Keywords)),
		logger.Int("visitFrequency", profile.VisitFrequency))
	return nil
}

// displayTopInterests shows the strongest categories and keywords.
func displayTopInterests(profile *ProfileView, verbose bool) {
	type scored struct {
		key   string
		score int
	}

	topN := 10

	categories := make([]scored, 0, len(profile.Categories))
	for id, score := range profile.Categories {
		categories = append(categories, scored{key: fmt.Sprintf("category %d", id), score: score})
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].score > categories[j].score })
	if len(categories) > topN {
		categories = categories[:topN]
	}

	keywords := make([]scored, 0, len(profile.Keywords))
	for kw, score := range profile.Keywords {
		keywords = append(keywords, scored{key: kw, score: score})
	}
	sort.Slice(keywords, func(i, j int) bool { return keywords[i].score > keywords[j].score })
	if len(keywords) > topN {
		keywords = keywords[:topN]
	}

	ctx := context.Background()
	for _, c := range categories {
		logger.Get().Info(ctx, "top category", logger.String("category", c.key), logger.Int("score", c.score))
	}
	if verbose {
		for _, k := range keywords {
			logger.Get().Info(ctx, "top keyword", logger.String("keyword", k.key), logger.Int("score", k.score))
		}
	}
}
