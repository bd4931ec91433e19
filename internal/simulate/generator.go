package simulate

import (
	"context"
	"crypto/rand"
	"math/big"
	"strconv"

	"github.com/glowup/beacon/pkg/logger"
)

// Constants for random selection.
const (
	actionKindDivisor = 10
)

// Constants for action kind cases. Click-heavy on purpose: a real session
// is mostly content clicks with occasional scrolls and section views.
const (
	caseCategoryClick = 7
	caseScroll        = 8
	caseSectionView   = 9
)

// catalogItem is a marketplace content entry the simulated visitor can hit.
type catalogItem struct {
	id         int
	name       string
	categoryID int
	page       string
}

// A small slice of the marketplace catalog, weighted toward cosmetic
// procedures so keyword accumulation is visible in the resulting profile.
var catalog = []catalogItem{
	{id: 101, name: "Lip Fillers Consultation", categoryID: 42, page: "/procedures/lip-fillers"},
	{id: 102, name: "Botox Injections", categoryID: 42, page: "/procedures/botox"},
	{id: 103, name: "Laser Hair Removal", categoryID: 17, page: "/procedures/laser-hair-removal"},
	{id: 104, name: "Chemical Peel Treatment", categoryID: 17, page: "/procedures/chemical-peel"},
	{id: 105, name: "Rhinoplasty Surgery", categoryID: 8, page: "/procedures/rhinoplasty"},
	{id: 106, name: "Teeth Whitening Session", categoryID: 23, page: "/procedures/teeth-whitening"},
	{id: 107, name: "Dermal Fillers Package", categoryID: 42, page: "/procedures/dermal-fillers"},
	{id: 108, name: "Microneedling Facial", categoryID: 17, page: "/procedures/microneedling"},
}

var searchQueries = []string{
	"lip fillers",
	"botox near me",
	"laser hair removal cost",
	"best rhinoplasty surgeon",
	"chemical peel aftercare",
	"dermal fillers price",
}

var sections = []string{
	"featured-procedures",
	"top-doctors",
	"patient-reviews",
	"pricing-table",
}

// randomInt returns a random int in [0, n) using crypto/rand.
func randomInt(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// generateActions builds an ordered browsing session: interleaved clicks,
// scrolls, section views, and searches.
func generateActions(ctx context.Context, config *Config, stats *Stats) []Action {
	logger.Get().Info(ctx, "generating browsing session",
		logger.Int("actions", config.Actions),
		logger.Int("searches", config.Searches),
	)

	actions := make([]Action, 0, config.Actions+config.Searches+len(sections))

	// Register the page sections up front, the way a page script would on
	// load.
	for _, section := range sections {
		actions = append(actions, Action{Endpoint: "/sections", Body: SectionBody{Section: section}})
	}

	searchEvery := 0
	if config.Searches > 0 {
		searchEvery = config.Actions/config.Searches + 1
	}

	for i := 0; i < config.Actions; i++ {
		actions = append(actions, generateSingleAction())

		if searchEvery > 0 && i%searchEvery == searchEvery-1 {
			q := searchQueries[randomInt(len(searchQueries))]
			actions = append(actions, Action{Endpoint: "/searches", Body: SearchBody{
				Query:      q,
				SearchType: "text",
				PageURL:    "/search?q=" + q,
			}})
		}
	}

	stats.ActionsGenerated = len(actions)
	logger.Get().Info(ctx, "generated browsing session", logger.Int("count", len(actions)))
	return actions
}

// generateSingleAction creates one browsing action.
func generateSingleAction() Action {
	item := catalog[randomInt(len(catalog))]

	switch randomInt(actionKindDivisor) {
	case caseCategoryClick:
		return Action{Endpoint: "/interactions", Body: InteractionBody{
			Type:        "click",
			ContentType: "category",
			ContentID:   item.categoryID,
			ContentName: "Category " + strconv.Itoa(item.categoryID),
			CategoryID:  item.categoryID,
			PageURL:     "/categories/" + strconv.Itoa(item.categoryID),
		}}
	case caseScroll:
		return Action{Endpoint: "/interactions", Body: InteractionBody{
			Type:        "scroll",
			ContentType: "page",
			PageURL:     item.page,
		}}
	case caseSectionView:
		return Action{Endpoint: "/visibility", Body: VisibilityBody{
			Section:      sections[randomInt(len(sections))],
			VisibleRatio: 1.0,
		}}
	default:
		return Action{Endpoint: "/interactions", Body: InteractionBody{
			Type:        "click",
			ContentType: "procedure",
			ContentID:   item.id,
			ContentName: item.name,
			CategoryID:  item.categoryID,
			PageURL:     item.page,
			Referrer:    "/",
		}}
	}
}
