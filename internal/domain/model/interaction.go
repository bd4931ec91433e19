// Package model contains domain models passed between layers.
package model

import "time"

// InteractionType classifies how the visitor interacted with content.
type InteractionType string

// Interaction types recorded by the engine.
const (
	TypeClick  InteractionType = "click"
	TypeSearch InteractionType = "search"
	TypeScroll InteractionType = "scroll"
	TypeView   InteractionType = "view"
	TypeCustom InteractionType = "custom"
)

// ContentType classifies what kind of content an interaction targeted.
type ContentType string

// Content types on the marketplace.
const (
	ContentProcedure ContentType = "procedure"
	ContentDoctor    ContentType = "doctor"
	ContentCategory  ContentType = "category"
	ContentPage      ContentType = "page"
	ContentSection   ContentType = "section"
)

// Interaction represents a single recorded visitor action. Immutable once
// created; appended to an insertion-order-significant queue.
type Interaction struct {
	ID          string // ULID, for log and dispatch correlation
	Type        InteractionType
	ContentType ContentType
	ContentID   int    // 0 when the interaction carries no identifier
	ContentName string // human-readable name, may be empty
	CategoryID  int    // 0 when not category-scoped
	Query       string // set for search interactions only
	SearchType  string // set for search interactions only
	Timestamp   time.Time
	PageURL     string
	Referrer    string
	SessionID   string
}

// IsSearch reports whether this interaction carries high-intent search signal.
func (i Interaction) IsSearch() bool {
	return i.Type == TypeSearch
}

// Profile holds the accumulated category and keyword interest scores for a
// fingerprint. Scores are monotonically non-decreasing until an explicit clear.
type Profile struct {
	Categories map[int]int    `json:"categories"`
	Keywords   map[string]int `json:"keywords"`
}

// NewProfile returns an empty profile with initialized maps.
func NewProfile() Profile {
	return Profile{
		Categories: make(map[int]int),
		Keywords:   make(map[string]int),
	}
}

// Clone returns a deep copy so callers can read without aliasing the
// accumulators.
func (p Profile) Clone() Profile {
	out := Profile{
		Categories: make(map[int]int, len(p.Categories)),
		Keywords:   make(map[string]int, len(p.Keywords)),
	}
	for k, v := range p.Categories {
		out.Categories[k] = v
	}
	for k, v := range p.Keywords {
		out.Keywords[k] = v
	}
	return out
}

// SearchEntry is one remembered search, newest first in SearchHistory.
type SearchEntry struct {
	Query     string    `json:"query"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
}
