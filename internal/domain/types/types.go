// Package types contains common types used across the application
package types

import "github.com/glowup/beacon/internal/domain/model"

// KeywordScore pairs a keyword with its accumulated interest score.
type KeywordScore struct {
	Keyword string `json:"keyword"`
	Score   int    `json:"score"`
}

// ProfileView is the read shape returned by profile queries.
type ProfileView struct {
	Fingerprint    string         `json:"fingerprint"`
	SessionID      string         `json:"session_id"`
	Categories     map[int]int    `json:"categories"`
	Keywords       map[string]int `json:"keywords"`
	VisitFrequency int            `json:"visit_frequency"`
}

// Insights is the local debug read model: what the engine believes about
// the current visitor.
type Insights struct {
	Fingerprint    string              `json:"fingerprint"`
	SessionID      string              `json:"session_id"`
	TopKeywords    []KeywordScore      `json:"top_keywords"`
	RecentSearches []model.SearchEntry `json:"recent_searches"`
	VisitFrequency int                 `json:"visit_frequency"`
	Active         bool                `json:"active"`
	QueueLength    int                 `json:"queue_length"`
}
