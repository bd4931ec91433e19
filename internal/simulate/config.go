package simulate

import "time"

// Config holds configuration for the browsing simulation
type Config struct {
	BaseURL  string        // Base URL of the tracking service
	Actions  int           // Number of browsing actions to generate
	Searches int           // Number of search submissions to mix in
	Timeout  time.Duration // HTTP request timeout
	LogFile  string        // Log file for simulation output
	Verbose  bool          // Enable verbose logging
}

// Action represents one browsing action submitted to the service
type Action struct {
	Endpoint string `json:"endpoint"`
	Body     any    `json:"body"`
}

// InteractionBody mirrors the POST /interactions wire schema
type InteractionBody struct {
	Type        string `json:"type"`
	ContentType string `json:"content_type"`
	ContentID   int    `json:"content_id"`
	ContentName string `json:"content_name"`
	CategoryID  int    `json:"category_id"`
	PageURL     string `json:"page_url"`
	Referrer    string `json:"referrer,omitempty"`
}

// SearchBody mirrors the POST /searches wire schema
type SearchBody struct {
	Query      string `json:"query"`
	SearchType string `json:"search_type"`
	PageURL    string `json:"page_url"`
}

// SectionBody mirrors the POST /sections wire schema
type SectionBody struct {
	Section string `json:"section"`
}

// VisibilityBody mirrors the POST /visibility wire schema
type VisibilityBody struct {
	Section      string  `json:"section"`
	VisibleRatio float64 `json:"visible_ratio"`
}

// ProfileView mirrors the GET /profile response
type ProfileView struct {
	Fingerprint    string         `json:"fingerprint"`
	SessionID      string         `json:"session_id"`
	Categories     map[int]int    `json:"categories"`
	Keywords       map[string]int `json:"keywords"`
	VisitFrequency int            `json:"visit_frequency"`
}

// AckResponse represents the response from action submission
type AckResponse struct {
	Status string `json:"status"`
}

// FlushResponse represents the response from POST /flush
type FlushResponse struct {
	Status    string `json:"status"`
	Delivered int    `json:"delivered"`
	Dropped   int    `json:"dropped"`
}

// Stats holds simulation statistics
type Stats struct {
	ActionsGenerated  int
	ActionsSubmitted  int
	ActionsSuccessful int
	ActionsFailed     int
	EventsDelivered   int
	EventsDropped     int
	StartTime         time.Time
	EndTime           time.Time
	Duration          time.Duration
}
