package domain

import "time"

// Result is one ranked search hit: a place with its best-matching review.
// Relevance is a display percentage in [0, 100], rounded to one decimal.
// The scored path caps at 99.9; exactly 100.0 is reserved for intent
// listings.
type Result struct {
	PlaceName  string  `json:"place_name"`
	Location   string  `json:"location"`
	ReviewText string  `json:"review_text"`
	Relevance  float64 `json:"relevance"`
}

// Debug is the auxiliary per-query record surfaced for observability.
// It never affects scoring.
type Debug struct {
	NormalizedQuery string   `json:"normalized_query"`
	Intent          Intent   `json:"intent,omitempty"`
	RegionTerms     []string `json:"region_terms,omitempty"`
	TopResult       string   `json:"top_result,omitempty"`
}

// HistoryEntry is one logged search, recorded fire-and-forget by the caller.
type HistoryEntry struct {
	ID              int64         `json:"id,omitempty"`
	At              time.Time     `json:"at"`
	Query           string        `json:"query"`
	NormalizedQuery string        `json:"normalized_query"`
	Intent          Intent        `json:"intent,omitempty"`
	RegionTerms     []string      `json:"region_terms,omitempty"`
	ResultCount     int           `json:"result_count"`
	TopResult       string        `json:"top_result,omitempty"`
	Duration        time.Duration `json:"duration_ms"`
}
