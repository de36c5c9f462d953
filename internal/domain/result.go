package domain

// SearchResult is an ephemeral per-query projection of a document hit.
type SearchResult struct {
	Kind     Kind              `json:"kind"`
	ID       string            `json:"id"`
	Title    string            `json:"title"`
	Subtitle string            `json:"subtitle,omitempty"`
	URL      string            `json:"url"`
	Image    string            `json:"image,omitempty"`
	Score    float64           `json:"score"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Suggestion is an ephemeral autocomplete entry.
type Suggestion struct {
	Text     string `json:"text"`
	Kind     Kind   `json:"kind"`
	Category string `json:"category"`
	URL      string `json:"url"`
}

// SearchResponse is the unified answer of the global search facade.
type SearchResponse struct {
	Query        string                  `json:"query"`
	Results      map[Kind][]SearchResult `json:"results"`
	TotalResults int                     `json:"totalResults"`
	SearchTimeMs int64                   `json:"searchTimeMs"`
}

// SyncStatus is the aggregate outcome of a bulk sync run.
type SyncStatus string

const (
	SyncSuccess        SyncStatus = "SUCCESS"
	SyncPartialSuccess SyncStatus = "PARTIAL_SUCCESS"
)

// SyncReport aggregates a bulk sync across kinds: per-kind indexed counts,
// per-kind error messages, overall status, and wall-clock duration.
type SyncReport struct {
	IndexedCounts map[string]int    `json:"indexedCounts"`
	Errors        map[string]string `json:"errors"`
	Status        SyncStatus        `json:"status"`
	DurationMs    int64             `json:"durationMs"`
}
