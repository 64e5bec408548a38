package model

import (
	"context"
	"time"
)

// Posting is a raw posting record as delivered by a source. Description and
// Location are left exactly as scraped; the enrich pipeline does all cleanup.
type Posting struct {
	ID          string     // unique per source
	Company     string     // company name
	Title       string     // job title
	Location    string     // raw location field
	URL         string     // posting link
	Description string     // raw description, may contain HTML and entities
	Source      string     // source name (greenhouse, lever, file, ...)
	PostedAt    *time.Time // nullable (not all sources provide this)
}

// PostingView is the flat view object produced for a posting. Salary and
// Location are the normalized facts; Keywords is never nil.
type PostingView struct {
	ID          string     `json:"id"`
	Company     string     `json:"company"`
	Title       string     `json:"title"`
	URL         string     `json:"url"`
	Source      string     `json:"source"`
	PostedAt    *time.Time `json:"posted_at,omitempty"`
	Description string     `json:"description"`
	Salary      string     `json:"salary"`
	Location    string     `json:"location"`
	Keywords    []string   `json:"keywords"`
	EnrichedAt  time.Time  `json:"enriched_at"`
}

// Key identifies a view across sources.
func (v PostingView) Key() string {
	return v.Source + ":" + v.ID
}

// PostingFetcher fetches raw postings from a source (e.g. Greenhouse).
type PostingFetcher interface {
	FetchPostings(ctx context.Context) ([]Posting, error)
}

// ViewStore persists enriched views and tracks which ones were already emitted.
type ViewStore interface {
	HasSeen(key string) (bool, error)
	Save(view PostingView) error
	List(limit int) ([]PostingView, error)
	Cleanup(olderThan time.Duration) error
	Close() error
}

// Sink receives newly enriched views.
type Sink interface {
	Emit(views []PostingView) error
}

// ViewFilter decides whether an enriched view matches the user's criteria.
type ViewFilter interface {
	Match(view PostingView) bool
}
