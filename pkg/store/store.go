package store

import (
	"context"
	"time"
)

// Kind is the action a usage entry records.
type Kind string

const (
	KindKeyword  Kind = "keyword"
	KindFilters  Kind = "filters"
	KindShowTop5 Kind = "show_top5"
	KindError    Kind = "error"
)

// Entry is one usage-log record. Entries are append-only.
type Entry struct {
	ID           string
	Timestamp    time.Time
	SearchType   Kind
	Params       map[string]any
	ResultsCount int
}

// QueryCount is how often a distinct (kind, params) combination was logged.
type QueryCount struct {
	SearchType Kind
	Params     map[string]any
	Count      int
}

// KeywordCount is how often a keyword search for Keyword was logged.
type KeywordCount struct {
	Keyword string
	Count   int
}

// Store persists usage entries and aggregates them. The aggregations only read.
type Store interface {
	// Insert appends one entry.
	Insert(ctx context.Context, entry Entry) error
	// TopQueries returns the most frequent (kind, params) combinations,
	// most frequent first.
	TopQueries(ctx context.Context, limit int) ([]QueryCount, error)
	// TopKeywords returns the most frequent keyword-search keywords,
	// most frequent first.
	TopKeywords(ctx context.Context, limit int) ([]KeywordCount, error)
}
