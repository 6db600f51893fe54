package querier

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/strrl/moviefinder/pkg/store"
)

// DefaultTopKeywords is the size of the keyword report.
const DefaultTopKeywords = 5

// Querier provides the read-side reports over the usage log. Store failures
// are logged and reported as empty results.
type Querier struct {
	store  store.Store
	logger zerolog.Logger
}

// NewQuerier creates a new Querier backed by the given store.
func NewQuerier(s store.Store, logger zerolog.Logger) *Querier {
	return &Querier{store: s, logger: logger.With().Str("component", "querier").Logger()}
}

// TopQueries returns the n most frequent (search type, params) combinations.
func (q *Querier) TopQueries(ctx context.Context, n int) []store.QueryCount {
	if n <= 0 {
		return nil
	}
	counts, err := q.store.TopQueries(ctx, n)
	if err != nil {
		q.logger.Error().Err(err).Int("limit", n).Msg("top queries failed")
		return nil
	}
	return counts
}

// TopKeywords returns the n most frequent keyword-search keywords.
func (q *Querier) TopKeywords(ctx context.Context, n int) []store.KeywordCount {
	if n <= 0 {
		return nil
	}
	counts, err := q.store.TopKeywords(ctx, n)
	if err != nil {
		q.logger.Error().Err(err).Int("limit", n).Msg("top keywords failed")
		return nil
	}
	return counts
}
