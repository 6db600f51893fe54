package recorder

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/strrl/moviefinder/pkg/store"
)

// Recorder appends usage entries on a best-effort basis. A failed write is
// logged and reported through the return value, never returned as an error.
type Recorder struct {
	store  store.Store
	logger zerolog.Logger
	newID  func() string
}

// New creates a Recorder writing to s.
func New(s store.Store, logger zerolog.Logger) *Recorder {
	return &Recorder{
		store:  s,
		logger: logger.With().Str("component", "recorder").Logger(),
		newID:  uuid.NewString,
	}
}

// Record appends one entry and reports whether it was stored. The timestamp is
// left for the store to assign.
func (r *Recorder) Record(ctx context.Context, kind store.Kind, params map[string]any, resultsCount int) (ok bool) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error().Interface("panic", p).Str("search_type", string(kind)).Msg("usage log panicked")
			ok = false
		}
	}()

	if params == nil {
		params = map[string]any{}
	}
	entry := store.Entry{
		ID:           r.newID(),
		SearchType:   kind,
		Params:       params,
		ResultsCount: resultsCount,
	}
	if err := r.store.Insert(ctx, entry); err != nil {
		r.logger.Error().Err(err).
			Str("search_type", string(kind)).
			Int("results_count", resultsCount).
			Msg("failed to write usage entry")
		return false
	}
	r.logger.Debug().Str("search_type", string(kind)).Int("results_count", resultsCount).Msg("usage entry written")
	return true
}
