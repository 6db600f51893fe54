package store

import (
	"context"
	"database/sql"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/go-errors/errors"
	"github.com/goccy/go-json"
)

// DuckDBStore implements Store on a local DuckDB file. Like the catalog, it
// opens the database for each call and closes it before returning.
type DuckDBStore struct {
	dsn string
}

var _ Store = (*DuckDBStore)(nil)

// NewDuckDBStore creates a DuckDB-backed usage log at the given file path.
func NewDuckDBStore(dsn string) *DuckDBStore {
	return &DuckDBStore{dsn: dsn}
}

func (s *DuckDBStore) withDB(ctx context.Context, fn func(db *sql.DB) error) error {
	db, err := sql.Open("duckdb", s.dsn)
	if err != nil {
		return errors.Errorf("open duckdb: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := initSchema(ctx, db); err != nil {
		return err
	}
	return fn(db)
}

// initSchema creates the usage_log table if it does not exist. Timestamps
// default to the database clock.
func initSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS usage_log (
			id VARCHAR PRIMARY KEY,
			timestamp TIMESTAMP DEFAULT current_timestamp,
			search_type VARCHAR NOT NULL,
			params VARCHAR NOT NULL,
			keyword VARCHAR,
			results_count INTEGER NOT NULL
		)
	`)
	if err != nil {
		return errors.Errorf("create usage_log table: %w", err)
	}
	return nil
}

// Insert stores a single usage entry. Params are stored as JSON with sorted
// keys so equal parameter sets compare equal in GROUP BY.
func (s *DuckDBStore) Insert(ctx context.Context, entry Entry) (err error) {
	ctx, span := startSpan(ctx, "store.duckdb.Insert", "duckdb")
	defer func() { endSpan(span, err) }()

	params, err := encodeParams(entry.Params)
	if err != nil {
		return err
	}
	var keyword sql.NullString
	if kw, ok := entry.Params["keyword"].(string); ok {
		keyword = sql.NullString{String: kw, Valid: true}
	}

	return s.withDB(ctx, func(db *sql.DB) error {
		var err error
		if entry.Timestamp.IsZero() {
			_, err = db.ExecContext(ctx,
				`INSERT INTO usage_log (id, search_type, params, keyword, results_count)
				 VALUES (?, ?, ?, ?, ?)`,
				entry.ID, string(entry.SearchType), params, keyword, entry.ResultsCount,
			)
		} else {
			_, err = db.ExecContext(ctx,
				`INSERT INTO usage_log (id, timestamp, search_type, params, keyword, results_count)
				 VALUES (?, ?, ?, ?, ?, ?)`,
				entry.ID, entry.Timestamp, string(entry.SearchType), params, keyword, entry.ResultsCount,
			)
		}
		if err != nil {
			return errors.Errorf("insert usage entry: %w", err)
		}
		return nil
	})
}

// TopQueries groups entries by search type and parameter set.
func (s *DuckDBStore) TopQueries(ctx context.Context, limit int) (counts []QueryCount, err error) {
	ctx, span := startSpan(ctx, "store.duckdb.TopQueries", "duckdb")
	defer func() { endSpan(span, err) }()

	err = s.withDB(ctx, func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx,
			`SELECT search_type, params, COUNT(*) AS cnt
			 FROM usage_log
			 GROUP BY search_type, params
			 ORDER BY cnt DESC, search_type, params
			 LIMIT ?`,
			limit,
		)
		if err != nil {
			return errors.Errorf("top queries: %w", err)
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			var qc QueryCount
			var kind, raw string
			if err := rows.Scan(&kind, &raw, &qc.Count); err != nil {
				return errors.Errorf("scan top query: %w", err)
			}
			qc.SearchType = Kind(kind)
			if qc.Params, err = decodeParams(raw); err != nil {
				return err
			}
			counts = append(counts, qc)
		}
		if err := rows.Err(); err != nil {
			return errors.Errorf("rows err: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// TopKeywords groups keyword-search entries by keyword alone.
func (s *DuckDBStore) TopKeywords(ctx context.Context, limit int) (counts []KeywordCount, err error) {
	ctx, span := startSpan(ctx, "store.duckdb.TopKeywords", "duckdb")
	defer func() { endSpan(span, err) }()

	err = s.withDB(ctx, func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx,
			`SELECT COALESCE(keyword, ''), COUNT(*) AS cnt
			 FROM usage_log
			 WHERE search_type = ?
			 GROUP BY keyword
			 ORDER BY cnt DESC, keyword
			 LIMIT ?`,
			string(KindKeyword), limit,
		)
		if err != nil {
			return errors.Errorf("top keywords: %w", err)
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			var kc KeywordCount
			if err := rows.Scan(&kc.Keyword, &kc.Count); err != nil {
				return errors.Errorf("scan top keyword: %w", err)
			}
			counts = append(counts, kc)
		}
		if err := rows.Err(); err != nil {
			return errors.Errorf("rows err: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}

func encodeParams(params map[string]any) (string, error) {
	if params == nil {
		params = map[string]any{}
	}
	b, err := json.Marshal(params)
	if err != nil {
		return "", errors.Errorf("encode params: %w", err)
	}
	return string(b), nil
}

func decodeParams(raw string) (map[string]any, error) {
	params := map[string]any{}
	if err := json.Unmarshal([]byte(raw), &params); err != nil {
		return nil, errors.Errorf("decode params: %w", err)
	}
	return params, nil
}
