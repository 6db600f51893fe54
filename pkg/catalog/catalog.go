package catalog

import (
	"context"
	"database/sql"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/go-errors/errors"
	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/strrl/moviefinder/pkg/catalog")

// Config selects the catalog database.
type Config struct {
	Driver Dialect
	DSN    string
}

// Catalog runs page queries against the film catalog. Each call opens its
// own connection and closes it before returning; nothing is pooled or shared
// between calls.
type Catalog struct {
	cfg    Config
	logger zerolog.Logger
}

// New creates a Catalog for the given database.
func New(cfg Config, logger zerolog.Logger) *Catalog {
	return &Catalog{cfg: cfg, logger: logger.With().Str("component", "catalog").Logger()}
}

// TitlePage returns the keyword search page at offset. Store failures are
// logged and reported as an empty page.
func (c *Catalog) TitlePage(ctx context.Context, keyword string, offset int) []Film {
	films, err := c.SearchByTitle(ctx, keyword, offset)
	if err != nil {
		c.logger.Error().Err(err).Str("keyword", keyword).Int("offset", offset).Msg("title search failed")
		return nil
	}
	return films
}

// FilterPage returns the filtered search page at offset. Store failures are
// logged and reported as an empty page.
func (c *Catalog) FilterPage(ctx context.Context, f Filter, offset int) []GenreFilm {
	films, err := c.SearchByFilters(ctx, f, offset)
	if err != nil {
		c.logger.Error().Err(err).Interface("filter", f.Params()).Int("offset", offset).Msg("filtered search failed")
		return nil
	}
	return films
}

// SearchByTitle returns films whose title contains keyword, case-insensitively.
func (c *Catalog) SearchByTitle(ctx context.Context, keyword string, offset int) (films []Film, err error) {
	ctx, span := c.startSpan(ctx, "catalog.SearchByTitle", offset)
	defer func() { endSpan(span, len(films), err) }()

	q := BuildTitleQuery(keyword, offset)
	err = c.withDB(func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx, q.SQL, q.Args...)
		if err != nil {
			return errors.Errorf("query films by title: %w", err)
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			var f Film
			var year sql.NullInt64
			var rating sql.NullString
			if err := rows.Scan(&f.FilmID, &f.Title, &year, &rating); err != nil {
				return errors.Errorf("scan film: %w", err)
			}
			f.ReleaseYear = nullYear(year)
			f.Rating = rating.String
			films = append(films, f)
		}
		if err := rows.Err(); err != nil {
			return errors.Errorf("rows err: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return films, nil
}

// SearchByFilters returns films matching every active predicate of f.
func (c *Catalog) SearchByFilters(ctx context.Context, f Filter, offset int) (films []GenreFilm, err error) {
	ctx, span := c.startSpan(ctx, "catalog.SearchByFilters", offset)
	defer func() { endSpan(span, len(films), err) }()

	q := BuildFilterQuery(c.cfg.Driver, f, offset)
	err = c.withDB(func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx, q.SQL, q.Args...)
		if err != nil {
			return errors.Errorf("query films by filters: %w", err)
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			var g GenreFilm
			var year sql.NullInt64
			if err := rows.Scan(&g.FilmID, &g.Title, &year, &g.Genres); err != nil {
				return errors.Errorf("scan film: %w", err)
			}
			g.ReleaseYear = nullYear(year)
			films = append(films, g)
		}
		if err := rows.Err(); err != nil {
			return errors.Errorf("rows err: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return films, nil
}

func (c *Catalog) withDB(fn func(db *sql.DB) error) error {
	db, err := sql.Open(string(c.cfg.Driver), c.cfg.DSN)
	if err != nil {
		return errors.Errorf("open %s: %w", c.cfg.Driver, err)
	}
	defer func() { _ = db.Close() }()
	db.SetMaxOpenConns(1)
	return fn(db)
}

func (c *Catalog) startSpan(ctx context.Context, name string, offset int) (context.Context, trace.Span) {
	return tracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", string(c.cfg.Driver)),
			attribute.Int("catalog.offset", offset),
		),
	)
}

func endSpan(span trace.Span, rows int, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetAttributes(attribute.Int("catalog.rows", rows))
	}
	span.End()
}

func nullYear(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	y := int(v.Int64)
	return &y
}
