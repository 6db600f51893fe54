package finder

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/go-errors/errors"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/strrl/moviefinder/pkg/catalog"
	"github.com/strrl/moviefinder/pkg/querier"
	"github.com/strrl/moviefinder/pkg/render"
	"github.com/strrl/moviefinder/pkg/store"
)

const (
	msgEmptyQuery = "Empty query. Try again."
	msgUnknown    = "Unknown option. Enter 1, 2, 3 or 0."
	msgBye        = "Bye!"
	msgOops       = "Oops, something went wrong: %s\n"
)

// Catalog serves result pages. Store failures come back as empty pages.
type Catalog interface {
	TitlePage(ctx context.Context, keyword string, offset int) []catalog.Film
	FilterPage(ctx context.Context, f catalog.Filter, offset int) []catalog.GenreFilm
}

// Recorder appends usage entries on a best-effort basis.
type Recorder interface {
	Record(ctx context.Context, kind store.Kind, params map[string]any, resultsCount int) bool
}

// Reporter aggregates the usage log.
type Reporter interface {
	TopQueries(ctx context.Context, n int) []store.QueryCount
	TopKeywords(ctx context.Context, n int) []store.KeywordCount
}

// Finder runs the user-facing actions: searches, reports and the menu loop.
type Finder struct {
	console  *Console
	catalog  Catalog
	recorder Recorder
	reporter Reporter
	logger   zerolog.Logger
	newPager func() Pager
}

// Option configures a Finder.
type Option func(*Finder)

// WithPager replaces the interactive "show more" prompt. newPager is called
// once per search session.
func WithPager(newPager func() Pager) Option {
	return func(f *Finder) { f.newPager = newPager }
}

// New creates a Finder. By default it asks after every page whether to
// continue.
func New(console *Console, c Catalog, r Recorder, q Reporter, logger zerolog.Logger, opts ...Option) *Finder {
	f := &Finder{
		console:  console,
		catalog:  c,
		recorder: r,
		reporter: q,
		logger:   logger.With().Str("component", "finder").Logger(),
	}
	f.newPager = console.InteractivePager
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Run shows the menu until the user exits or input ends. Action failures
// never end the loop.
func (f *Finder) Run(ctx context.Context) error {
	for ctx.Err() == nil {
		f.menu()
		choice, err := f.console.Prompt("Choose an option: ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				f.console.Println(msgBye)
				return nil
			}
			return err
		}

		switch choice {
		case "1":
			err = f.Guard(ctx, "search_by_keyword", f.SearchByKeyword)
		case "2":
			err = f.Guard(ctx, "show_top5", f.ShowTop)
		case "3":
			err = f.Guard(ctx, "search_by_filters", f.SearchByFilters)
		case "0":
			f.console.Println(msgBye)
			return nil
		default:
			f.console.Println(msgUnknown)
		}
		if errors.Is(err, io.EOF) {
			f.console.Println(msgBye)
			return nil
		}
	}
	return nil
}

func (f *Finder) menu() {
	f.console.Println()
	f.console.Println("*** Movie Finder ***")
	f.console.Println("(1) Search by title keyword")
	f.console.Println("(2) Show top 5 keywords")
	f.console.Println("(3) Search by genre/year")
	f.console.Println("(0) Exit")
}

// Guard runs one action. A returned error or a panic is shown to the user as
// an apology, recorded as an error entry and logged with its stack trace.
// Only io.EOF passes through, so the caller can stop reading input.
func (f *Finder) Guard(ctx context.Context, where string, action func(ctx context.Context) error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = errors.Wrap(p, 2)
		}
		if err == nil || errors.Is(err, io.EOF) {
			return
		}
		f.fail(ctx, where, err)
		err = nil
	}()
	return action(ctx)
}

func (f *Finder) fail(ctx context.Context, where string, err error) {
	_, _ = fmt.Fprintf(f.console.Out(), msgOops, err.Error())

	f.recorder.Record(ctx, store.KindError, map[string]any{"where": where, "error": err.Error()}, 0)

	stack := ""
	var withStack *errors.Error
	if errors.As(err, &withStack) {
		stack = withStack.ErrorStack()
	}
	f.logger.Error().Err(err).Str("where", where).Str("stack", stack).Msg("action failed")
}

// SearchByKeyword prompts for a title keyword and runs the keyword search.
func (f *Finder) SearchByKeyword(ctx context.Context) error {
	keyword, err := f.console.Prompt("Enter a word from the film title: ")
	if err != nil {
		return err
	}
	return f.Keyword(ctx, keyword)
}

// Keyword runs one keyword search session and logs it once. An empty keyword
// is rejected without touching the catalog or the usage log.
func (f *Finder) Keyword(ctx context.Context, keyword string) error {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		f.console.Println(msgEmptyQuery)
		return nil
	}

	session, err := Paginate(ctx,
		func(ctx context.Context, offset int) []catalog.Film {
			return f.catalog.TitlePage(ctx, keyword, offset)
		},
		func(page []catalog.Film) error { return render.Table(f.console.Out(), page) },
		f.newPager(),
	)
	if err != nil {
		return err
	}
	if session.Pages == 0 {
		f.console.Println(render.NothingFound)
	}
	f.recorder.Record(ctx, store.KindKeyword, map[string]any{"keyword": keyword}, session.Total)
	return nil
}

// SearchByFilters prompts for the filter fields and runs the filtered search.
// An empty answer skips that field.
func (f *Finder) SearchByFilters(ctx context.Context) error {
	f.console.Println()
	f.console.Println("=== Search by genre/year ===")

	keyword, err := f.console.Prompt("Keyword (ENTER to skip): ")
	if err != nil {
		return err
	}
	genres, err := f.console.Prompt("Genres, comma-separated, e.g. Action,Comedy (ENTER to skip): ")
	if err != nil {
		return err
	}
	rawFrom, err := f.console.Prompt("Year from (ENTER to skip): ")
	if err != nil {
		return err
	}
	rawTo, err := f.console.Prompt("Year to (ENTER to skip): ")
	if err != nil {
		return err
	}

	filter := catalog.Filter{Keyword: keyword, Genres: catalog.ParseGenres(genres)}
	if filter.YearFrom, err = catalog.ParseYear(rawFrom); err != nil {
		return err
	}
	if filter.YearTo, err = catalog.ParseYear(rawTo); err != nil {
		return err
	}
	return f.Filters(ctx, filter)
}

// Filters runs one filtered search session and logs it once.
func (f *Finder) Filters(ctx context.Context, filter catalog.Filter) error {
	filter = filter.Normalize()
	if err := filter.Validate(); err != nil {
		return err
	}

	session, err := Paginate(ctx,
		func(ctx context.Context, offset int) []catalog.GenreFilm {
			return f.catalog.FilterPage(ctx, filter, offset)
		},
		func(page []catalog.GenreFilm) error { return render.Table(f.console.Out(), page) },
		f.newPager(),
	)
	if err != nil {
		return err
	}
	if session.Pages == 0 {
		f.console.Println(render.NothingFound)
	}
	f.recorder.Record(ctx, store.KindFilters, filter.Params(), session.Total)
	return nil
}

// ShowTop prints the most frequent search keywords and logs the view.
func (f *Finder) ShowTop(ctx context.Context) error {
	top := f.reporter.TopKeywords(ctx, querier.DefaultTopKeywords)
	if len(top) == 0 {
		f.console.Println(render.NoStatistics)
		return nil
	}

	items := make([]render.Ranked, 0, len(top))
	for _, kc := range top {
		items = append(items, render.Ranked{Label: kc.Keyword, Count: kc.Count})
	}
	f.console.Println()
	if err := render.Ranking(f.console.Out(), fmt.Sprintf("*** Top %d keywords ***", querier.DefaultTopKeywords), items); err != nil {
		return err
	}
	f.recorder.Record(ctx, store.KindShowTop5, map[string]any{}, len(top))
	return nil
}

// ShowTopQueries prints the n most frequent (search type, params)
// combinations. It only reads the usage log.
func (f *Finder) ShowTopQueries(ctx context.Context, n int) error {
	top := f.reporter.TopQueries(ctx, n)
	if len(top) == 0 {
		f.console.Println(render.NoStatistics)
		return nil
	}

	items := make([]render.Ranked, 0, len(top))
	for _, qc := range top {
		params, err := json.Marshal(qc.Params)
		if err != nil {
			return errors.Errorf("encode params: %w", err)
		}
		items = append(items, render.Ranked{Label: string(qc.SearchType) + " " + string(params), Count: qc.Count})
	}
	return render.Ranking(f.console.Out(), fmt.Sprintf("*** Top %d queries ***", n), items)
}
