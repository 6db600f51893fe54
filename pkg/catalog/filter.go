package catalog

import (
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-errors/errors"
	"github.com/go-playground/validator/v10"
)

// Filter narrows a film search. Every field is optional: an empty keyword,
// an empty genre list or a nil year bound puts no constraint on that
// dimension. Year bounds are plain integers; an inverted or unusual range is
// an ordinary search that matches nothing.
type Filter struct {
	Keyword  string   `json:"keyword" validate:"max=1024"`
	Genres   []string `json:"genres" validate:"max=64,dive,min=1,max=256"`
	YearFrom *int     `json:"year_from"`
	YearTo   *int     `json:"year_to"`
}

// ErrInvalidFilter is returned by Validate for any rejected filter.
var ErrInvalidFilter = errors.New("invalid filter")

var (
	filterValidator     *validator.Validate
	filterValidatorOnce sync.Once
)

func getFilterValidator() *validator.Validate {
	filterValidatorOnce.Do(func() {
		filterValidator = validator.New(validator.WithRequiredStructEnabled())
		filterValidator.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			return name
		})
	})
	return filterValidator
}

// Normalize trims the keyword and the genre names, drops empty genre names
// and removes case-insensitive duplicates, keeping the first spelling.
func (f Filter) Normalize() Filter {
	out := Filter{
		Keyword:  strings.TrimSpace(f.Keyword),
		YearFrom: f.YearFrom,
		YearTo:   f.YearTo,
	}
	seen := make(map[string]bool, len(f.Genres))
	for _, g := range f.Genres {
		g = strings.TrimSpace(g)
		key := strings.ToLower(g)
		if g == "" || seen[key] {
			continue
		}
		seen[key] = true
		out.Genres = append(out.Genres, g)
	}
	return out
}

// Validate rejects oversized input only. It never looks at the year bounds.
func (f Filter) Validate() error {
	err := getFilterValidator().Struct(f)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return errors.Errorf("%w: %v", ErrInvalidFilter, err)
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "min", "max":
		return errors.Errorf("%w: length of field '%s' is not in the expected range", ErrInvalidFilter, fe.Field())
	default:
		return errors.Errorf("%w: field '%s' failed %s", ErrInvalidFilter, fe.Field(), fe.Tag())
	}
}

// IsEmpty reports whether no filter is active.
func (f Filter) IsEmpty() bool {
	return f.Keyword == "" && len(f.Genres) == 0 && f.YearFrom == nil && f.YearTo == nil
}

// Params returns the filter as usage-log parameters. Absent fields map to nil.
func (f Filter) Params() map[string]any {
	params := map[string]any{
		"keyword":   nil,
		"genres":    nil,
		"year_from": nil,
		"year_to":   nil,
	}
	if f.Keyword != "" {
		params["keyword"] = f.Keyword
	}
	if len(f.Genres) > 0 {
		params["genres"] = append([]string(nil), f.Genres...)
	}
	if f.YearFrom != nil {
		params["year_from"] = *f.YearFrom
	}
	if f.YearTo != nil {
		params["year_to"] = *f.YearTo
	}
	return params
}

// ParseGenres splits comma-separated genre names. Blank input yields nil.
func ParseGenres(raw string) []string {
	var genres []string
	for _, g := range strings.Split(raw, ",") {
		if g = strings.TrimSpace(g); g != "" {
			genres = append(genres, g)
		}
	}
	return genres
}

// ParseYear parses an optional year. Blank input yields nil.
func ParseYear(raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	y, err := strconv.Atoi(raw)
	if err != nil {
		return nil, errors.Errorf("invalid year %q: %w", raw, err)
	}
	return &y, nil
}
