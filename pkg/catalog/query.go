package catalog

import (
	"strings"
)

// PageSize is the number of rows one page query returns. The page loop
// advances its offset by the same constant.
const PageSize = 10

// Dialect selects the SQL flavour and the database/sql driver name.
type Dialect string

const (
	DialectMySQL  Dialect = "mysql"
	DialectDuckDB Dialect = "duckdb"
)

// likeEscape is the escape character declared in every LIKE clause.
const likeEscape = "!"

// Query is a SQL statement with its positional arguments.
type Query struct {
	SQL  string
	Args []any
}

// BuildTitleQuery returns the keyword search page starting at offset.
func BuildTitleQuery(keyword string, offset int) Query {
	return Query{
		SQL: `SELECT f.film_id, f.title, f.release_year, f.rating
FROM film AS f
WHERE LOWER(f.title) LIKE ? ESCAPE '` + likeEscape + `'
ORDER BY f.title, f.film_id
LIMIT ? OFFSET ?`,
		Args: []any{likePattern(keyword), PageSize, offset},
	}
}

// BuildFilterQuery returns the filtered search page starting at offset.
// Each active filter adds one AND-ed predicate with bound arguments; genres
// match through EXISTS so a film qualifies when any of its genres is listed,
// while the outer LEFT JOIN still aggregates all of its genre names.
func BuildFilterQuery(d Dialect, f Filter, offset int) Query {
	var conditions []string
	var args []any

	if f.Keyword != "" {
		conditions = append(conditions, "LOWER(f.title) LIKE ? ESCAPE '"+likeEscape+"'")
		args = append(args, likePattern(f.Keyword))
	}
	if f.YearFrom != nil {
		conditions = append(conditions, "f.release_year >= ?")
		args = append(args, *f.YearFrom)
	}
	if f.YearTo != nil {
		conditions = append(conditions, "f.release_year <= ?")
		args = append(args, *f.YearTo)
	}
	if len(f.Genres) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(f.Genres)), ", ")
		conditions = append(conditions, `EXISTS (
	SELECT 1
	FROM film_category fc2
	JOIN category c2 ON c2.category_id = fc2.category_id
	WHERE fc2.film_id = f.film_id
	  AND LOWER(c2.name) IN (`+placeholders+`)
)`)
		for _, g := range f.Genres {
			args = append(args, strings.ToLower(g))
		}
	}

	var b strings.Builder
	b.WriteString("SELECT f.film_id, f.title, f.release_year, ")
	b.WriteString("COALESCE(" + genreAggregate(d) + ", '" + NoGenres + "') AS genres\n")
	b.WriteString("FROM film AS f\n")
	b.WriteString("LEFT JOIN film_category fc ON fc.film_id = f.film_id\n")
	b.WriteString("LEFT JOIN category c ON c.category_id = fc.category_id\n")
	if len(conditions) > 0 {
		b.WriteString("WHERE " + strings.Join(conditions, "\n  AND ") + "\n")
	}
	b.WriteString("GROUP BY f.film_id, f.title, f.release_year\n")
	b.WriteString("ORDER BY f.title, f.film_id\n")
	b.WriteString("LIMIT ? OFFSET ?")
	args = append(args, PageSize, offset)

	return Query{SQL: b.String(), Args: args}
}

func genreAggregate(d Dialect) string {
	if d == DialectDuckDB {
		return "string_agg(DISTINCT c.name, ', ' ORDER BY c.name)"
	}
	return "GROUP_CONCAT(DISTINCT c.name ORDER BY c.name SEPARATOR ', ')"
}

// likePattern lower-cases s, escapes LIKE metacharacters and wraps it for a
// substring match.
func likePattern(s string) string {
	r := strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")
	return "%" + r.Replace(strings.ToLower(s)) + "%"
}
