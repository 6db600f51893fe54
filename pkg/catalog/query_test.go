package catalog

import (
	"fmt"
	"strings"
	"testing"
)

func TestBuildFilterQueryPredicates(t *testing.T) {
	tests := []struct {
		name     string
		filter   Filter
		wantSQL  []string
		notSQL   []string
		wantArgs []any
	}{
		{
			name:     "no predicates",
			filter:   Filter{},
			notSQL:   []string{"WHERE", "EXISTS", "1=1"},
			wantArgs: []any{PageSize, 0},
		},
		{
			name:     "keyword only",
			filter:   Filter{Keyword: "Matrix"},
			wantSQL:  []string{"WHERE LOWER(f.title) LIKE ? ESCAPE '!'"},
			notSQL:   []string{"EXISTS"},
			wantArgs: []any{"%matrix%", PageSize, 0},
		},
		{
			name:     "year bounds",
			filter:   Filter{YearFrom: intPtr(2000), YearTo: intPtr(2010)},
			wantSQL:  []string{"f.release_year >= ?", "AND f.release_year <= ?"},
			wantArgs: []any{2000, 2010, PageSize, 0},
		},
		{
			name:     "genres only",
			filter:   Filter{Genres: []string{"Action", "Comedy"}},
			wantSQL:  []string{"WHERE EXISTS (", "LOWER(c2.name) IN (?, ?)"},
			wantArgs: []any{"action", "comedy", PageSize, 0},
		},
		{
			name: "all predicates",
			filter: Filter{
				Keyword:  "a",
				Genres:   []string{"Drama"},
				YearFrom: intPtr(1990),
				YearTo:   intPtr(1999),
			},
			wantSQL:  []string{"LIKE ?", ">= ?", "<= ?", "IN (?)"},
			wantArgs: []any{"%a%", 1990, 1999, "drama", PageSize, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := BuildFilterQuery(DialectMySQL, tt.filter, 0)
			for _, s := range tt.wantSQL {
				if !strings.Contains(q.SQL, s) {
					t.Errorf("SQL missing %q:\n%s", s, q.SQL)
				}
			}
			for _, s := range tt.notSQL {
				if strings.Contains(q.SQL, s) {
					t.Errorf("SQL should not contain %q:\n%s", s, q.SQL)
				}
			}
			if fmt.Sprint(q.Args) != fmt.Sprint(tt.wantArgs) {
				t.Errorf("args: got %v, want %v", q.Args, tt.wantArgs)
			}
			if got := strings.Count(q.SQL, "?"); got != len(q.Args) {
				t.Errorf("placeholder count %d does not match %d args", got, len(q.Args))
			}
		})
	}
}

func TestBuildFilterQueryNeverInlinesInput(t *testing.T) {
	hostile := "x'; DROP TABLE film; --"
	q := BuildFilterQuery(DialectMySQL, Filter{Keyword: hostile, Genres: []string{hostile}}, 0)
	if strings.Contains(q.SQL, "DROP TABLE") {
		t.Fatalf("user input leaked into SQL:\n%s", q.SQL)
	}
}

func TestBuildFilterQueryDialects(t *testing.T) {
	mysql := BuildFilterQuery(DialectMySQL, Filter{}, 20)
	if !strings.Contains(mysql.SQL, "GROUP_CONCAT(DISTINCT c.name ORDER BY c.name SEPARATOR ', ')") {
		t.Errorf("mysql aggregate missing:\n%s", mysql.SQL)
	}
	duck := BuildFilterQuery(DialectDuckDB, Filter{}, 20)
	if !strings.Contains(duck.SQL, "string_agg(DISTINCT c.name, ', ' ORDER BY c.name)") {
		t.Errorf("duckdb aggregate missing:\n%s", duck.SQL)
	}
	for _, q := range []Query{mysql, duck} {
		if !strings.Contains(q.SQL, "GROUP BY f.film_id") || !strings.Contains(q.SQL, "ORDER BY f.title") {
			t.Errorf("query must group by film and order by title:\n%s", q.SQL)
		}
		if q.Args[len(q.Args)-2] != PageSize || q.Args[len(q.Args)-1] != 20 {
			t.Errorf("limit/offset args: got %v", q.Args)
		}
	}
}

func TestBuildTitleQuery(t *testing.T) {
	q := BuildTitleQuery("Alien", 30)
	want := []any{"%alien%", PageSize, 30}
	if fmt.Sprint(q.Args) != fmt.Sprint(want) {
		t.Errorf("args: got %v, want %v", q.Args, want)
	}
}

func TestLikePattern(t *testing.T) {
	tests := map[string]string{
		"matrix": "%matrix%",
		"MATRIX": "%matrix%",
		"100%":   "%100!%%",
		"a_b":    "%a!_b%",
		"wow!":   "%wow!!%",
		"":       "%%",
	}
	for in, want := range tests {
		if got := likePattern(in); got != want {
			t.Errorf("likePattern(%q) = %q, want %q", in, got, want)
		}
	}
}
