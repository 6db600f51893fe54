package querier

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/strrl/moviefinder/pkg/store"
)

func setupQuerier(t *testing.T) *Querier {
	t.Helper()
	ctx := context.Background()
	s := store.NewDuckDBStore(filepath.Join(t.TempDir(), "usage.duckdb"))

	entries := []struct {
		kind   store.Kind
		params map[string]any
		times  int
	}{
		{store.KindKeyword, map[string]any{"keyword": "matrix"}, 3},
		{store.KindKeyword, map[string]any{"keyword": "alien"}, 5},
		{store.KindKeyword, map[string]any{"keyword": "up"}, 1},
		{store.KindFilters, map[string]any{"keyword": "alien", "genres": []string{"Sci-Fi"}}, 2},
		{store.KindShowTop5, map[string]any{}, 1},
	}
	for _, e := range entries {
		for i := 0; i < e.times; i++ {
			err := s.Insert(ctx, store.Entry{ID: uuid.NewString(), SearchType: e.kind, Params: e.params, ResultsCount: i})
			if err != nil {
				t.Fatalf("Insert: %v", err)
			}
		}
	}
	return NewQuerier(s, zerolog.Nop())
}

func TestTopKeywords(t *testing.T) {
	q := setupQuerier(t)

	got := q.TopKeywords(context.Background(), DefaultTopKeywords)
	want := []store.KeywordCount{{Keyword: "alien", Count: 5}, {Keyword: "matrix", Count: 3}, {Keyword: "up", Count: 1}}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("rank %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestTopQueries(t *testing.T) {
	q := setupQuerier(t)

	got := q.TopQueries(context.Background(), 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	if got[0].SearchType != store.KindKeyword || got[0].Params["keyword"] != "alien" || got[0].Count != 5 {
		t.Errorf("first: got %+v", got[0])
	}
	if got[1].Count != 3 {
		t.Errorf("second: got %+v, want count 3", got[1])
	}
}

func TestNonPositiveLimit(t *testing.T) {
	q := setupQuerier(t)

	if got := q.TopQueries(context.Background(), 0); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
	if got := q.TopKeywords(context.Background(), -1); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestStoreFailureDegradesToEmpty(t *testing.T) {
	var buf bytes.Buffer
	s := store.NewDuckDBStore(filepath.Join(t.TempDir(), "no", "such", "dir", "usage.duckdb"))
	q := NewQuerier(s, zerolog.New(&buf))

	if got := q.TopKeywords(context.Background(), 5); len(got) != 0 {
		t.Errorf("expected empty, got %v", got)
	}
	if got := q.TopQueries(context.Background(), 5); len(got) != 0 {
		t.Errorf("expected empty, got %v", got)
	}
	if !bytes.Contains(buf.Bytes(), []byte("top keywords failed")) || !bytes.Contains(buf.Bytes(), []byte("top queries failed")) {
		t.Errorf("expected failures to be logged, got %s", buf.String())
	}
}
