package main

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/strrl/moviefinder/pkg/catalog"
	"github.com/strrl/moviefinder/pkg/finder"
)

func filterCmd() *cobra.Command {
	var (
		keyword  string
		genres   string
		yearFrom int
		yearTo   int
		pages    int
	)

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Search films by genre, release year and title keyword",
		Example: `  moviefinder filter --genre Action,Comedy --from 2000 --to 2010
  moviefinder filter --keyword alien --pages 0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := catalog.Filter{Keyword: keyword, Genres: catalog.ParseGenres(genres)}
			if cmd.Flags().Changed("from") {
				f.YearFrom = &yearFrom
			}
			if cmd.Flags().Changed("to") {
				f.YearTo = &yearTo
			}
			return runApp(cmd, batchPager(pages), func(fd *finder.Finder) error {
				return fd.Guard(cmd.Context(), "search_by_filters", func(ctx context.Context) error {
					return fd.Filters(ctx, f)
				})
			})
		},
	}
	cmd.Flags().StringVar(&keyword, "keyword", "", "word in the film title")
	cmd.Flags().StringVar(&genres, "genre", "", "comma-separated genre names; a film matches if it has any of them")
	cmd.Flags().IntVar(&yearFrom, "from", 0, "earliest release year (inclusive)")
	cmd.Flags().IntVar(&yearTo, "to", 0, "latest release year (inclusive)")
	cmd.Flags().IntVar(&pages, "pages", 1, "number of result pages to show (0 = all)")
	return cmd
}
