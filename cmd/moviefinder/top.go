package main

import (
	"context"

	"github.com/go-errors/errors"
	"github.com/spf13/cobra"
	"github.com/strrl/moviefinder/pkg/finder"
)

func topCmd() *cobra.Command {
	var (
		by    string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "top",
		Short: "Show the most frequent searches",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch by {
			case "keyword", "query":
			default:
				return errors.Errorf("unknown --by %q (want keyword or query)", by)
			}
			return runApp(cmd, nil, func(f *finder.Finder) error {
				if by == "keyword" {
					return f.Guard(cmd.Context(), "show_top5", f.ShowTop)
				}
				return f.Guard(cmd.Context(), "show_top_queries", func(ctx context.Context) error {
					return f.ShowTopQueries(ctx, limit)
				})
			})
		},
	}
	cmd.Flags().StringVar(&by, "by", "keyword", "group by keyword (top 5 keyword searches) or query (search type and parameters)")
	cmd.Flags().IntVar(&limit, "limit", 5, "number of entries for --by query")
	return cmd
}
