package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
	"github.com/strrl/moviefinder/pkg/finder"
)

func searchCmd() *cobra.Command {
	var pages int

	cmd := &cobra.Command{
		Use:   "search <keyword>",
		Short: "Search films by a word in the title",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keyword := strings.Join(args, " ")
			return runApp(cmd, batchPager(pages), func(f *finder.Finder) error {
				return f.Guard(cmd.Context(), "search_by_keyword", func(ctx context.Context) error {
					return f.Keyword(ctx, keyword)
				})
			})
		},
	}
	cmd.Flags().IntVar(&pages, "pages", 1, "number of result pages to show (0 = all)")
	return cmd
}
