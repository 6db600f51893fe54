package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/strrl/moviefinder/pkg/finder"
)

var configPath string

func main() {
	// Load .env file if present (does not override existing env vars)
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:   "moviefinder",
		Short: "Search the film catalog",
		Long:  "Movie Finder searches a film catalog by title or by genre and year, and reports the most frequent searches.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(cmd, nil, func(f *finder.Finder) error {
				return f.Run(cmd.Context())
			})
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file (default: moviefinder.yaml in . or ./config)")

	root.AddCommand(searchCmd())
	root.AddCommand(filterCmd())
	root.AddCommand(topCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
