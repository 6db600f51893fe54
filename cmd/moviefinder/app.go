package main

import (
	"os"

	"github.com/go-errors/errors"
	"github.com/spf13/cobra"
	"github.com/strrl/moviefinder/pkg/catalog"
	"github.com/strrl/moviefinder/pkg/config"
	"github.com/strrl/moviefinder/pkg/finder"
	"github.com/strrl/moviefinder/pkg/logging"
	"github.com/strrl/moviefinder/pkg/querier"
	"github.com/strrl/moviefinder/pkg/recorder"
	"github.com/strrl/moviefinder/pkg/tracing"
)

// runApp wires the catalog, usage log and finder from configuration and
// calls fn. A nil newPager keeps the interactive "show more" prompt.
func runApp(cmd *cobra.Command, newPager func() finder.Pager, fn func(f *finder.Finder) error) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return errors.Errorf("config: %w", err)
	}

	logger, closeLog, err := logging.New(cfg.Log, os.Stderr)
	if err != nil {
		return errors.Errorf("logging: %w", err)
	}
	defer func() { _ = closeLog() }()

	shutdown := tracing.Init(cmd.Context(), logger)
	defer shutdown()

	usage := cfg.UsageStore()
	var opts []finder.Option
	if newPager != nil {
		opts = append(opts, finder.WithPager(newPager))
	}
	f := finder.New(
		finder.NewConsole(cmd.InOrStdin(), cmd.OutOrStdout()),
		catalog.New(cfg.CatalogConfig(), logger),
		recorder.New(usage, logger),
		querier.NewQuerier(usage, logger),
		logger,
		opts...,
	)
	logger.Debug().
		Str("catalog", cfg.Catalog.Driver).
		Str("usage_log", cfg.UsageLog.Backend).
		Msg("movie finder ready")

	return fn(f)
}

func batchPager(pages int) func() finder.Pager {
	return func() finder.Pager { return finder.BatchPager(pages) }
}
