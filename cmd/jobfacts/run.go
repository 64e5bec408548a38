package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobfacts/internal/model"
	"github.com/amishk599/jobfacts/internal/runner"
	"github.com/amishk599/jobfacts/internal/store"
)

var (
	dryRun bool
	every  time.Duration
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch, enrich and emit postings from every enabled board",
	Long: "Runs every enabled board once: fetch, enrich, filter, skip views already stored,\n" +
		"emit the rest to the configured output and store them. With --every the run repeats\n" +
		"until SIGINT/SIGTERM.",
	RunE: runRun,
}

func init() {
	addRunFlags(runCmd)
	rootCmd.AddCommand(runCmd)
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "do not read or write the view store")
	cmd.Flags().DurationVar(&every, "every", 0, "repeat the run on this interval (0 runs once)")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		setupLogger(debug, os.Stderr).Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := setupLogger(debug, logWriter(cfg.Output))

	logger.Info("config loaded",
		"boards", len(cfg.EnabledBoards()),
		"workers", cfg.Workers,
		"output", cfg.Output,
		"keywords", len(cfg.Filters.Keywords),
		"locations", len(cfg.Filters.Locations),
		"require_salary", cfg.Filters.RequireSalary,
	)

	var viewStore model.ViewStore
	if dryRun {
		logger.Info("dry-run mode enabled, nothing will be stored")
		viewStore = store.NewNopStore()
	} else {
		sqlStore, err := store.NewSQLiteStore(cfg.Store.Path)
		if err != nil {
			logger.Error("failed to open store", "path", cfg.Store.Path, "error", err)
			os.Exit(1)
		}
		defer sqlStore.Close()
		viewStore = sqlStore

		if cfg.Store.Retention > 0 {
			if err := viewStore.Cleanup(cfg.Store.Retention); err != nil {
				logger.Warn("store cleanup failed", "error", err)
			}
		}
	}

	httpClient := newHTTPClient(cfg)
	runners := buildRunners(cfg, setupFilter(cfg), viewStore, setupSink(cfg, httpClient, logger), httpClient, logger)
	if len(runners) == 0 {
		logger.Error("no boards to run")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if every > 0 {
		if err := runner.Every(ctx, every, runners, logger); err != nil {
			logger.Error("scheduler error", "error", err)
			os.Exit(1)
		}
		logger.Info("goodbye")
		return nil
	}

	if failed := runner.RunAll(ctx, runners, logger); failed == len(runners) {
		logger.Error("every board failed", "boards", failed)
		os.Exit(1)
	}
	logger.Info("run complete")
	return nil
}
