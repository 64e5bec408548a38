package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobfacts/internal/adapter"
	"github.com/amishk599/jobfacts/internal/enrich"
	"github.com/amishk599/jobfacts/internal/sink"
)

var enrichWorkers int

var enrichCmd = &cobra.Command{
	Use:   "enrich FILE",
	Short: "Enrich a YAML or JSON posting file and print JSON lines",
	Long: "Reads postings from FILE (a list, or a mapping with a `postings` key), enriches each\n" +
		"one and writes the views to stdout as JSON lines in input order. Needs no config.",
	Args: cobra.ExactArgs(1),
	RunE: runEnrich,
}

func init() {
	enrichCmd.Flags().IntVarP(&enrichWorkers, "workers", "w", 4, "number of enrichment workers")
	rootCmd.AddCommand(enrichCmd)
}

func runEnrich(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	postings, err := adapter.NewFileAdapter(args[0], "").FetchPostings(ctx)
	if err != nil {
		logger.Error("failed to read postings", "file", args[0], "error", err)
		os.Exit(1)
	}

	views, err := enrich.All(ctx, postings, enrichWorkers)
	if err != nil {
		logger.Error("enrichment interrupted", "error", err)
		os.Exit(1)
	}

	enrichedAt := time.Now().UTC()
	for i := range views {
		views[i].EnrichedAt = enrichedAt
	}

	if err := sink.NewJSONLinesSink(os.Stdout).Emit(views); err != nil {
		logger.Error("failed to write views", "error", err)
		os.Exit(1)
	}
	logger.Debug("enriched postings", "file", args[0], "count", len(views))
	return nil
}
