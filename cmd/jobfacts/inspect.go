package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobfacts/internal/enrich"
	"github.com/amishk599/jobfacts/internal/inspect"
	"github.com/amishk599/jobfacts/internal/model"
	"github.com/amishk599/jobfacts/internal/ratelimit"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Browse enriched postings interactively (TUI)",
	Long:  "Shows the board picker, then a split-pane browser of all and matched views.",
	RunE:  runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Any log output while the TUI owns the terminal corrupts the display.
	silent := slog.New(slog.NewTextHandler(io.Discard, nil))

	boards := cfg.EnabledBoards()
	if len(boards) == 0 {
		fmt.Println("No enabled boards in config.")
		return nil
	}

	httpClient := newHTTPClient(cfg)
	limiter := ratelimit.NewATSRateLimiter(cfg.RateLimit.MinDelay, cfg.RateLimit.ATSOverrides)
	viewFilter := setupFilter(cfg)

	for {
		choice, err := inspect.RunBoardPicker(boards)
		if err != nil {
			fmt.Printf("Picker error: %v\n", err)
			return nil
		}
		if choice < 0 {
			return nil
		}
		board := boards[choice]

		fetcher, err := createFetcher(board, httpClient)
		if err != nil {
			fmt.Printf("Cannot inspect %s: %v\n", board.Name, err)
			continue
		}
		fetcher = wrapFetcher(fetcher, board, cfg, limiter, silent)

		views, err := inspect.RunLoader(board.Name, loadViews(fetcher, cfg.Workers))
		if err != nil {
			fmt.Printf("Error loading postings: %v\n", err)
			continue
		}

		var matched []model.PostingView
		for _, v := range views {
			if viewFilter.Match(v) {
				matched = append(matched, v)
			}
		}

		wantQuit, err := inspect.RunBrowser(views, matched)
		if err != nil {
			fmt.Printf("TUI error: %v\n", err)
		}
		if wantQuit {
			return nil
		}
	}
}

func loadViews(fetcher model.PostingFetcher, workers int) inspect.LoadFunc {
	return func(ctx context.Context) ([]model.PostingView, error) {
		postings, err := fetcher.FetchPostings(ctx)
		if err != nil {
			return nil, err
		}
		views, err := enrich.All(ctx, postings, workers)
		if err != nil {
			return nil, err
		}
		now := time.Now().UTC()
		for i := range views {
			views[i].EnrichedAt = now
		}
		return views, nil
	}
}
