package runner

import (
	"context"
	"log/slog"
	"time"
)

// boardPause is the pause between consecutive boards in one cycle.
var boardPause = time.Second

// RunAll runs every board once, in order. A failing board is logged and does
// not stop the others. It returns the number of boards that failed.
func RunAll(ctx context.Context, runners []*BoardRunner, logger *slog.Logger) int {
	failed := 0
	for i, r := range runners {
		if ctx.Err() != nil {
			return failed
		}

		if err := r.Run(ctx); err != nil {
			logger.Error("board failed",
				"board", r.Name,
				"error", err,
			)
			failed++
		}

		if i < len(runners)-1 {
			select {
			case <-ctx.Done():
				return failed
			case <-time.After(boardPause):
			}
		}
	}
	return failed
}

// Every runs one immediate cycle, then repeats on interval until ctx is
// cancelled. It returns nil on cancellation.
func Every(ctx context.Context, interval time.Duration, runners []*BoardRunner, logger *slog.Logger) error {
	logger.Info("starting scheduler",
		"interval", interval.String(),
		"boards", len(runners),
	)

	RunAll(ctx, runners, logger)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down scheduler")
			return nil
		case <-ticker.C:
			RunAll(ctx, runners, logger)
		}
	}
}
