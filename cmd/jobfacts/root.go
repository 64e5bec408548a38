package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobfacts/internal/adapter"
	"github.com/amishk599/jobfacts/internal/config"
	"github.com/amishk599/jobfacts/internal/filter"
	"github.com/amishk599/jobfacts/internal/model"
	"github.com/amishk599/jobfacts/internal/ratelimit"
	"github.com/amishk599/jobfacts/internal/retry"
	"github.com/amishk599/jobfacts/internal/runner"
	"github.com/amishk599/jobfacts/internal/sink"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "jobfacts",
	Short: "Pull salary, location and keywords out of job postings",
	Long: "jobfacts fetches postings from job boards, normalizes their descriptions and extracts\n" +
		"a salary, a canonical location and technology keywords for each one.",
	// Bare `jobfacts` runs every enabled board once.
	RunE:         runRun,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: JOBFACTS_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	addRunFlags(rootCmd)
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > JOBFACTS_CONFIG env var > "./config.yaml"
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if env := os.Getenv("JOBFACTS_CONFIG"); env != "" {
			path = env
		} else {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

// setupLogger writes text logs to w. Commands that print JSON lines on
// stdout log to stderr instead.
func setupLogger(dbg bool, w io.Writer) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel}))
}

// logWriter picks where logs go for a configured output.
func logWriter(output string) io.Writer {
	if output == "jsonl" {
		return os.Stderr
	}
	return os.Stdout
}

func newHTTPClient(cfg *config.Config) *http.Client {
	return &http.Client{Timeout: cfg.HTTP.Timeout}
}

func setupSink(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) model.Sink {
	switch cfg.Output {
	case "slack":
		logger.Info("using slack sink")
		return sink.NewSlackSink(cfg.Slack.WebhookURL, httpClient, logger)
	case "log":
		return sink.NewLogSink(logger)
	default:
		return sink.NewJSONLinesSink(os.Stdout)
	}
}

func setupFilter(cfg *config.Config) model.ViewFilter {
	return filter.NewFactFilter(cfg.Filters.Keywords, cfg.Filters.Locations, cfg.Filters.RequireSalary)
}

// createFetcher builds the raw adapter for a board.
func createFetcher(board config.BoardConfig, httpClient *http.Client) (model.PostingFetcher, error) {
	switch board.ATS {
	case "greenhouse":
		return adapter.NewGreenhouseAdapter(board.BoardToken, board.Name, httpClient), nil
	case "lever":
		return adapter.NewLeverAdapter(board.BoardToken, board.Name, httpClient), nil
	case "ashby":
		return adapter.NewAshbyAdapter(board.BoardToken, board.Name, httpClient), nil
	case "gem":
		return adapter.NewGemAdapter(board.BoardToken, board.Name, httpClient), nil
	case "workday":
		return adapter.NewWorkdayAdapter(board.WorkdayURL, board.Name, httpClient, board.Limit), nil
	case "microsoft":
		return adapter.NewMicrosoftAdapter(board.Name, board.Query, httpClient, board.Limit), nil
	case "file":
		return adapter.NewFileAdapter(board.Path, board.Name), nil
	default:
		return nil, fmt.Errorf("unsupported ats %q", board.ATS)
	}
}

// wrapFetcher adds rate limiting and retries. Retries go through the limiter
// too, so a retried request still respects the per-ATS gap.
func wrapFetcher(f model.PostingFetcher, board config.BoardConfig, cfg *config.Config, limiter *ratelimit.ATSRateLimiter, logger *slog.Logger) model.PostingFetcher {
	if board.ATS == "file" {
		return f
	}
	f = ratelimit.NewRateLimitedFetcher(f, limiter, board.ATS)
	return retry.NewRetryFetcher(f, cfg.Retry.MaxRetries, cfg.Retry.BaseDelay, logger)
}

func buildRunners(cfg *config.Config, viewFilter model.ViewFilter, viewStore model.ViewStore, s model.Sink, httpClient *http.Client, logger *slog.Logger) []*runner.BoardRunner {
	// Shared ATS-level rate limiter: all boards on the same ATS share this instance.
	limiter := ratelimit.NewATSRateLimiter(cfg.RateLimit.MinDelay, cfg.RateLimit.ATSOverrides)
	logger.Debug("rate limiter configured", "min_delay", cfg.RateLimit.MinDelay.String())

	var runners []*runner.BoardRunner
	for _, board := range cfg.EnabledBoards() {
		fetcher, err := createFetcher(board, httpClient)
		if err != nil {
			logger.Warn("skipping board", "board", board.Name, "error", err)
			continue
		}
		fetcher = wrapFetcher(fetcher, board, cfg, limiter, logger)

		runners = append(runners, runner.NewBoardRunner(board.Name, fetcher, viewFilter, viewStore, s, cfg.Workers, logger))
		logger.Debug("registered board", "board", board.Name, "ats", board.ATS)
	}
	return runners
}
