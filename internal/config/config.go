package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for jobfacts.
type Config struct {
	Workers   int    // enrichment workers per board
	Output    string // "jsonl", "log" or "slack"
	Store     StoreConfig
	HTTP      HTTPConfig
	Retry     RetryConfig
	RateLimit RateLimitConfig
	Filters   FilterConfig
	Slack     SlackConfig
	Boards    []BoardConfig
}

// StoreConfig locates the SQLite view store.
type StoreConfig struct {
	Path      string
	Retention time.Duration // views enriched longer ago are removed on each run
}

// HTTPConfig controls the shared HTTP client.
type HTTPConfig struct {
	Timeout time.Duration
}

// RetryConfig controls retries of transient source failures.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
}

// RateLimitConfig controls ATS-level rate limiting.
type RateLimitConfig struct {
	MinDelay     time.Duration            // minimum gap between requests to the same ATS
	ATSOverrides map[string]time.Duration // per-ATS overrides, keyed by ATS name
}

// MinDelayFor returns the configured delay for the given ATS, falling back to MinDelay.
func (r RateLimitConfig) MinDelayFor(ats string) time.Duration {
	if d, ok := r.ATSOverrides[ats]; ok {
		return d
	}
	return r.MinDelay
}

// FilterConfig selects which enriched views are emitted.
type FilterConfig struct {
	Keywords      []string `yaml:"keywords"`       // vocabulary terms, any must match
	Locations     []string `yaml:"locations"`      // substrings of the canonical location
	RequireSalary bool     `yaml:"require_salary"` // drop views without an extracted salary
}

// SlackConfig holds the webhook used when output is "slack".
type SlackConfig struct {
	WebhookURL string `yaml:"webhook_url"`
}

// BoardConfig describes a single posting source.
type BoardConfig struct {
	Name       string `yaml:"name"`
	ATS        string `yaml:"ats"`
	BoardToken string `yaml:"board_token"` // greenhouse, lever, ashby, gem
	WorkdayURL string `yaml:"workday_url"` // workday
	Query      string `yaml:"query"`       // microsoft, defaults to software engineer
	Path       string `yaml:"path"`        // file
	Limit      int    `yaml:"limit"`       // workday and microsoft, 0 for all
	Enabled    bool   `yaml:"enabled"`
}

// KnownATS lists the supported values of BoardConfig.ATS.
var KnownATS = []string{"greenhouse", "lever", "ashby", "gem", "workday", "microsoft", "file"}

const (
	defaultWorkers    = 4
	maxWorkers        = 64
	defaultOutput     = "jsonl"
	defaultStorePath  = "jobfacts.db"
	defaultRetention  = 30 * 24 * time.Hour
	defaultTimeout    = 30 * time.Second
	defaultMaxRetries = 2
	defaultBaseDelay  = 5 * time.Second
	defaultMinDelay   = 2 * time.Second
	slackWebhookHost  = "https://hooks.slack.com/"
)

// rawConfig is used for YAML unmarshaling (snake_case fields and duration as string).
type rawConfig struct {
	Workers   *int               `yaml:"workers"`
	Output    string             `yaml:"output"`
	Store     rawStoreConfig     `yaml:"store"`
	HTTP      rawHTTPConfig      `yaml:"http"`
	Retry     rawRetryConfig     `yaml:"retry"`
	RateLimit rawRateLimitConfig `yaml:"rate_limit"`
	Filters   FilterConfig       `yaml:"filters"`
	Slack     SlackConfig        `yaml:"slack"`
	Boards    []BoardConfig      `yaml:"boards"`
}

type rawStoreConfig struct {
	Path      string `yaml:"path"`
	Retention string `yaml:"retention"`
}

type rawHTTPConfig struct {
	Timeout string `yaml:"timeout"`
}

type rawRetryConfig struct {
	MaxRetries *int   `yaml:"max_retries"`
	BaseDelay  string `yaml:"base_delay"`
}

type rawRateLimitConfig struct {
	MinDelay     string            `yaml:"min_delay"`
	ATSOverrides map[string]string `yaml:"ats_overrides"`
}

// Load reads and parses the YAML config file at path, validates it, and returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg := &Config{
		Workers: defaultWorkers,
		Output:  strings.ToLower(raw.Output),
		Store: StoreConfig{
			Path: raw.Store.Path,
		},
		Retry: RetryConfig{
			MaxRetries: defaultMaxRetries,
		},
		RateLimit: RateLimitConfig{
			ATSOverrides: make(map[string]time.Duration),
		},
		Filters: raw.Filters,
		Slack:   raw.Slack,
		Boards:  raw.Boards,
	}
	if raw.Workers != nil {
		cfg.Workers = *raw.Workers
	}
	if cfg.Output == "" {
		cfg.Output = defaultOutput
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = defaultStorePath
	}
	if raw.Retry.MaxRetries != nil {
		cfg.Retry.MaxRetries = *raw.Retry.MaxRetries
	}

	durations := []struct {
		field string
		value string
		def   time.Duration
		dst   *time.Duration
	}{
		{"store.retention", raw.Store.Retention, defaultRetention, &cfg.Store.Retention},
		{"http.timeout", raw.HTTP.Timeout, defaultTimeout, &cfg.HTTP.Timeout},
		{"retry.base_delay", raw.Retry.BaseDelay, defaultBaseDelay, &cfg.Retry.BaseDelay},
		{"rate_limit.min_delay", raw.RateLimit.MinDelay, defaultMinDelay, &cfg.RateLimit.MinDelay},
	}
	for _, d := range durations {
		if d.value == "" {
			*d.dst = d.def
			continue
		}
		v, err := time.ParseDuration(d.value)
		if err != nil {
			return nil, fmt.Errorf("parse %s %q: %w", d.field, d.value, err)
		}
		*d.dst = v
	}

	for ats, raw := range raw.RateLimit.ATSOverrides {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("parse rate_limit.ats_overrides[%q]: %w", ats, err)
		}
		cfg.RateLimit.ATSOverrides[ats] = d
	}

	for i := range cfg.Boards {
		cfg.Boards[i].ATS = strings.ToLower(cfg.Boards[i].ATS)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// EnabledBoards returns the boards with enabled set, in file order.
func (c *Config) EnabledBoards() []BoardConfig {
	var out []BoardConfig
	for _, b := range c.Boards {
		if b.Enabled {
			out = append(out, b)
		}
	}
	return out
}

func validate(cfg *Config) error {
	if cfg.Workers < 1 || cfg.Workers > maxWorkers {
		return fmt.Errorf("workers must be between 1 and %d, got %d", maxWorkers, cfg.Workers)
	}

	switch cfg.Output {
	case "jsonl", "log":
	case "slack":
		if cfg.Slack.WebhookURL == "" {
			return fmt.Errorf("slack.webhook_url is required when output is \"slack\"")
		}
		if !strings.HasPrefix(cfg.Slack.WebhookURL, slackWebhookHost) {
			return fmt.Errorf("slack.webhook_url must start with %s", slackWebhookHost)
		}
	default:
		return fmt.Errorf("output must be one of jsonl, log, slack; got %q", cfg.Output)
	}

	if cfg.Retry.MaxRetries < 0 {
		return fmt.Errorf("retry.max_retries must not be negative, got %d", cfg.Retry.MaxRetries)
	}
	if cfg.HTTP.Timeout <= 0 {
		return fmt.Errorf("http.timeout must be positive, got %v", cfg.HTTP.Timeout)
	}
	if cfg.Store.Retention < 0 {
		return fmt.Errorf("store.retention must not be negative, got %v", cfg.Store.Retention)
	}

	enabled := 0
	for i, b := range cfg.Boards {
		if !b.Enabled {
			continue
		}
		enabled++
		if err := validateBoard(b); err != nil {
			return fmt.Errorf("boards[%d] (%s): %w", i, b.Name, err)
		}
	}
	if enabled == 0 {
		return fmt.Errorf("at least one board must be enabled")
	}

	return nil
}

func validateBoard(b BoardConfig) error {
	if b.Name == "" {
		return fmt.Errorf("name is required")
	}
	switch b.ATS {
	case "greenhouse", "lever", "ashby", "gem":
		if b.BoardToken == "" {
			return fmt.Errorf("board_token is required for %s", b.ATS)
		}
	case "workday":
		if b.WorkdayURL == "" {
			return fmt.Errorf("workday_url is required for workday")
		}
		if b.Limit < 0 {
			return fmt.Errorf("limit must not be negative, got %d", b.Limit)
		}
	case "microsoft":
		if b.Limit < 0 {
			return fmt.Errorf("limit must not be negative, got %d", b.Limit)
		}
	case "file":
		if b.Path == "" {
			return fmt.Errorf("path is required for file boards")
		}
	default:
		return fmt.Errorf("unknown ats %q (known: %s)", b.ATS, strings.Join(KnownATS, ", "))
	}
	return nil
}
