package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
workers: 8
output: log
store:
  path: /tmp/views.db
  retention: 48h
retry:
  max_retries: 0
rate_limit:
  min_delay: 1s
  ats_overrides:
    lever: 3s
filters:
  keywords:
    - Golang
  locations:
    - Texas
  require_salary: true
boards:
  - name: acme
    ats: Greenhouse
    board_token: "acme"
    enabled: true
  - name: local
    ats: file
    path: postings.yaml
    enabled: false
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Workers != 8 || cfg.Output != "log" {
		t.Errorf("Workers/Output = %d/%s", cfg.Workers, cfg.Output)
	}
	if cfg.Store.Path != "/tmp/views.db" || cfg.Store.Retention != 48*time.Hour {
		t.Errorf("Store = %+v", cfg.Store)
	}
	if cfg.Retry.MaxRetries != 0 {
		t.Errorf("MaxRetries = %d, want explicit 0", cfg.Retry.MaxRetries)
	}
	if cfg.RateLimit.MinDelayFor("lever") != 3*time.Second || cfg.RateLimit.MinDelayFor("greenhouse") != time.Second {
		t.Errorf("RateLimit = %+v", cfg.RateLimit)
	}
	if len(cfg.Filters.Keywords) != 1 || cfg.Filters.Keywords[0] != "Golang" || !cfg.Filters.RequireSalary {
		t.Errorf("Filters = %+v", cfg.Filters)
	}
	if len(cfg.Boards) != 2 || cfg.Boards[0].ATS != "greenhouse" {
		t.Errorf("Boards = %+v", cfg.Boards)
	}
	if enabled := cfg.EnabledBoards(); len(enabled) != 1 || enabled[0].Name != "acme" {
		t.Errorf("EnabledBoards = %+v", enabled)
	}
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
boards:
  - name: acme
    ats: lever
    board_token: acme
    enabled: true
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Workers != 4 {
		t.Errorf("Workers = %d, want 4", cfg.Workers)
	}
	if cfg.Output != "jsonl" {
		t.Errorf("Output = %q, want jsonl", cfg.Output)
	}
	if cfg.Store.Path != "jobfacts.db" || cfg.Store.Retention != 30*24*time.Hour {
		t.Errorf("Store = %+v", cfg.Store)
	}
	if cfg.HTTP.Timeout != 30*time.Second {
		t.Errorf("HTTP.Timeout = %v", cfg.HTTP.Timeout)
	}
	if cfg.Retry.MaxRetries != 2 || cfg.Retry.BaseDelay != 5*time.Second {
		t.Errorf("Retry = %+v", cfg.Retry)
	}
	if cfg.RateLimit.MinDelay != 2*time.Second {
		t.Errorf("MinDelay = %v", cfg.RateLimit.MinDelay)
	}
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("JOBFACTS_TEST_HOOK", "https://hooks.slack.com/services/T/B/X")
	path := writeConfig(t, `
output: slack
slack:
  webhook_url: ${JOBFACTS_TEST_HOOK}
boards:
  - name: acme
    ats: ashby
    board_token: acme
    enabled: true
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Slack.WebhookURL != "https://hooks.slack.com/services/T/B/X" {
		t.Errorf("WebhookURL = %q", cfg.Slack.WebhookURL)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if err == nil {
		t.Fatal("Load: expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "workers: [broken")
	if _, err := Load(path); err == nil {
		t.Fatal("Load: expected error for invalid YAML")
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	const board = `
boards:
  - name: acme
    ats: greenhouse
    board_token: acme
    enabled: true
`
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"workers too low", "workers: 0" + board, "workers must be between"},
		{"workers too high", "workers: 65" + board, "workers must be between"},
		{"unknown output", "output: email" + board, "output must be one of"},
		{"slack without webhook", "output: slack" + board, "slack.webhook_url is required"},
		{"slack bad webhook", "output: slack\nslack:\n  webhook_url: https://example.com/x" + board, "must start with"},
		{"bad duration", "http:\n  timeout: soon" + board, "http.timeout"},
		{"bad override", "rate_limit:\n  ats_overrides:\n    lever: later" + board, "ats_overrides"},
		{"negative retries", "retry:\n  max_retries: -1" + board, "max_retries"},
		{
			name:    "no enabled boards",
			content: "boards:\n  - name: acme\n    ats: greenhouse\n    board_token: acme\n    enabled: false\n",
			wantErr: "at least one board must be enabled",
		},
		{
			name:    "unknown ats",
			content: "boards:\n  - name: acme\n    ats: taleo\n    enabled: true\n",
			wantErr: "unknown ats",
		},
		{
			name:    "missing board token",
			content: "boards:\n  - name: acme\n    ats: gem\n    enabled: true\n",
			wantErr: "board_token is required",
		},
		{
			name:    "missing workday url",
			content: "boards:\n  - name: acme\n    ats: workday\n    enabled: true\n",
			wantErr: "workday_url is required",
		},
		{
			name:    "negative microsoft limit",
			content: "boards:\n  - name: msft\n    ats: microsoft\n    limit: -1\n    enabled: true\n",
			wantErr: "limit must not be negative",
		},
		{
			name:    "missing file path",
			content: "boards:\n  - name: local\n    ats: file\n    enabled: true\n",
			wantErr: "path is required",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatalf("Load: expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_MicrosoftBoard(t *testing.T) {
	path := writeConfig(t, `
boards:
  - name: Microsoft
    ats: microsoft
    query: site reliability
    limit: 50
    enabled: true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	b := cfg.Boards[0]
	if b.ATS != "microsoft" || b.Query != "site reliability" || b.Limit != 50 {
		t.Errorf("board = %+v", b)
	}
}

func TestLoad_DisabledBoardsSkipValidation(t *testing.T) {
	path := writeConfig(t, `
boards:
  - name: broken
    ats: taleo
    enabled: false
  - name: acme
    ats: greenhouse
    board_token: acme
    enabled: true
`)
	if _, err := Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
}
