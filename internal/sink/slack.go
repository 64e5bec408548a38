package sink

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/amishk599/jobfacts/internal/model"
)

var _ model.Sink = (*SlackSink)(nil)

// SlackSink posts each view to a Slack Incoming Webhook as a Block Kit
// message.
type SlackSink struct {
	webhookURL string
	httpClient *http.Client
	logger     *slog.Logger
	spacing    time.Duration // pause between messages
}

func NewSlackSink(webhookURL string, httpClient *http.Client, logger *slog.Logger) *SlackSink {
	return &SlackSink{
		webhookURL: webhookURL,
		httpClient: httpClient,
		logger:     logger,
		spacing:    500 * time.Millisecond,
	}
}

// Emit sends one message per view. It fails only when every message fails;
// individual failures are logged.
func (s *SlackSink) Emit(views []model.PostingView) error {
	if len(views) == 0 {
		return nil
	}

	failures := 0
	for i, v := range views {
		if i > 0 && s.spacing > 0 {
			time.Sleep(s.spacing)
		}
		if err := s.send(v); err != nil {
			s.logger.Error("slack delivery failed", "company", v.Company, "title", v.Title, "error", err)
			failures++
		}
	}

	if failures == len(views) {
		return fmt.Errorf("all %d slack messages failed", failures)
	}
	s.logger.Info("slack delivery complete", "sent", len(views)-failures, "failed", failures)
	return nil
}

// send posts one message, retrying once after a 429.
func (s *SlackSink) send(v model.PostingView) error {
	body, err := json.Marshal(buildPayload(v))
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	status, retryAfter, err := s.post(body)
	if err != nil {
		return err
	}
	if status == http.StatusTooManyRequests {
		s.logger.Warn("slack rate limited, retrying", "retry_after", retryAfter)
		time.Sleep(retryAfter)
		if status, _, err = s.post(body); err != nil {
			return err
		}
	}
	if status != http.StatusOK {
		return fmt.Errorf("slack returned %d", status)
	}
	return nil
}

func (s *SlackSink) post(body []byte) (int, time.Duration, error) {
	resp, err := s.httpClient.Post(s.webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return 0, 0, fmt.Errorf("post to slack: %w", err)
	}
	defer resp.Body.Close()

	wait := time.Second
	if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && secs > 0 {
		wait = time.Duration(secs) * time.Second
	}
	return resp.StatusCode, wait, nil
}

// Block Kit payload types.

type slackPayload struct {
	Blocks []slackBlock `json:"blocks"`
}

type slackBlock struct {
	Type     string         `json:"type"`
	Text     *slackText     `json:"text,omitempty"`
	Fields   []slackText    `json:"fields,omitempty"`
	Elements []slackElement `json:"elements,omitempty"`
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type slackElement struct {
	Type  string    `json:"type"`
	Text  slackText `json:"text"`
	URL   string    `json:"url"`
	Style string    `json:"style,omitempty"`
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func buildPayload(v model.PostingView) slackPayload {
	posted := "unknown"
	if v.PostedAt != nil {
		posted = v.PostedAt.UTC().Format(time.DateOnly)
	}

	blocks := []slackBlock{
		{
			Type: "header",
			Text: &slackText{Type: "plain_text", Text: v.Company + ": " + v.Title},
		},
		{
			Type: "section",
			Fields: []slackText{
				{Type: "mrkdwn", Text: "*Salary:*\n" + orDash(v.Salary)},
				{Type: "mrkdwn", Text: "*Location:*\n" + orDash(v.Location)},
			},
		},
		{
			Type: "section",
			Fields: []slackText{
				{Type: "mrkdwn", Text: "*Posted:*\n" + posted},
				{Type: "mrkdwn", Text: "*Source:*\n" + v.Source},
			},
		},
	}

	if len(v.Keywords) > 0 {
		blocks = append(blocks, slackBlock{
			Type: "section",
			Text: &slackText{Type: "mrkdwn", Text: "*Keywords:* " + strings.Join(v.Keywords, ", ")},
		})
	}

	if v.URL != "" {
		blocks = append(blocks, slackBlock{
			Type: "actions",
			Elements: []slackElement{
				{
					Type:  "button",
					Text:  slackText{Type: "plain_text", Text: "View posting"},
					URL:   v.URL,
					Style: "primary",
				},
			},
		})
	}

	return slackPayload{Blocks: append(blocks, slackBlock{Type: "divider"})}
}
