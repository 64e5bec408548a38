// Package sink delivers newly enriched views: to a log, a JSON-lines stream
// or a Slack channel.
package sink

import (
	"log/slog"
	"strings"

	"github.com/amishk599/jobfacts/internal/model"
)

var _ model.Sink = (*LogSink)(nil)

// LogSink writes one structured log record per view.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Emit never fails.
func (s *LogSink) Emit(views []model.PostingView) error {
	for _, v := range views {
		args := []any{
			"company", v.Company,
			"title", v.Title,
			"salary", v.Salary,
			"location", v.Location,
			"keywords", strings.Join(v.Keywords, ","),
			"url", v.URL,
		}
		if v.PostedAt != nil {
			args = append(args, "posted_at", *v.PostedAt)
		}
		s.logger.Info("posting", args...)
	}
	return nil
}
