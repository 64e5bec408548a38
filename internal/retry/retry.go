// Package retry wraps posting sources with exponential backoff.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/amishk599/jobfacts/internal/model"
)

// jitterFraction is the ± spread applied to every computed delay.
const jitterFraction = 0.3

// RetryFetcher retries transient fetch failures before giving up.
type RetryFetcher struct {
	inner      model.PostingFetcher
	maxRetries int
	baseDelay  time.Duration
	logger     *slog.Logger
}

// NewRetryFetcher wraps inner. maxRetries counts attempts after the first
// failure; baseDelay doubles on each further retry.
func NewRetryFetcher(inner model.PostingFetcher, maxRetries int, baseDelay time.Duration, logger *slog.Logger) *RetryFetcher {
	return &RetryFetcher{
		inner:      inner,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		logger:     logger,
	}
}

// FetchPostings calls the wrapped fetcher until it succeeds, fails with a
// permanent error, or runs out of retries.
func (f *RetryFetcher) FetchPostings(ctx context.Context) ([]model.Posting, error) {
	for attempt := 0; ; attempt++ {
		postings, err := f.inner.FetchPostings(ctx)
		if err == nil {
			return postings, nil
		}
		if attempt >= f.maxRetries || !isRetryable(err) {
			return nil, err
		}

		delay := f.backoffDelay(attempt+1, err)
		f.logger.Warn("retrying after transient error",
			"attempt", attempt+1,
			"max_retries", f.maxRetries,
			"delay", delay,
			"error", err,
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-timer.C:
		}
	}
}

// backoffDelay returns the wait before retry number attempt (1-based). A
// Retry-After hint from the server wins over the computed backoff.
func (f *RetryFetcher) backoffDelay(attempt int, err error) time.Duration {
	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) && httpErr.RetryAfter > 0 {
		return httpErr.RetryAfter
	}

	delay := f.baseDelay << (attempt - 1)
	spread := float64(delay) * jitterFraction
	return time.Duration(float64(delay) + (rand.Float64()*2-1)*spread)
}

// isRetryable reports whether err is worth another attempt: rate limiting,
// server errors and network failures are; cancellation and other client
// errors are not.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Temporary()
	}
	return true
}
