// Package ratelimit spaces out requests that hit the same ATS backend.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/amishk599/jobfacts/internal/model"
)

// ATSRateLimiter enforces a minimum gap between requests to the same ATS.
// Boards on different ATS backends never wait on each other.
type ATSRateLimiter struct {
	mu        sync.Mutex
	next      map[string]time.Time // earliest start of the next request, per ATS
	minDelay  time.Duration
	overrides map[string]time.Duration
}

// NewATSRateLimiter creates a limiter with a default gap of minDelay and
// optional per-ATS gaps.
func NewATSRateLimiter(minDelay time.Duration, overrides map[string]time.Duration) *ATSRateLimiter {
	return &ATSRateLimiter{
		next:      make(map[string]time.Time),
		minDelay:  minDelay,
		overrides: overrides,
	}
}

// DelayFor returns the gap enforced for ats.
func (r *ATSRateLimiter) DelayFor(ats string) time.Duration {
	if d, ok := r.overrides[ats]; ok {
		return d
	}
	return r.minDelay
}

// Wait blocks until the caller may send a request to ats. Each caller
// reserves its own slot under the lock, so concurrent waiters are spaced out
// rather than released together. A cancelled wait keeps its slot.
func (r *ATSRateLimiter) Wait(ctx context.Context, ats string) error {
	r.mu.Lock()
	now := time.Now()
	slot := now
	if n, ok := r.next[ats]; ok && n.After(now) {
		slot = n
	}
	r.next[ats] = slot.Add(r.DelayFor(ats))
	r.mu.Unlock()

	wait := slot.Sub(now)
	if wait <= 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("rate limiter wait for %s: %w", ats, ctx.Err())
	case <-timer.C:
		return nil
	}
}

// RateLimitedFetcher waits on a shared limiter before each fetch.
type RateLimitedFetcher struct {
	inner   model.PostingFetcher
	limiter *ATSRateLimiter
	ats     string
}

// NewRateLimitedFetcher wraps inner. Fetchers for the same ATS must share
// one limiter.
func NewRateLimitedFetcher(inner model.PostingFetcher, limiter *ATSRateLimiter, ats string) *RateLimitedFetcher {
	return &RateLimitedFetcher{
		inner:   inner,
		limiter: limiter,
		ats:     ats,
	}
}

// FetchPostings waits for the limiter, then delegates.
func (f *RateLimitedFetcher) FetchPostings(ctx context.Context) ([]model.Posting, error) {
	if err := f.limiter.Wait(ctx, f.ats); err != nil {
		return nil, err
	}
	return f.inner.FetchPostings(ctx)
}
