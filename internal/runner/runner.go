package runner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/amishk599/jobfacts/internal/enrich"
	"github.com/amishk599/jobfacts/internal/model"
)

// BoardRunner owns the full pipeline for a single board:
// fetch → enrich → filter → dedup → emit → save.
type BoardRunner struct {
	Name    string
	fetcher model.PostingFetcher
	filter  model.ViewFilter
	store   model.ViewStore
	sink    model.Sink
	workers int
	logger  *slog.Logger
	now     func() time.Time
}

// NewBoardRunner creates a runner wired with all its dependencies.
func NewBoardRunner(
	name string,
	fetcher model.PostingFetcher,
	filter model.ViewFilter,
	store model.ViewStore,
	sink model.Sink,
	workers int,
	logger *slog.Logger,
) *BoardRunner {
	return &BoardRunner{
		Name:    name,
		fetcher: fetcher,
		filter:  filter,
		store:   store,
		sink:    sink,
		workers: workers,
		logger:  logger,
		now:     time.Now,
	}
}

// Run executes one cycle for the board. Views are saved only after the sink
// accepted them, so a failed emit is retried on the next run.
func (r *BoardRunner) Run(ctx context.Context) error {
	postings, err := r.fetcher.FetchPostings(ctx)
	if err != nil {
		return fmt.Errorf("running %s: %w", r.Name, err)
	}

	views, err := enrich.All(ctx, postings, r.workers)
	if err != nil {
		return fmt.Errorf("running %s: enriching: %w", r.Name, err)
	}

	enrichedAt := r.now().UTC()
	withSalary := 0
	var matched []model.PostingView
	for i := range views {
		views[i].EnrichedAt = enrichedAt
		if views[i].Salary != "" {
			withSalary++
		}
		if r.filter.Match(views[i]) {
			matched = append(matched, views[i])
		}
	}

	var fresh []model.PostingView
	batch := make(map[string]bool)
	for _, v := range matched {
		key := v.Key()
		if batch[key] {
			continue
		}
		batch[key] = true

		seen, err := r.store.HasSeen(key)
		if err != nil {
			return fmt.Errorf("running %s: checking seen status: %w", r.Name, err)
		}
		if !seen {
			fresh = append(fresh, v)
		}
	}

	if len(fresh) > 0 {
		if err := r.sink.Emit(fresh); err != nil {
			return fmt.Errorf("running %s: emitting: %w", r.Name, err)
		}
	}

	for _, v := range fresh {
		if err := r.store.Save(v); err != nil {
			return fmt.Errorf("running %s: saving: %w", r.Name, err)
		}
	}

	r.logger.Info("board processed",
		"board", r.Name,
		"fetched", len(postings),
		"enriched", len(views),
		"matched", len(matched),
		"new", len(fresh),
		"with_salary", withSalary,
	)

	return nil
}
