// Package enrich turns raw postings into flat views by running the
// normalization engine over each field.
package enrich

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/amishk599/jobfacts/internal/compensation"
	"github.com/amishk599/jobfacts/internal/keywords"
	"github.com/amishk599/jobfacts/internal/location"
	"github.com/amishk599/jobfacts/internal/model"
	"github.com/amishk599/jobfacts/internal/normalize"
)

// Enrich builds the view for one posting. It is pure: EnrichedAt is left
// zero for the caller to stamp.
func Enrich(p model.Posting) model.PostingView {
	return model.PostingView{
		ID:          p.ID,
		Company:     p.Company,
		Title:       p.Title,
		URL:         p.URL,
		Source:      p.Source,
		PostedAt:    p.PostedAt,
		Description: normalize.Normalize(p.Description),
		Salary:      compensation.Extract(p.Description),
		Location:    location.Canonicalize(p.Location),
		Keywords:    keywords.Scan(p.Description),
	}
}

// All enriches postings on up to workers goroutines. The result has the same
// order as the input. Cancelling ctx stops scheduling new postings and
// returns ctx.Err().
func All(ctx context.Context, postings []model.Posting, workers int) ([]model.PostingView, error) {
	if workers < 1 {
		workers = 1
	}
	views := make([]model.PostingView, len(postings))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, p := range postings {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			views[i] = Enrich(p)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return views, nil
}
