package adapter

import (
	"context"
	"fmt"
	"net/http"

	"github.com/amishk599/jobfacts/internal/model"
)

const gemBaseURL = "https://api.gem.com/job_board/v0"

type gemJob struct {
	ID             string      `json:"id"`
	Title          string      `json:"title"`
	Location       gemLocation `json:"location"`
	AbsoluteURL    string      `json:"absolute_url"`
	FirstPublished string      `json:"first_published_at"`
	UpdatedAt      string      `json:"updated_at"`
	Content        string      `json:"content"`
	ContentPlain   string      `json:"content_plain"`
}

type gemLocation struct {
	Name string `json:"name"`
}

// GemAdapter fetches postings from the Gem public job board API.
type GemAdapter struct {
	boardToken  string
	companyName string
	client      *http.Client
}

// NewGemAdapter creates a new adapter for a Gem job board.
func NewGemAdapter(boardToken string, companyName string, client *http.Client) *GemAdapter {
	return &GemAdapter{
		boardToken:  boardToken,
		companyName: companyName,
		client:      client,
	}
}

// FetchPostings retrieves all postings on the Gem board. The HTML content is
// preferred; the plain variant is only used when content is empty.
func (a *GemAdapter) FetchPostings(ctx context.Context) ([]model.Posting, error) {
	url := fmt.Sprintf("%s/%s/job_posts/", gemBaseURL, a.boardToken)

	var gemJobs []gemJob
	if err := getJSON(ctx, a.client, url, "gem fetch for "+a.boardToken, &gemJobs); err != nil {
		return nil, err
	}

	postings := make([]model.Posting, 0, len(gemJobs))
	for _, gj := range gemJobs {
		desc := gj.Content
		if desc == "" {
			desc = gj.ContentPlain
		}

		published := parseTimestamp(gj.FirstPublished)
		if published == nil {
			published = parseTimestamp(gj.UpdatedAt)
		}

		postings = append(postings, model.Posting{
			ID:          gj.ID,
			Company:     a.companyName,
			Title:       gj.Title,
			Location:    gj.Location.Name,
			URL:         gj.AbsoluteURL,
			Description: desc,
			Source:      "gem",
			PostedAt:    published,
		})
	}

	return postings, nil
}
