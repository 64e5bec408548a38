package adapter

import (
	"context"
	"fmt"
	"net/http"

	"github.com/amishk599/jobfacts/internal/model"
)

const greenhouseBaseURL = "https://boards-api.greenhouse.io/v1/boards"

// greenhouseJob is one entry of the board listing when content=true.
// Content is entity-encoded HTML.
type greenhouseJob struct {
	ID          int64              `json:"id"`
	Title       string             `json:"title"`
	Location    greenhouseLocation `json:"location"`
	AbsoluteURL string             `json:"absolute_url"`
	FirstPub    string             `json:"first_published"`
	UpdatedAt   string             `json:"updated_at"`
	Content     string             `json:"content"`
	Offices     []greenhouseOffice `json:"offices"`
}

type greenhouseLocation struct {
	Name string `json:"name"`
}

type greenhouseOffice struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

type greenhouseResponse struct {
	Jobs []greenhouseJob `json:"jobs"`
}

// GreenhouseAdapter fetches postings from the Greenhouse public boards API.
type GreenhouseAdapter struct {
	boardToken  string
	companyName string
	client      *http.Client
}

// NewGreenhouseAdapter creates a new adapter for a Greenhouse board.
func NewGreenhouseAdapter(boardToken string, companyName string, client *http.Client) *GreenhouseAdapter {
	return &GreenhouseAdapter{
		boardToken:  boardToken,
		companyName: companyName,
		client:      client,
	}
}

// FetchPostings retrieves every posting on the board, descriptions included,
// in a single request.
func (a *GreenhouseAdapter) FetchPostings(ctx context.Context) ([]model.Posting, error) {
	url := fmt.Sprintf("%s/%s/jobs?content=true", greenhouseBaseURL, a.boardToken)

	var ghResp greenhouseResponse
	if err := getJSON(ctx, a.client, url, "greenhouse fetch for "+a.boardToken, &ghResp); err != nil {
		return nil, err
	}

	postings := make([]model.Posting, 0, len(ghResp.Jobs))
	for _, gj := range ghResp.Jobs {
		location := gj.Location.Name
		if location == "" && len(gj.Offices) > 0 {
			location = gj.Offices[0].Location
		}

		published := parseTimestamp(gj.FirstPub)
		if published == nil {
			published = parseTimestamp(gj.UpdatedAt)
		}

		postings = append(postings, model.Posting{
			ID:          fmt.Sprintf("%d", gj.ID),
			Company:     a.companyName,
			Title:       gj.Title,
			Location:    location,
			URL:         gj.AbsoluteURL,
			Description: gj.Content,
			Source:      "greenhouse",
			PostedAt:    published,
		})
	}

	return postings, nil
}
