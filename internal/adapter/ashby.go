package adapter

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/amishk599/jobfacts/internal/model"
)

const ashbyBaseURL = "https://api.ashbyhq.com/posting-api/job-board"

type ashbyJob struct {
	ID                 string                `json:"id"`
	Title              string                `json:"title"`
	Location           string                `json:"location"`
	SecondaryLocations []ashbySecondaryPlace `json:"secondaryLocations"`
	IsRemote           bool                  `json:"isRemote"`
	JobURL             string                `json:"jobUrl"`
	PublishedAt        string                `json:"publishedAt"`
	IsListed           bool                  `json:"isListed"`
	DescriptionHTML    string                `json:"descriptionHtml"`
}

type ashbySecondaryPlace struct {
	Location string `json:"location"`
}

type ashbyResponse struct {
	Jobs []ashbyJob `json:"jobs"`
}

// AshbyAdapter fetches postings from the Ashby public job board API.
type AshbyAdapter struct {
	boardToken  string
	companyName string
	client      *http.Client
}

// NewAshbyAdapter creates a new adapter for an Ashby job board.
func NewAshbyAdapter(boardToken string, companyName string, client *http.Client) *AshbyAdapter {
	return &AshbyAdapter{
		boardToken:  boardToken,
		companyName: companyName,
		client:      client,
	}
}

// FetchPostings retrieves the listed postings of the board. Unlisted ones are
// skipped.
func (a *AshbyAdapter) FetchPostings(ctx context.Context) ([]model.Posting, error) {
	url := fmt.Sprintf("%s/%s", ashbyBaseURL, a.boardToken)

	var ashbyResp ashbyResponse
	if err := getJSON(ctx, a.client, url, "ashby fetch for "+a.boardToken, &ashbyResp); err != nil {
		return nil, err
	}

	postings := make([]model.Posting, 0, len(ashbyResp.Jobs))
	for _, aj := range ashbyResp.Jobs {
		if !aj.IsListed {
			continue
		}

		id := aj.ID
		if id == "" {
			id = aj.JobURL
		}

		places := []string{aj.Location}
		for _, s := range aj.SecondaryLocations {
			places = append(places, s.Location)
		}
		if aj.IsRemote {
			places = append(places, "Remote")
		}

		postings = append(postings, model.Posting{
			ID:          id,
			Company:     a.companyName,
			Title:       aj.Title,
			Location:    joinNonEmpty(places, " / "),
			URL:         aj.JobURL,
			Description: aj.DescriptionHTML,
			Source:      "ashby",
			PostedAt:    parseTimestamp(aj.PublishedAt),
		})
	}

	return postings, nil
}

func joinNonEmpty(parts []string, sep string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
