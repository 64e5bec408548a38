package adapter

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/amishk599/jobfacts/internal/model"
)

const leverBaseURL = "https://api.lever.co/v0/postings"

type leverCategories struct {
	Team         string   `json:"team"`
	Location     string   `json:"location"`
	Commitment   string   `json:"commitment"`
	AllLocations []string `json:"allLocations"`
}

// leverList is one titled section ("Requirements", "Benefits") of a posting.
// Content is an HTML list body.
type leverList struct {
	Text    string `json:"text"`
	Content string `json:"content"`
}

type leverJob struct {
	ID            string          `json:"id"`
	Text          string          `json:"text"`
	Description   string          `json:"description"`
	Lists         []leverList     `json:"lists"`
	Additional    string          `json:"additional"`
	Categories    leverCategories `json:"categories"`
	CreatedAt     int64           `json:"createdAt"`
	WorkplaceType string          `json:"workplaceType"`
	HostedURL     string          `json:"hostedUrl"`
}

// LeverAdapter fetches postings from the Lever public postings API.
type LeverAdapter struct {
	companySlug string
	companyName string
	client      *http.Client
}

// NewLeverAdapter creates a new adapter for a Lever board.
func NewLeverAdapter(companySlug string, companyName string, client *http.Client) *LeverAdapter {
	return &LeverAdapter{
		companySlug: companySlug,
		companyName: companyName,
		client:      client,
	}
}

// FetchPostings retrieves all postings for the company. Lever splits a
// description into an opening, titled lists and a closing section; they are
// joined back into one HTML document.
func (a *LeverAdapter) FetchPostings(ctx context.Context) ([]model.Posting, error) {
	url := fmt.Sprintf("%s/%s?mode=json", leverBaseURL, a.companySlug)

	var leverJobs []leverJob
	if err := getJSON(ctx, a.client, url, "lever fetch for "+a.companySlug, &leverJobs); err != nil {
		return nil, err
	}

	postings := make([]model.Posting, 0, len(leverJobs))
	for _, lj := range leverJobs {
		location := lj.Categories.Location
		if len(lj.Categories.AllLocations) > 0 {
			location = strings.Join(lj.Categories.AllLocations, " / ")
		}
		if lj.WorkplaceType == "remote" && !strings.Contains(strings.ToLower(location), "remote") {
			location = strings.TrimPrefix(location+" / Remote", " / ")
		}

		// createdAt is Unix milliseconds.
		var postedAt *time.Time
		if lj.CreatedAt > 0 {
			t := time.UnixMilli(lj.CreatedAt).UTC()
			postedAt = &t
		}

		postings = append(postings, model.Posting{
			ID:          lj.ID,
			Company:     a.companyName,
			Title:       lj.Text,
			Location:    location,
			URL:         lj.HostedURL,
			Description: leverDescription(lj),
			Source:      "lever",
			PostedAt:    postedAt,
		})
	}

	return postings, nil
}

func leverDescription(lj leverJob) string {
	var b strings.Builder
	b.WriteString(lj.Description)
	for _, l := range lj.Lists {
		if l.Text != "" {
			b.WriteString("<h3>" + l.Text + "</h3>")
		}
		b.WriteString("<ul>" + l.Content + "</ul>")
	}
	b.WriteString(lj.Additional)
	return b.String()
}
