package adapter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/amishk599/jobfacts/internal/model"
)

const (
	microsoftBaseURL       = "https://apply.careers.microsoft.com"
	microsoftPageSize      = 10
	microsoftMaxPages      = 20
	microsoftDefaultQuery  = "software engineer"
	microsoftSearchCountry = "United States"
)

type microsoftPosition struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Locations   []string `json:"locations"`
	PostedTs    int64    `json:"postedTs"`
	PositionURL string   `json:"positionUrl"`
}

type microsoftSearchResponse struct {
	Data struct {
		Positions []microsoftPosition `json:"positions"`
		Count     int                 `json:"count"`
	} `json:"data"`
}

// microsoftDetailResponse holds the fields read from position_details. The
// search endpoint never carries a description.
type microsoftDetailResponse struct {
	Data struct {
		JobDescription string `json:"jobDescription"`
		PublicURL      string `json:"publicUrl"`
	} `json:"data"`
}

// MicrosoftAdapter fetches postings from the Microsoft careers search API.
type MicrosoftAdapter struct {
	companyName string
	query       string
	client      *http.Client
	limit       int // max postings per fetch, 0 for the page cap
}

// NewMicrosoftAdapter creates a new adapter for Microsoft careers. An empty
// query searches for software engineering roles.
func NewMicrosoftAdapter(companyName, query string, client *http.Client, limit int) *MicrosoftAdapter {
	if query == "" {
		query = microsoftDefaultQuery
	}
	return &MicrosoftAdapter{
		companyName: companyName,
		query:       query,
		client:      client,
		limit:       limit,
	}
}

// FetchPostings pages through the search results newest first, then fetches
// position_details for every position to get its description.
func (a *MicrosoftAdapter) FetchPostings(ctx context.Context) ([]model.Posting, error) {
	positions, err := a.fetchPositions(ctx)
	if err != nil {
		return nil, err
	}

	postings := make([]model.Posting, 0, len(positions))
	for _, p := range positions {
		posting, err := a.fetchDetail(ctx, a.postingFromPosition(p))
		if err != nil {
			return nil, err
		}
		postings = append(postings, posting)
	}
	return postings, nil
}

func (a *MicrosoftAdapter) fetchPositions(ctx context.Context) ([]microsoftPosition, error) {
	var all []microsoftPosition

	for page := 0; page < microsoftMaxPages; page++ {
		start := page * microsoftPageSize
		positions, count, err := a.fetchPage(ctx, start)
		if err != nil {
			return nil, err
		}
		all = append(all, positions...)

		if a.limit > 0 && len(all) >= a.limit {
			return all[:a.limit], nil
		}
		if len(positions) == 0 || start+microsoftPageSize >= count {
			break
		}
	}
	return all, nil
}

func (a *MicrosoftAdapter) fetchPage(ctx context.Context, start int) ([]microsoftPosition, int, error) {
	q := url.Values{}
	q.Set("domain", "microsoft.com")
	q.Set("query", a.query)
	q.Set("location", microsoftSearchCountry)
	q.Set("start", strconv.Itoa(start))
	q.Set("sort_by", "timestamp")
	q.Set("filter_include_remote", "1")

	var resp microsoftSearchResponse
	what := fmt.Sprintf("microsoft search for %s (start=%d)", a.companyName, start)
	if err := getJSON(ctx, a.client, microsoftBaseURL+"/api/pcsx/search?"+q.Encode(), what, &resp); err != nil {
		return nil, 0, err
	}
	return resp.Data.Positions, resp.Data.Count, nil
}

func (a *MicrosoftAdapter) postingFromPosition(p microsoftPosition) model.Posting {
	location := ""
	if len(p.Locations) > 0 {
		location = p.Locations[0]
	}

	var postedAt *time.Time
	if p.PostedTs > 0 {
		t := time.Unix(p.PostedTs, 0).UTC()
		postedAt = &t
	}

	return model.Posting{
		ID:       strconv.FormatInt(p.ID, 10),
		Company:  a.companyName,
		Title:    p.Name,
		Location: location,
		URL:      microsoftBaseURL + p.PositionURL,
		Source:   "microsoft",
		PostedAt: postedAt,
	}
}

// fetchDetail fills in the raw description and the canonical public URL.
func (a *MicrosoftAdapter) fetchDetail(ctx context.Context, p model.Posting) (model.Posting, error) {
	q := url.Values{}
	q.Set("position_id", p.ID)
	q.Set("domain", "microsoft.com")
	q.Set("hl", "en")
	q.Set("queried_location", microsoftSearchCountry)

	var detail microsoftDetailResponse
	what := fmt.Sprintf("microsoft detail fetch for %s (%s)", a.companyName, p.ID)
	if err := getJSON(ctx, a.client, microsoftBaseURL+"/api/pcsx/position_details?"+q.Encode(), what, &detail); err != nil {
		return model.Posting{}, err
	}

	p.Description = detail.Data.JobDescription
	if detail.Data.PublicURL != "" {
		p.URL = detail.Data.PublicURL
	}
	return p, nil
}
