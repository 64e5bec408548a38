package adapter

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/amishk599/jobfacts/internal/model"
)

const workdayPageSize = 20

type workdayListingResponse struct {
	Total       int              `json:"total"`
	JobPostings []workdayListing `json:"jobPostings"`
}

type workdayListing struct {
	Title         string `json:"title"`
	ExternalPath  string `json:"externalPath"`
	LocationsText string `json:"locationsText"`
	PostedOn      string `json:"postedOn"`
}

// workdayListingRequest is the POST body for the listing endpoint.
type workdayListingRequest struct {
	AppliedFacets map[string]any `json:"appliedFacets"`
	Limit         int            `json:"limit"`
	Offset        int            `json:"offset"`
	SearchText    string         `json:"searchText"`
}

type workdayDetailResponse struct {
	JobPostingInfo workdayJobDetail `json:"jobPostingInfo"`
}

type workdayJobDetail struct {
	JobReqID            string   `json:"jobReqId"`
	Title               string   `json:"title"`
	Location            string   `json:"location"`
	AdditionalLocations []string `json:"additionalLocations"`
	PostedOn            string   `json:"postedOn"`
	StartDate           string   `json:"startDate"`
	ExternalURL         string   `json:"externalUrl"`
	JobDescription      string   `json:"jobDescription"`
}

// WorkdayAdapter fetches postings from a Workday career site. baseURL is the
// site's cxs endpoint, e.g.
// https://acme.wd5.myworkdayjobs.com/wday/cxs/acme/External.
type WorkdayAdapter struct {
	baseURL     string
	companyName string
	client      *http.Client
	limit       int // max postings per fetch, 0 for all
}

// NewWorkdayAdapter creates a new adapter for a Workday career site.
func NewWorkdayAdapter(baseURL string, companyName string, client *http.Client, limit int) *WorkdayAdapter {
	return &WorkdayAdapter{
		baseURL:     strings.TrimRight(baseURL, "/"),
		companyName: companyName,
		client:      client,
		limit:       limit,
	}
}

// FetchPostings pages through the listing endpoint, then fetches the detail
// of every listing since only the detail carries the description. Listings
// come newest first, so a limit keeps the most recent postings.
func (a *WorkdayAdapter) FetchPostings(ctx context.Context) ([]model.Posting, error) {
	listings, err := a.fetchListings(ctx)
	if err != nil {
		return nil, err
	}

	postings := make([]model.Posting, 0, len(listings))
	for _, l := range listings {
		p, err := a.fetchDetail(ctx, l)
		if err != nil {
			return nil, err
		}
		postings = append(postings, p)
	}
	return postings, nil
}

func (a *WorkdayAdapter) fetchListings(ctx context.Context) ([]workdayListing, error) {
	var all []workdayListing
	what := "workday listing fetch for " + a.companyName

	for offset := 0; ; offset += workdayPageSize {
		body := workdayListingRequest{
			AppliedFacets: map[string]any{},
			Limit:         workdayPageSize,
			Offset:        offset,
		}

		var page workdayListingResponse
		if err := postJSON(ctx, a.client, a.baseURL+"/jobs", body, what, &page); err != nil {
			return nil, err
		}
		all = append(all, page.JobPostings...)

		if a.limit > 0 && len(all) >= a.limit {
			return all[:a.limit], nil
		}
		if len(page.JobPostings) == 0 || offset+workdayPageSize >= page.Total {
			return all, nil
		}
	}
}

func (a *WorkdayAdapter) fetchDetail(ctx context.Context, l workdayListing) (model.Posting, error) {
	var detail workdayDetailResponse
	what := fmt.Sprintf("workday detail fetch for %s (%s)", a.companyName, l.ExternalPath)
	if err := getJSON(ctx, a.client, a.baseURL+"/"+strings.TrimLeft(l.ExternalPath, "/"), what, &detail); err != nil {
		return model.Posting{}, err
	}

	info := detail.JobPostingInfo

	location := info.Location
	if location == "" {
		location = l.LocationsText
	}
	if len(info.AdditionalLocations) > 0 {
		location = location + "; " + strings.Join(info.AdditionalLocations, "; ")
	}

	id := info.JobReqID
	if id == "" {
		id = l.ExternalPath
	}
	title := info.Title
	if title == "" {
		title = l.Title
	}

	// startDate is an ISO date; postedOn is relative ("Posted 3 Days Ago").
	postedAt := parseTimestamp(info.StartDate)
	if postedAt == nil {
		postedAt = parsePostedOn(info.PostedOn, time.Now())
	}
	if postedAt == nil {
		postedAt = parsePostedOn(l.PostedOn, time.Now())
	}

	return model.Posting{
		ID:          id,
		Company:     a.companyName,
		Title:       title,
		Location:    location,
		URL:         info.ExternalURL,
		Description: info.JobDescription,
		Source:      "workday",
		PostedAt:    postedAt,
	}, nil
}

var daysAgoRegex = regexp.MustCompile(`^Posted (\d+)\+? Days? Ago$`)

// parsePostedOn converts a Workday relative date to the start of that day in
// UTC, counted back from now. "Posted 30+ Days Ago" maps to 30 days back.
func parsePostedOn(postedOn string, now time.Time) *time.Time {
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	switch postedOn {
	case "Posted Today":
		return &today
	case "Posted Yesterday":
		t := today.AddDate(0, 0, -1)
		return &t
	}

	m := daysAgoRegex.FindStringSubmatch(postedOn)
	if m == nil {
		return nil
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	t := today.AddDate(0, 0, -n)
	return &t
}
