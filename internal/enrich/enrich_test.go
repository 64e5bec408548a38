package enrich

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/amishk599/jobfacts/internal/model"
)

func TestEnrich(t *testing.T) {
	posted := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	p := model.Posting{
		ID:          "123",
		Company:     "Acme",
		Title:       "Backend Engineer",
		Location:    "Austin, TX; Seattle, WA",
		URL:         "https://example.com/jobs/123",
		Description: "&lt;p&gt;We use Golang and Kafka.&lt;/p&gt;&lt;p&gt;Salary: $80,000 - $120,000 per year&lt;/p&gt;",
		Source:      "greenhouse",
		PostedAt:    &posted,
	}

	v := Enrich(p)

	if v.ID != "123" || v.Company != "Acme" || v.Title != "Backend Engineer" || v.Source != "greenhouse" {
		t.Errorf("identity fields not copied: %+v", v)
	}
	if v.PostedAt == nil || !v.PostedAt.Equal(posted) {
		t.Errorf("PostedAt = %v, want %v", v.PostedAt, posted)
	}
	if v.Salary != "$80,000 - $120,000/year" {
		t.Errorf("Salary = %q", v.Salary)
	}
	if v.Location != "Multiple locations: Texas, Washington" {
		t.Errorf("Location = %q", v.Location)
	}
	if want := []string{"Golang", "Kafka"}; !reflect.DeepEqual(v.Keywords, want) {
		t.Errorf("Keywords = %v, want %v", v.Keywords, want)
	}
	if want := "<p>We use Golang and Kafka.</p><p>Salary: $80,000 - $120,000 per year</p>"; v.Description != want {
		t.Errorf("Description = %q, want %q", v.Description, want)
	}
	if !v.EnrichedAt.IsZero() {
		t.Errorf("EnrichedAt should be left for the caller, got %v", v.EnrichedAt)
	}
	if v.Key() != "greenhouse:123" {
		t.Errorf("Key = %q", v.Key())
	}
}

func TestEnrich_EmptyPosting(t *testing.T) {
	v := Enrich(model.Posting{})
	if v.Salary != "" || v.Location != "" || v.Description != "" {
		t.Errorf("expected empty facts, got %+v", v)
	}
	if v.Keywords == nil {
		t.Error("Keywords should be an empty slice, not nil")
	}
}

func TestAll_PreservesOrder(t *testing.T) {
	var postings []model.Posting
	for i := 0; i < 50; i++ {
		postings = append(postings, model.Posting{
			ID:          fmt.Sprintf("%d", i),
			Source:      "file",
			Description: fmt.Sprintf("Pay: $%d,000", 50+i),
		})
	}

	views, err := All(context.Background(), postings, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(views) != len(postings) {
		t.Fatalf("expected %d views, got %d", len(postings), len(views))
	}
	for i, v := range views {
		if v.ID != postings[i].ID {
			t.Fatalf("view %d has ID %s, want %s", i, v.ID, postings[i].ID)
		}
		want := fmt.Sprintf("$%d,000/year", 50+i)
		if v.Salary != want {
			t.Errorf("view %d Salary = %q, want %q", i, v.Salary, want)
		}
	}
}

func TestAll_MatchesSequential(t *testing.T) {
	postings := []model.Posting{
		{ID: "a", Description: "Rate: 55/hr - 65/hr", Location: "Remote"},
		{ID: "b", Description: "React shop", Location: "NY - New York City"},
		{ID: "c", Description: "", Location: "Narnia"},
	}
	views, err := All(context.Background(), postings, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, p := range postings {
		if want := Enrich(p); !reflect.DeepEqual(views[i], want) {
			t.Errorf("view %d = %+v, want %+v", i, views[i], want)
		}
	}
}

func TestAll_Empty(t *testing.T) {
	views, err := All(context.Background(), nil, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(views) != 0 {
		t.Errorf("expected no views, got %d", len(views))
	}
}

func TestAll_ZeroWorkersRunsSequentially(t *testing.T) {
	views, err := All(context.Background(), []model.Posting{{ID: "x"}}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(views) != 1 || views[0].ID != "x" {
		t.Errorf("unexpected views: %+v", views)
	}
}

func TestAll_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := All(ctx, []model.Posting{{ID: "1"}, {ID: "2"}}, 2)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
