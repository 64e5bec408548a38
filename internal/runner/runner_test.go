package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/amishk599/jobfacts/internal/model"
)

// --- Mock/Fake Implementations ---

// MockFetcher returns a canned slice of postings or an error.
type MockFetcher struct {
	Postings []model.Posting
	Err      error
	calls    atomic.Int32
}

func (m *MockFetcher) FetchPostings(_ context.Context) ([]model.Posting, error) {
	m.calls.Add(1)
	return m.Postings, m.Err
}

// InMemoryStore is a map-based store for testing dedup.
type InMemoryStore struct {
	views map[string]model.PostingView
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{views: make(map[string]model.PostingView)}
}

func (s *InMemoryStore) HasSeen(key string) (bool, error) {
	_, ok := s.views[key]
	return ok, nil
}

func (s *InMemoryStore) Save(v model.PostingView) error {
	s.views[v.Key()] = v
	return nil
}

func (s *InMemoryStore) List(_ int) ([]model.PostingView, error) { return nil, nil }
func (s *InMemoryStore) Cleanup(_ time.Duration) error          { return nil }
func (s *InMemoryStore) Close() error                           { return nil }

// RecordingSink records which views were emitted.
type RecordingSink struct {
	Emitted []model.PostingView
	Err     error
}

func (s *RecordingSink) Emit(views []model.PostingView) error {
	if s.Err != nil {
		return s.Err
	}
	s.Emitted = append(s.Emitted, views...)
	return nil
}

// AcceptAllFilter matches every view.
type AcceptAllFilter struct{}

func (f *AcceptAllFilter) Match(_ model.PostingView) bool { return true }

// SalaryFilter matches views with a salary.
type SalaryFilter struct{}

func (f *SalaryFilter) Match(v model.PostingView) bool { return v.Salary != "" }

// --- Helpers ---

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func makePostings(ids ...string) []model.Posting {
	postings := make([]model.Posting, len(ids))
	for i, id := range ids {
		postings[i] = model.Posting{
			ID:          id,
			Company:     "testco",
			Title:       "Software Engineer",
			Location:    "Austin, TX",
			URL:         "https://example.com/" + id,
			Description: fmt.Sprintf("<p>Golang role paying $%d0,000 per year</p>", i+9),
			Source:      "test",
		}
	}
	return postings
}

func newRunner(fetcher model.PostingFetcher, filter model.ViewFilter, store model.ViewStore, sink model.Sink) *BoardRunner {
	r := NewBoardRunner("testco", fetcher, filter, store, sink, 2, discardLogger())
	r.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return r
}

// --- Tests ---

func TestRun_EnrichFilterAndDedup(t *testing.T) {
	store := NewInMemoryStore()
	store.Save(model.PostingView{ID: "2", Source: "test"})

	sink := &RecordingSink{}
	r := newRunner(&MockFetcher{Postings: makePostings("1", "2", "3")}, &AcceptAllFilter{}, store, sink)

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := len(sink.Emitted); got != 2 {
		t.Fatalf("emitted = %d, want 2", got)
	}
	first := sink.Emitted[0]
	if first.ID != "1" || first.Salary != "$90,000/year" || first.Location != "Texas" {
		t.Errorf("unexpected view: %+v", first)
	}
	if len(first.Keywords) != 1 || first.Keywords[0] != "Golang" {
		t.Errorf("Keywords = %v, want [Golang]", first.Keywords)
	}
	if first.Description != "<p>Golang role paying $90,000 per year</p>" {
		t.Errorf("Description = %q", first.Description)
	}
	if !first.EnrichedAt.Equal(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("EnrichedAt = %v", first.EnrichedAt)
	}

	for _, key := range []string{"test:1", "test:2", "test:3"} {
		if seen, _ := store.HasSeen(key); !seen {
			t.Errorf("view %s should be saved", key)
		}
	}
}

func TestRun_FetchError(t *testing.T) {
	sink := &RecordingSink{}
	r := newRunner(&MockFetcher{Err: errors.New("network down")}, &AcceptAllFilter{}, NewInMemoryStore(), sink)

	if err := r.Run(context.Background()); err == nil {
		t.Fatal("expected error, got nil")
	}
	if len(sink.Emitted) != 0 {
		t.Error("sink should not be called on fetch error")
	}
}

func TestRun_FilterUsesEnrichedFacts(t *testing.T) {
	postings := makePostings("paid", "unpaid")
	postings[1].Description = "Great culture, no numbers here"

	sink := &RecordingSink{}
	r := newRunner(&MockFetcher{Postings: postings}, &SalaryFilter{}, NewInMemoryStore(), sink)

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sink.Emitted) != 1 || sink.Emitted[0].ID != "paid" {
		t.Errorf("emitted = %+v, want only paid", sink.Emitted)
	}
}

func TestRun_EmitErrorDoesNotSave(t *testing.T) {
	store := NewInMemoryStore()
	sink := &RecordingSink{Err: errors.New("webhook down")}
	r := newRunner(&MockFetcher{Postings: makePostings("1")}, &AcceptAllFilter{}, store, sink)

	if err := r.Run(context.Background()); err == nil {
		t.Fatal("expected error, got nil")
	}
	if seen, _ := store.HasSeen("test:1"); seen {
		t.Error("view should not be saved when emit fails")
	}
}

func TestRun_DuplicateKeysInOneBatch(t *testing.T) {
	postings := append(makePostings("1"), makePostings("1")...)
	sink := &RecordingSink{}
	r := newRunner(&MockFetcher{Postings: postings}, &AcceptAllFilter{}, NewInMemoryStore(), sink)

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sink.Emitted) != 1 {
		t.Errorf("emitted = %d, want 1", len(sink.Emitted))
	}
}

func TestRun_SecondRunEmitsNothing(t *testing.T) {
	store := NewInMemoryStore()
	sink := &RecordingSink{}
	r := newRunner(&MockFetcher{Postings: makePostings("1", "2")}, &AcceptAllFilter{}, store, sink)

	for i := 0; i < 2; i++ {
		if err := r.Run(context.Background()); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}
	if len(sink.Emitted) != 2 {
		t.Errorf("emitted = %d, want 2", len(sink.Emitted))
	}
}

func TestRunAll_ContinuesAfterFailure(t *testing.T) {
	boardPause = 0
	defer func() { boardPause = time.Second }()

	bad := &MockFetcher{Err: errors.New("boom")}
	good := &MockFetcher{Postings: makePostings("1")}
	sink := &RecordingSink{}

	runners := []*BoardRunner{
		newRunner(bad, &AcceptAllFilter{}, NewInMemoryStore(), sink),
		newRunner(good, &AcceptAllFilter{}, NewInMemoryStore(), sink),
	}

	if failed := RunAll(context.Background(), runners, discardLogger()); failed != 1 {
		t.Errorf("failed = %d, want 1", failed)
	}
	if good.calls.Load() != 1 {
		t.Error("second board should run after the first fails")
	}
	if len(sink.Emitted) != 1 {
		t.Errorf("emitted = %d, want 1", len(sink.Emitted))
	}
}

func TestRunAll_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := &MockFetcher{}
	RunAll(ctx, []*BoardRunner{newRunner(f, &AcceptAllFilter{}, NewInMemoryStore(), &RecordingSink{})}, discardLogger())
	if f.calls.Load() != 0 {
		t.Error("no board should run on a cancelled context")
	}
}

func TestEvery_StopsOnCancel(t *testing.T) {
	boardPause = 0
	defer func() { boardPause = time.Second }()

	f := &MockFetcher{}
	runners := []*BoardRunner{newRunner(f, &AcceptAllFilter{}, NewInMemoryStore(), &RecordingSink{})}

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Millisecond)
	defer cancel()

	if err := Every(ctx, 50*time.Millisecond, runners, discardLogger()); err != nil {
		t.Fatalf("Every returned %v, want nil", err)
	}
	if c := f.calls.Load(); c < 2 {
		t.Errorf("expected at least 2 cycles, got %d", c)
	}
}
