package inspect

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/amishk599/jobfacts/internal/config"
	"github.com/amishk599/jobfacts/internal/model"
)

func timePtr(t time.Time) *time.Time { return &t }

func sampleViews() []model.PostingView {
	return []model.PostingView{
		{ID: "old", Title: "Backend Engineer", Location: "Texas", PostedAt: timePtr(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))},
		{ID: "undated", Title: "Data Engineer", Location: "Remote", Salary: "$55.00/hr"},
		{
			ID:          "new",
			Title:       "Platform Engineer",
			Location:    "Multiple locations: Texas, Washington",
			Salary:      "$80,000 - $120,000/year",
			Keywords:    []string{"Golang", "Kubernetes"},
			Description: "<p>Run <b>Golang</b> services</p>",
			PostedAt:    timePtr(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)),
		},
	}
}

func TestSortByPostedAt(t *testing.T) {
	views := sampleViews()
	sortByPostedAt(views)
	got := []string{views[0].ID, views[1].ID, views[2].ID}
	want := []string{"new", "old", "undated"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestFactsLine(t *testing.T) {
	v := sampleViews()[2]
	want := "Multiple locations: Texas, Washington · $80,000 - $120,000/year · 2 keywords · 2026-02-01"
	if got := factsLine(v); got != want {
		t.Errorf("factsLine = %q, want %q", got, want)
	}
}

func TestWordWrap(t *testing.T) {
	got := wordWrap("one two three four five", 9)
	want := "one two\nthree\nfour five"
	if got != want {
		t.Errorf("wordWrap = %q, want %q", got, want)
	}
}

func TestBrowser_OpenDetailAndToggleDescription(t *testing.T) {
	views := sampleViews()
	sortByPostedAt(views)
	var m tea.Model = browserModel{
		all:     views,
		matched: views[:1],
		now:     func() time.Time { return time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC) },
	}

	m, _ = m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	bm := m.(browserModel)
	if bm.screen != screenDetail || bm.detail.ID != "new" {
		t.Fatalf("expected detail of newest posting, got screen=%v id=%s", bm.screen, bm.detail.ID)
	}
	detail := bm.renderDetail()
	for _, want := range []string{"$80,000 - $120,000/year", "Golang, Kubernetes", "2 days ago", "press r"} {
		if !strings.Contains(detail, want) {
			t.Errorf("detail missing %q", want)
		}
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	bm = m.(browserModel)
	if !bm.showDescription {
		t.Fatal("r should show the description")
	}
	if detail := bm.renderDetail(); !strings.Contains(detail, "Run Golang services") {
		t.Errorf("description should render as plain text:\n%s", detail)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.(browserModel).screen != screenList {
		t.Error("esc should return to the list")
	}
}

func TestBrowser_QuitAndBack(t *testing.T) {
	var m tea.Model = browserModel{now: time.Now}
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	quit, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if !quit.(browserModel).wantQuit {
		t.Error("q should request quit")
	}
	back, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if back.(browserModel).wantQuit {
		t.Error("esc should go back, not quit")
	}
}

func TestPicker_Navigation(t *testing.T) {
	boards := []config.BoardConfig{{Name: "a", ATS: "greenhouse"}, {Name: "b", ATS: "lever"}}
	var m tea.Model = pickerModel{boards: boards, chosen: pickerPending}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if got := m.(pickerModel).chosen; got != 1 {
		t.Errorf("chosen = %d, want 1", got)
	}
	if !strings.Contains(m.View(), "b (lever)") {
		t.Error("picker view should list boards")
	}
}

func TestLoader_DoneAndCancel(t *testing.T) {
	m := newLoaderModel("acme", nil)
	done, _ := m.Update(loadDoneMsg{views: sampleViews()})
	if lm := done.(loaderModel); !lm.done || len(lm.result) != 3 {
		t.Errorf("unexpected loader state: done=%v n=%d", lm.done, len(lm.result))
	}

	cancelled, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if lm := cancelled.(loaderModel); lm.err != errCancelled {
		t.Errorf("err = %v, want errCancelled", lm.err)
	}
}
