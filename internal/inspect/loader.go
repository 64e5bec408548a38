package inspect

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/jobfacts/internal/model"
)

// LoadFunc fetches and enriches the postings of one board.
type LoadFunc func(ctx context.Context) ([]model.PostingView, error)

var errCancelled = errors.New("cancelled")

type loadDoneMsg struct {
	views []model.PostingView
	err   error
}

type loaderModel struct {
	boardName string
	load      LoadFunc
	timeout   time.Duration
	spinner   spinner.Model
	result    []model.PostingView
	err       error
	done      bool
}

func newLoaderModel(boardName string, load LoadFunc) loaderModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	return loaderModel{
		boardName: boardName,
		load:      load,
		timeout:   2 * time.Minute,
		spinner:   s,
	}
}

func (m loaderModel) Init() tea.Cmd {
	return tea.Batch(m.doLoad(), m.spinner.Tick)
}

func (m loaderModel) doLoad() tea.Cmd {
	load, timeout := m.load, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		views, err := load(ctx)
		return loadDoneMsg{views: views, err: err}
	}
}

func (m loaderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadDoneMsg:
		m.result = msg.views
		m.err = msg.err
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.done = true
			m.err = errCancelled
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m loaderModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s Fetching and enriching postings from %s...\n", m.spinner.View(), m.boardName)
}

// RunLoader shows a spinner while load runs. It renders inline (no alt screen).
func RunLoader(boardName string, load LoadFunc) ([]model.PostingView, error) {
	p := tea.NewProgram(newLoaderModel(boardName, load))
	result, err := p.Run()
	if err != nil {
		return nil, err
	}
	final := result.(loaderModel)
	return final.result, final.err
}
