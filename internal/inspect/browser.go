package inspect

import (
	"fmt"
	"os/exec"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/amishk599/jobfacts/internal/model"
	"github.com/amishk599/jobfacts/internal/normalize"
)

// Lines per view item in the list (title + facts line + blank separator).
const viewItemHeight = 3

type screen int

const (
	screenList screen = iota
	screenDetail
)

var (
	activeBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("39"))

	inactiveBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1)

	activeHeaderStyle   = headerStyle.Foreground(lipgloss.Color("39"))
	inactiveHeaderStyle = headerStyle.Foreground(lipgloss.Color("240"))

	statusBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))

	itemTitleStyle = lipgloss.NewStyle().
			Bold(true)

	itemFactsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	selectedTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("24"))

	selectedFactsStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252")).
				Background(lipgloss.Color("24"))

	detailLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Width(12)

	salaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	missingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	detailTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				MarginBottom(1)

	dividerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true)

	bodyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))
)

type browserModel struct {
	all        []model.PostingView
	matched    []model.PostingView
	left       viewport.Model
	right      viewport.Model
	activePane int // 0=all, 1=matched
	leftCur    int
	rightCur   int
	width      int
	height     int
	ready      bool

	screen          screen
	detail          model.PostingView
	detailViewport  viewport.Model
	showDescription bool

	now      func() time.Time
	wantQuit bool
}

func (m browserModel) Init() tea.Cmd {
	return nil
}

func (m browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		if m.screen == screenDetail {
			m.detailViewport.Width = m.width - 4
			m.detailViewport.Height = m.height - 4
			m.detailViewport.SetContent(m.renderDetail())
		}
		return m, nil

	case tea.KeyMsg:
		if m.screen == screenDetail {
			return m.updateDetail(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m browserModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.wantQuit = true
		return m, tea.Quit
	case "esc", "b":
		m.wantQuit = false
		return m, tea.Quit
	case "tab", "left", "right":
		m.activePane = 1 - m.activePane
		m.recalcContent()
		return m, nil
	case "up", "k":
		m.moveCursor(-1)
		m.recalcContent()
		m.ensureCursorVisible()
		return m, nil
	case "down", "j":
		m.moveCursor(1)
		m.recalcContent()
		m.ensureCursorVisible()
		return m, nil
	case "enter":
		return m.openDetail()
	}

	// pgup/pgdn/home/end go to the active pane.
	var cmd tea.Cmd
	if m.activePane == 0 {
		m.left, cmd = m.left.Update(msg)
	} else {
		m.right, cmd = m.right.Update(msg)
	}
	return m, cmd
}

func (m browserModel) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.wantQuit = true
		return m, tea.Quit
	case "esc", "backspace":
		m.screen = screenList
		return m, nil
	case "o":
		openURL(m.detail.URL)
		return m, nil
	case "r":
		if m.detail.Description != "" {
			m.showDescription = !m.showDescription
			m.detailViewport.SetContent(m.renderDetail())
			m.detailViewport.SetYOffset(0)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.detailViewport, cmd = m.detailViewport.Update(msg)
	return m, cmd
}

func (m *browserModel) moveCursor(delta int) {
	if m.activePane == 0 {
		m.leftCur = clamp(m.leftCur+delta, 0, max(len(m.all)-1, 0))
	} else {
		m.rightCur = clamp(m.rightCur+delta, 0, max(len(m.matched)-1, 0))
	}
}

func (m *browserModel) ensureCursorVisible() {
	vp, cursor := &m.left, m.leftCur
	if m.activePane == 1 {
		vp, cursor = &m.right, m.rightCur
	}

	top := cursor * viewItemHeight
	bottom := top + viewItemHeight - 1
	if top < vp.YOffset {
		vp.SetYOffset(top)
	} else if bottom >= vp.YOffset+vp.Height {
		vp.SetYOffset(bottom - vp.Height + 1)
	}
}

func (m browserModel) openDetail() (tea.Model, tea.Cmd) {
	views, cursor := m.all, m.leftCur
	if m.activePane == 1 {
		views, cursor = m.matched, m.rightCur
	}
	if len(views) == 0 {
		return m, nil
	}

	m.screen = screenDetail
	m.detail = views[cursor]
	m.showDescription = false
	m.detailViewport = viewport.New(m.width-4, m.height-4)
	m.detailViewport.SetContent(m.renderDetail())
	return m, nil
}

func (m *browserModel) recalcLayout() {
	// 2 border chars per pane + 1 gap between panes.
	paneWidth := max((m.width-5)/2, 20)
	// Header, border top/bottom and status bar.
	paneHeight := max(m.height-4, 5)

	if !m.ready {
		m.left = viewport.New(paneWidth, paneHeight)
		m.right = viewport.New(paneWidth, paneHeight)
		m.ready = true
	} else {
		m.left.Width, m.left.Height = paneWidth, paneHeight
		m.right.Width, m.right.Height = paneWidth, paneHeight
	}
	m.recalcContent()
}

func (m *browserModel) recalcContent() {
	m.left.SetContent(renderViews(m.all, m.leftCur, m.activePane == 0))
	m.right.SetContent(renderViews(m.matched, m.rightCur, m.activePane == 1))
}

func (m browserModel) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if m.screen == screenDetail {
		return m.viewDetail()
	}
	return m.viewList()
}

func (m browserModel) viewList() string {
	paneWidth := m.left.Width

	leftHeader := fmt.Sprintf(" All Postings (%d)", len(m.all))
	rightHeader := fmt.Sprintf(" Matched (%d)", len(m.matched))

	leftH, rightH := activeHeaderStyle, inactiveHeaderStyle
	leftB, rightB := activeBorderStyle, inactiveBorderStyle
	if m.activePane == 1 {
		leftH, rightH = rightH, leftH
		leftB, rightB = rightB, leftB
	}

	headerRow := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(paneWidth+2).Render(leftH.Render(leftHeader)),
		" ",
		lipgloss.NewStyle().Width(paneWidth+2).Render(rightH.Render(rightHeader)),
	)
	panes := lipgloss.JoinHorizontal(lipgloss.Top,
		leftB.Width(paneWidth).Render(m.left.View()),
		" ",
		rightB.Width(paneWidth).Render(m.right.View()),
	)

	status := fmt.Sprintf(" %d total | %d with salary | %d matched    ←/→/Tab switch  ↑/↓ cursor  Enter detail  Esc back  q quit",
		len(m.all), countWithSalary(m.all), len(m.matched))
	statusBar := statusBarStyle.Width(m.width).Render(status)

	return headerRow + "\n" + panes + "\n" + statusBar
}

func (m browserModel) viewDetail() string {
	title := detailTitleStyle.Render("Posting Facts")
	content := activeBorderStyle.Width(m.width - 2).Render(m.detailViewport.View())

	status := " o open URL  esc/backspace back  ↑/↓ scroll  q quit"
	if m.detail.Description != "" {
		status = " o open URL  r description  esc/backspace back  ↑/↓ scroll  q quit"
	}
	return title + "\n" + content + "\n" + statusBarStyle.Width(m.width).Render(status)
}

func (m browserModel) renderDetail() string {
	v := m.detail
	var b strings.Builder

	field := func(label, value string) {
		b.WriteString(detailLabelStyle.Render(label))
		b.WriteString(value)
		b.WriteByte('\n')
	}
	orMissing := func(s, missing string) string {
		if s == "" {
			return missingStyle.Render(missing)
		}
		return s
	}

	field("Title", v.Title)
	field("Company", v.Company)
	field("Source", v.Source+" / "+v.ID)
	if v.PostedAt != nil {
		field("Posted", v.PostedAt.UTC().Format("2006-01-02 15:04 MST")+" ("+humanize.RelTime(*v.PostedAt, m.now(), "ago", "from now")+")")
	}

	b.WriteByte('\n')
	salary := missingStyle.Render("not found")
	if v.Salary != "" {
		salary = salaryStyle.Render(v.Salary)
	}
	field("Salary", salary)
	field("Location", orMissing(v.Location, "none"))
	field("Keywords", orMissing(strings.Join(v.Keywords, ", "), "none"))

	b.WriteByte('\n')
	field("URL", v.URL)

	if v.Description != "" {
		wrapWidth := max(m.width-8, 20)
		b.WriteByte('\n')
		if m.showDescription {
			label := "── Normalized Description "
			fill := strings.Repeat("─", max(wrapWidth-len([]rune(label)), 3))
			b.WriteString(dividerStyle.Render(label+fill) + "\n\n")
			b.WriteString(bodyStyle.Render(wordWrap(normalize.PlainText(v.Description), wrapWidth)) + "\n")
		} else {
			b.WriteString(hintStyle.Render(fmt.Sprintf("  press r to read the description (%s)", humanize.Bytes(uint64(len(v.Description))))) + "\n")
		}
	}

	return b.String()
}

func renderViews(views []model.PostingView, cursor int, isActive bool) string {
	if len(views) == 0 {
		return "  (no postings)"
	}

	var b strings.Builder
	for i, v := range views {
		titleSt, factsSt, prefix := itemTitleStyle, itemFactsStyle, "  "
		if isActive && i == cursor {
			titleSt, factsSt, prefix = selectedTitleStyle, selectedFactsStyle, "> "
		}

		b.WriteString(prefix)
		b.WriteString(titleSt.Render(v.Title))
		b.WriteByte('\n')

		b.WriteString(prefix)
		b.WriteString(factsSt.Render(factsLine(v)))
		b.WriteByte('\n')

		if i < len(views)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// factsLine is the one-line summary shown under each title.
func factsLine(v model.PostingView) string {
	parts := []string{v.Location}
	if v.Salary != "" {
		parts = append(parts, v.Salary)
	}
	if n := len(v.Keywords); n > 0 {
		parts = append(parts, fmt.Sprintf("%d keywords", n))
	}
	if v.PostedAt != nil {
		parts = append(parts, v.PostedAt.Format("2006-01-02"))
	}
	return strings.Join(parts, " · ")
}

func countWithSalary(views []model.PostingView) int {
	n := 0
	for _, v := range views {
		if v.Salary != "" {
			n++
		}
	}
	return n
}

// sortByPostedAt orders views newest first; undated views go last.
func sortByPostedAt(views []model.PostingView) {
	sort.SliceStable(views, func(i, j int) bool {
		a, b := views[i].PostedAt, views[j].PostedAt
		if a == nil || b == nil {
			return a != nil && b == nil
		}
		return a.After(*b)
	})
}

func wordWrap(text string, width int) string {
	var out []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			if len(line)+1+len(w) <= width {
				line += " " + w
			} else {
				out = append(out, line)
				line = w
			}
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// openURL opens url in the default system browser, fire-and-forget.
func openURL(url string) {
	if url == "" {
		return
	}
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return
	}
	_ = cmd.Start()
}

// RunBrowser launches the split-pane browser over all and matched views.
// Returns wantQuit=true if the user pressed q/ctrl+c, false if they pressed
// esc to return to the board picker.
func RunBrowser(all, matched []model.PostingView) (bool, error) {
	sortByPostedAt(all)
	sortByPostedAt(matched)

	m := browserModel{all: all, matched: matched, now: time.Now}
	p := tea.NewProgram(m, tea.WithAltScreen())
	result, err := p.Run()
	if err != nil {
		return false, err
	}
	return result.(browserModel).wantQuit, nil
}
