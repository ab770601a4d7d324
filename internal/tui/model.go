// Package tui implements the interactive status browser (`rsyncwatch
// status`): a bubbletea model that polls the control socket and renders
// one row per destination, with a fuzzy filter over shortnames.
package tui

import (
	"fmt"
	"sort"
	"time"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/sahilm/fuzzy"

	"github.com/lsyncd-go/rsyncwatch/internal/status"
)

// StatusFunc fetches the current status of every destination, typically
// control.Client.Status.
type StatusFunc func() ([]status.Report, error)

// Model holds the TUI state for one running session.
type Model struct {
	fetch  StatusFunc
	follow bool

	reports []status.Report
	visible []status.Report
	cursor  int

	filterInput  textinput.Model
	filterActive bool

	width, height int
	err           error
}

// NewModel builds a Model that polls fetch once at start, and again every
// tick while follow is true.
func NewModel(fetch StatusFunc, follow bool) *Model {
	ti := textinput.New()
	ti.Placeholder = "filter by shortname"
	ti.Prompt = "/"
	return &Model{fetch: fetch, follow: follow, filterInput: ti}
}

type reportsMsg struct {
	reports []status.Report
	err     error
}

type tickMsg time.Time

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.load
}

func (m *Model) load() tea.Msg {
	reports, err := m.fetch()
	return reportsMsg{reports: reports, err: err}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case reportsMsg:
		m.err = msg.err
		if msg.err == nil {
			m.reports = msg.reports
			m.applyFilter()
		}
		if m.follow {
			return m, tick()
		}
		return m, nil
	case tickMsg:
		return m, m.load
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.filterActive {
		switch msg.String() {
		case "enter", "esc":
			m.filterActive = false
			m.filterInput.Blur()
			return m, nil
		case "ctrl+c":
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.filterInput, cmd = m.filterInput.Update(msg)
		m.applyFilter()
		return m, cmd
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}
	case "/":
		m.filterActive = true
		return m, m.filterInput.Focus()
	case "r":
		return m, m.load
	}
	return m, nil
}

func (m *Model) applyFilter() {
	sorted := append([]status.Report{}, m.reports...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Shortname < sorted[j].Shortname })

	filter := m.filterInput.Value()
	if filter == "" {
		m.visible = sorted
		m.cursor = 0
		return
	}

	names := make([]string, len(sorted))
	for i, r := range sorted {
		names[i] = r.Shortname
	}
	matches := fuzzy.Find(filter, names)
	filtered := make([]status.Report, len(matches))
	for i, match := range matches {
		filtered[i] = sorted[match.Index]
	}
	m.visible = filtered
	m.cursor = 0
}

func (m *Model) helpLine() string {
	if m.filterActive {
		return "Type to filter | Enter/Esc: apply | ctrl+c: quit"
	}
	return "↑/↓ move | /: filter | r: refresh | q: quit"
}

func (m *Model) statusLine() string {
	if m.err != nil {
		return fmt.Sprintf("error: %v", m.err)
	}
	return fmt.Sprintf("%d destination(s)", len(m.visible))
}
