package tui

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/wordwrap"

	"github.com/lsyncd-go/rsyncwatch/internal/status"
)

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("rsyncwatch status"))
	b.WriteString("\n")

	if m.filterActive || m.filterInput.Value() != "" {
		b.WriteString(filterStyle.Render(m.filterInput.View()))
		b.WriteString("\n")
	}

	header := headerStyle.Render(fmt.Sprintf("%-16s %-6s %6s %6s %5s %-10s %s",
		"DEST", "REMOTE", "DIRS", "TREES", "FAIL", "LAST", "PATH"))
	b.WriteString(header)
	b.WriteString("\n")

	wrapWidth := m.width
	if wrapWidth <= 0 {
		wrapWidth = 100
	}

	for i, r := range m.visible {
		line := row(r, wrapWidth)
		if i == m.cursor {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render(m.statusLine()))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.helpLine()))
	return b.String()
}

func row(r status.Report, width int) string {
	remote := "no"
	if r.Remote {
		remote = "yes"
	}
	last := r.LastOutcome
	if r.Dropped {
		last = "dropped"
	}
	if last == "" {
		last = "-"
	}
	line := fmt.Sprintf("%-16s %-6s %6d %6d %5d %-10s", r.Shortname, remote,
		r.QueuedDirs, r.QueuedTrees, r.FailCount, last)
	style := outcomeStyle(r.LastOutcome, r.Dropped)
	pathCol := wordwrap.String(r.Path, max(10, width-len(line)-1))
	return style.Render(line) + " " + pathCol
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
