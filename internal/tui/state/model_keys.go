package state

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/reliefline/sos-inbox/internal/domain"
	"github.com/reliefline/sos-inbox/internal/pipeline"
)

var groupCycle = []domain.GroupByMode{domain.GroupByNone, domain.GroupByCity, domain.GroupByType}

// handleKeyMsg processes keyboard input for the TUI.
func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.Close()
		return m, tea.Quit
	}
	if m.search.active {
		return m.handleSearchKey(msg)
	}
	if msg.String() == "q" {
		m.Close()
		return m, tea.Quit
	}
	if m.pipeline.AuthRequired() {
		return m, nil
	}
	m.statusMessage = ""

	if m.router.route != "" {
		if msg.String() == "esc" {
			m.router.back()
		}
		return m, nil
	}

	switch msg.String() {
	case "enter":
		if m.toastShowing() {
			m.pipeline.OnTap()
			return m, nil
		}
		m.openSelected()
	case "x":
		m.pipeline.OnDismiss()
	case "j", "down":
		m.moveCursor(1)
	case "k", "up":
		m.moveCursor(-1)
	case "r":
		if n, ok := m.selected(); ok {
			m.pipeline.ToggleRead(n.ID)
		}
	case "R":
		unread := m.pipeline.UnreadCount()
		m.pipeline.MarkAllRead()
		m.statusMessage = fmt.Sprintf("Marked %d as read", unread)
	case "g":
		m.cycleGroupBy()
	case "/":
		return m, m.search.activate()
	case "esc":
		if m.search.query() != "" {
			m.search.clear()
			m.cursor = 0
		}
	}
	return m, nil
}

func (m *Model) toastShowing() bool {
	e, ok := m.pipeline.ActiveToast()
	return ok && e.State == pipeline.StateShowing
}

// openSelected marks the selected row read and follows its resource link.
func (m *Model) openSelected() {
	n, ok := m.selected()
	if !ok {
		return
	}
	m.pipeline.MarkRead(n.ID)
	if n.HasResource() {
		m.router.Navigate(pipeline.RouteResource, n.ResourceID)
	}
}

func (m *Model) moveCursor(delta int) {
	n := len(m.filtered())
	if n == 0 {
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), n-1)
}

func (m *Model) cycleGroupBy() {
	for i, mode := range groupCycle {
		if mode == m.groupBy {
			m.groupBy = groupCycle[(i+1)%len(groupCycle)]
			m.cursor = 0
			return
		}
	}
	m.groupBy = domain.GroupByNone
}
