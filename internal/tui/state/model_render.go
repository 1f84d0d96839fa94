package state

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/reliefline/sos-inbox/internal/domain"
	"github.com/reliefline/sos-inbox/internal/pipeline"
	"github.com/reliefline/sos-inbox/internal/tui/render"
)

// View renders the TUI.
func (m *Model) View() string {
	width := m.width
	if width == 0 {
		width = defaultViewportWidth
	}
	height := m.height
	if height == 0 {
		height = defaultViewportHeight
	}

	if m.pipeline.AuthRequired() {
		return render.LoginRequired() + "\n" + render.Footer(render.FooterState{Detail: true})
	}

	var s strings.Builder
	used := headerLines + footerLines

	if e, ok := m.pipeline.ActiveToast(); ok {
		toast := render.Toast(e, width, m.pipeline.PendingToasts())
		s.WriteString(toast)
		s.WriteString("\n")
		used += lipgloss.Height(toast)
	}

	s.WriteString(render.Header(render.HeaderState{
		Unread:  m.pipeline.UnreadCount(),
		Total:   len(m.pipeline.Notifications()),
		GroupBy: m.groupBy,
		Width:   width,
	}))
	s.WriteString("\n")
	if m.search.shown() && m.router.route == "" {
		s.WriteString(m.search.input.View())
		s.WriteString("\n")
		used++
	}

	switch {
	case m.pipeline.Loading():
		s.WriteString(m.spinner.View() + " Loading notifications...")
	case m.router.route == pipeline.RouteResource:
		s.WriteString(render.Detail(m.router.id, m.findByResource(m.router.id), m.now()))
	default:
		m.viewport.Width = width
		m.viewport.Height = max(height-used, minListHeight)
		content, cursorLine := m.listContent(width)
		m.viewport.SetContent(content)
		m.ensureCursorVisible(cursorLine)
		s.WriteString(m.viewport.View())
	}

	s.WriteString("\n")
	s.WriteString(render.Footer(render.FooterState{
		Detail:        m.router.route != "",
		ToastActive:   m.toastShowing(),
		Searching:     m.search.active,
		StatusMessage: m.statusMessage,
	}))
	return s.String()
}

// listContent renders the rows and reports the line holding the cursor.
func (m *Model) listContent(width int) (string, int) {
	if len(m.pipeline.Notifications()) == 0 {
		return render.Empty(m.pipeline.Err() != nil), 0
	}
	list := m.filtered()
	if len(list) == 0 {
		return render.NoMatches(m.search.query()), 0
	}

	now := m.now()
	var lines []string
	cursorLine := 0
	row := 0
	addRow := func(n domain.Notification, indent int) {
		if row == m.cursor {
			cursorLine = len(lines)
		}
		lines = append(lines, render.Row(render.RowState{
			Notification: n,
			Width:        width,
			Selected:     row == m.cursor,
			Indent:       indent,
			Now:          now,
		}))
		row++
	}

	if m.groupBy == domain.GroupByNone {
		for _, n := range list {
			addRow(n, 0)
		}
		return strings.Join(lines, "\n"), cursorLine
	}
	for _, g := range domain.GroupNotifications(list, m.groupBy) {
		lines = append(lines, render.GroupRow(g, width))
		for _, n := range g.Notifications {
			addRow(n, 2)
		}
	}
	return strings.Join(lines, "\n"), cursorLine
}

// ensureCursorVisible scrolls the viewport so line is on screen.
func (m *Model) ensureCursorVisible(line int) {
	switch {
	case line < m.viewport.YOffset:
		m.viewport.SetYOffset(line)
	case line >= m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(line - m.viewport.Height + 1)
	}
}
