package render

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/reliefline/sos-inbox/internal/domain"
	"github.com/reliefline/sos-inbox/internal/presentation"
)

const (
	statusWidth         = 2
	typeWidth           = 10
	cityWidth           = 16
	ageWidth            = 9
	columnGaps          = 8
	defaultTitleWidth   = 24
	minMessageWidth     = 10
	defaultViewWidth    = 80
	groupIndentSize     = 2
	groupExpandedSymbol = "▾"
)

var (
	headerColor   = lipgloss.Color("33")
	selectedColor = lipgloss.Color("33")
	mutedColor    = presentation.ColorDimmed
	unreadColor   = lipgloss.Color("196")
)

// HeaderState defines the inputs needed to render the screen header.
type HeaderState struct {
	Unread  int
	Total   int
	GroupBy domain.GroupByMode
	Width   int
}

// RowState defines the inputs needed to render a notification row.
type RowState struct {
	Notification domain.Notification
	Width        int
	Selected     bool
	Indent       int
	Now          time.Time
}

// FooterState defines the inputs needed to render footer help text.
type FooterState struct {
	Detail        bool
	ToastActive   bool
	Searching     bool
	StatusMessage string
}

// Header renders the title line and the column header.
func Header(state HeaderState) string {
	title := lipgloss.NewStyle().Bold(true).Foreground(headerColor)
	line := fmt.Sprintf("SOS inbox  %d unread / %d", state.Unread, state.Total)
	if state.GroupBy != "" && state.GroupBy != domain.GroupByNone {
		line += fmt.Sprintf("  grouped by %s", state.GroupBy)
	}

	columns := fmt.Sprintf("%-*s  %-*s  %-*s  %-*s  %-*s  MESSAGE",
		statusWidth, "",
		typeWidth, "TYPE",
		titleWidth(state.Width), "TITLE",
		cityWidth, "CITY",
		ageWidth, "AGE",
	)
	return title.Render(line) + "\n" + lipgloss.NewStyle().Foreground(headerColor).Render(columns)
}

// Row renders a single notification row.
func Row(state RowState) string {
	n := state.Notification
	tr := presentation.ForNotification(n)

	width := state.Width
	if width <= 0 {
		width = defaultViewWidth
	}
	tw := titleWidth(width)
	messageWidth := width - state.Indent - statusWidth - typeWidth - tw - cityWidth - ageWidth - columnGaps - 2
	if messageWidth < minMessageWidth {
		messageWidth = minMessageWidth
	}

	city := n.Locality()
	if city == "" {
		city = "-"
	}
	line := fmt.Sprintf("%s%-*s  %-*s  %-*s  %-*s  %-*s  %s",
		strings.Repeat(" ", state.Indent),
		statusWidth, ReadStatusIndicator(n.Read),
		typeWidth, truncate(tr.Icon+" "+tr.Label, typeWidth),
		tw, truncate(n.Title, tw),
		cityWidth, truncate(city, cityWidth),
		ageWidth, n.CreatedAtLabel(state.Now),
		truncate(n.Message, messageWidth),
	)

	style := tr.Style()
	if state.Selected {
		style = lipgloss.NewStyle().Bold(true).Background(selectedColor).Foreground(lipgloss.Color("0"))
	}
	return style.Render(line)
}

// ReadStatusIndicator returns the glyph marking a row unread or read.
func ReadStatusIndicator(read bool) string {
	if read {
		return "○"
	}
	return "●"
}

// GroupRow renders the header line of a group.
func GroupRow(g domain.Group, width int) string {
	label := fmt.Sprintf("%s %s (%d)", groupExpandedSymbol, g.DisplayName, g.Count)
	if g.UnreadCount > 0 {
		label += fmt.Sprintf(" %d unread", g.UnreadCount)
	}
	style := lipgloss.NewStyle().Bold(true).Foreground(headerColor)
	if g.UnreadCount > 0 {
		style = style.Foreground(presentation.ColorWarning)
	}
	return style.Render(truncate(label, width))
}

// Footer renders the key help and the status message.
func Footer(state FooterState) string {
	helpStyle := lipgloss.NewStyle().Foreground(mutedColor)

	var help []string
	switch {
	case state.Searching:
		help = append(help, "enter: apply", "esc: clear")
	case state.Detail:
		help = append(help, "esc: back")
	default:
		help = append(help, "j/k: move", "enter: open", "r: toggle read", "R: mark all read", "g: group", "/: search")
	}
	if state.ToastActive {
		help = append(help, "enter: open alert", "x: close alert")
	}
	help = append(help, "q: quit")

	out := helpStyle.Render(strings.Join(help, "  |  "))
	if state.StatusMessage != "" {
		out = lipgloss.NewStyle().Foreground(presentation.ColorSuccess).Render(state.StatusMessage) + "\n" + out
	}
	return out
}

// Empty renders the message shown when the list has no rows.
func Empty(failed bool) string {
	msg := "No notifications yet"
	if failed {
		msg = "Notifications are unavailable right now"
	}
	return lipgloss.NewStyle().Foreground(mutedColor).Render(msg)
}

// NoMatches renders the message shown when the search query hides every row.
func NoMatches(query string) string {
	return lipgloss.NewStyle().Foreground(mutedColor).Render(fmt.Sprintf("No notifications match %q (esc to clear)", query))
}

// LoginRequired renders the blocking signed-out message.
func LoginRequired() string {
	style := lipgloss.NewStyle().Bold(true).Foreground(unreadColor).Padding(1, 2)
	return style.Render("You must log in to see your notifications.\nSet owner_id or pass --owner.")
}

// Detail renders the resource view reached from a notification.
func Detail(resourceID string, n *domain.Notification, now time.Time) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(headerColor).Render("Resource " + resourceID))
	if n == nil {
		return b.String()
	}
	tr := presentation.ForNotification(*n)
	fields := [][2]string{
		{"Alert", n.Title},
		{"Type", tr.Badge()},
		{"Message", n.Message},
		{"City", n.Locality()},
		{"Request", n.RequestID},
		{"Created", n.CreatedAtLabel(now)},
	}
	label := lipgloss.NewStyle().Foreground(mutedColor).Width(9)
	for _, f := range fields {
		if f[1] == "" {
			continue
		}
		b.WriteString("\n")
		b.WriteString(label.Render(f[0]) + " " + f[1])
	}
	return b.String()
}

func titleWidth(width int) int {
	if width <= 0 || width >= 100 {
		return defaultTitleWidth + 8
	}
	return defaultTitleWidth
}

func truncate(value string, width int) string {
	if width <= 0 || utf8.RuneCountInString(value) <= width {
		return value
	}
	if width <= 3 {
		return string([]rune(value)[:width])
	}
	return string([]rune(value)[:width-3]) + "..."
}
