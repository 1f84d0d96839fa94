package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/reliefline/sos-inbox/internal/pipeline"
	"github.com/reliefline/sos-inbox/internal/presentation"
)

const (
	toastWidth = 48
	// toastSlide is how many columns a fully hidden toast is shifted by.
	toastSlide = 12
)

// Toast renders the active toast. The slide is approximated by shifting the
// box right, the fade by dimming it while it is less than half visible.
func Toast(e pipeline.Entry, width int, pending int) string {
	n := e.Notification
	tr := presentation.Project(n.Type)

	border := tr.Color
	if e.Opacity() < 0.5 {
		border = presentation.ColorDimmed
	}
	body := tr.Icon + " " + n.Title
	if n.Message != "" {
		body += "\n" + n.Message
	}
	if pending > 0 {
		body += "\n" + lipgloss.NewStyle().Foreground(presentation.ColorDimmed).Render(plural(pending))
	}

	w := toastWidth
	if width > 0 && width-2 < w {
		w = max(width-2, 10)
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Foreground(border).
		Width(w).
		Render(body)

	shift := int(e.Offset() * toastSlide)
	if shift == 0 {
		return box
	}
	pad := strings.Repeat(" ", shift)
	lines := strings.Split(box, "\n")
	for i := range lines {
		lines[i] = pad + lines[i]
	}
	return strings.Join(lines, "\n")
}

func plural(n int) string {
	if n == 1 {
		return "+1 more alert"
	}
	return fmt.Sprintf("+%d more alerts", n)
}
