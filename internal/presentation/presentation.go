// Package presentation maps a notification's type and read state to the
// color and icon it is drawn with.
package presentation

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/reliefline/sos-inbox/internal/domain"
)

// Colors are ANSI 256 palette numbers.
const (
	ColorInfo    = lipgloss.Color("33")
	ColorWarning = lipgloss.Color("214")
	ColorError   = lipgloss.Color("196")
	ColorSuccess = lipgloss.Color("42")
	ColorDimmed  = lipgloss.Color("241")
)

// Treatment is the visual identity of a notification type.
type Treatment struct {
	Color  lipgloss.Color
	Icon   string
	Label  string
	Dimmed bool
}

var treatments = map[domain.Type]Treatment{
	domain.TypeInfo:    {Color: ColorInfo, Icon: "ℹ", Label: "info"},
	domain.TypeWarning: {Color: ColorWarning, Icon: "⚠", Label: "warning"},
	domain.TypeError:   {Color: ColorError, Icon: "✖", Label: "error"},
	domain.TypeSuccess: {Color: ColorSuccess, Icon: "✔", Label: "success"},
}

// Project returns the treatment of t. Unknown types get the info treatment.
func Project(t domain.Type) Treatment {
	if tr, ok := treatments[t]; ok {
		return tr
	}
	return treatments[domain.TypeInfo]
}

// ForNotification is Project with read notifications dimmed.
func ForNotification(n domain.Notification) Treatment {
	tr := Project(n.Type)
	if n.Read {
		tr.Color = ColorDimmed
		tr.Dimmed = true
	}
	return tr
}

// Style is the foreground style of the treatment.
func (t Treatment) Style() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Color).Bold(!t.Dimmed)
}

// Badge renders the icon and label.
func (t Treatment) Badge() string {
	return t.Style().Render(t.Icon + " " + t.Label)
}
