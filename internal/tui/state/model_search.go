package state

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/reliefline/sos-inbox/internal/domain"
	"github.com/reliefline/sos-inbox/internal/search"
)

// searchMode is the list filter typed after "/".
type searchMode struct {
	active   bool
	input    textinput.Model
	provider search.Provider
}

func newSearchMode() searchMode {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "search title, message, city"
	ti.CharLimit = 100
	return searchMode{input: ti, provider: search.NewTokenProvider()}
}

func (s *searchMode) activate() tea.Cmd {
	s.active = true
	return s.input.Focus()
}

// finish leaves input mode and keeps the query applied.
func (s *searchMode) finish() {
	s.active = false
	s.input.Blur()
}

// clear leaves input mode and drops the query.
func (s *searchMode) clear() {
	s.finish()
	s.input.SetValue("")
}

func (s *searchMode) query() string {
	return strings.TrimSpace(s.input.Value())
}

// shown reports whether the search line takes screen space.
func (s *searchMode) shown() bool {
	return s.active || s.query() != ""
}

func (s *searchMode) apply(list []domain.Notification) []domain.Notification {
	return search.Filter(s.provider, list, s.query())
}

// handleSearchKey routes keys to the search input while it has focus.
func (m *Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.search.clear()
		m.cursor = 0
		return m, nil
	case tea.KeyEnter:
		m.search.finish()
		return m, nil
	}
	var cmd tea.Cmd
	m.search.input, cmd = m.search.input.Update(msg)
	m.cursor = 0
	return m, cmd
}
