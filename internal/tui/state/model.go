// Package state holds the bubbletea model of the notifications screen.
package state

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/reliefline/sos-inbox/internal/domain"
	"github.com/reliefline/sos-inbox/internal/pipeline"
	"github.com/reliefline/sos-inbox/internal/search"
	"github.com/reliefline/sos-inbox/internal/stream"
)

const (
	defaultViewportWidth  = 80
	defaultViewportHeight = 24
	headerLines           = 2
	footerLines           = 2
	minListHeight         = 3
)

// router is the navigation target handed to the pipeline.
type router struct {
	route string
	id    string
}

func (r *router) Navigate(route, id string) {
	r.route = route
	r.id = id
}

func (r *router) back() {
	r.route = ""
	r.id = ""
}

// Model is the notifications screen. It owns one pipeline for its lifetime.
type Model struct {
	ctx      context.Context
	pipeline *pipeline.Pipeline
	router   *router
	now      func() time.Time

	spinner  spinner.Model
	viewport viewport.Model
	width    int
	height   int
	cursor   int
	groupBy  domain.GroupByMode
	search   searchMode

	statusMessage string
	lastTick      time.Time
}

// NewModel builds the screen around a new pipeline. The navigator of opts
// is replaced by the screen's own router.
func NewModel(ctx context.Context, opts pipeline.Options) *Model {
	r := &router{}
	opts.Navigator = r
	if opts.Now == nil {
		opts.Now = time.Now
	}
	s := spinner.New()
	s.Spinner = spinner.Dot
	return &Model{
		ctx:      ctx,
		pipeline: pipeline.New(opts),
		router:   r,
		now:      opts.Now,
		spinner:  s,
		viewport: viewport.New(defaultViewportWidth, defaultViewportHeight-headerLines-footerLines),
		groupBy:  domain.GroupByNone,
		search:   newSearchMode(),
	}
}

// Init subscribes. Without a signed-in owner nothing is started.
func (m *Model) Init() tea.Cmd {
	if err := m.pipeline.Start(m.ctx); err != nil {
		if !errors.Is(err, pipeline.ErrAuthRequired) {
			m.statusMessage = err.Error()
		}
		return nil
	}
	return tea.Batch(m.spinner.Tick, waitForSnapshot(m.pipeline.Updates()), scheduleToastTick())
}

// Update handles messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		return m, nil
	case snapshotMsg:
		m.pipeline.HandleSnapshot(stream.Snapshot(msg))
		m.clampCursor()
		return m, waitForSnapshot(m.pipeline.Updates())
	case updatesClosedMsg:
		return m, nil
	case toastTickMsg:
		return m, m.handleToastTick(time.Time(msg))
	case spinner.TickMsg:
		if !m.pipeline.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleToastTick(t time.Time) tea.Cmd {
	d := t.Sub(m.lastTick)
	if m.lastTick.IsZero() || d < 0 {
		d = toastTickInterval
	}
	m.lastTick = t
	m.pipeline.Tick(d)
	return scheduleToastTick()
}

// Close releases the pipeline. Safe to call more than once.
func (m *Model) Close() {
	m.pipeline.Close()
}

// GroupBy returns the current list grouping.
func (m *Model) GroupBy() domain.GroupByMode {
	return m.groupBy
}

// SetGroupBy changes the list grouping. Invalid modes are ignored.
func (m *Model) SetGroupBy(mode domain.GroupByMode) {
	if mode.IsValid() {
		m.groupBy = mode
		m.cursor = 0
	}
}

// SetSearchProvider changes how the "/" query matches rows.
func (m *Model) SetSearchProvider(p search.Provider) {
	if p != nil {
		m.search.provider = p
	}
}

// Pipeline exposes the screen's pipeline.
func (m *Model) Pipeline() *pipeline.Pipeline {
	return m.pipeline
}

// filtered returns the notifications matching the search query, newest first.
func (m *Model) filtered() []domain.Notification {
	return m.search.apply(m.pipeline.Notifications())
}

// visible returns the filtered notifications in display order.
func (m *Model) visible() []domain.Notification {
	list := m.filtered()
	if m.groupBy == domain.GroupByNone {
		return list
	}
	out := make([]domain.Notification, 0, len(list))
	for _, g := range domain.GroupNotifications(list, m.groupBy) {
		out = append(out, g.Notifications...)
	}
	return out
}

func (m *Model) selected() (domain.Notification, bool) {
	list := m.visible()
	if m.cursor < 0 || m.cursor >= len(list) {
		return domain.Notification{}, false
	}
	return list[m.cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.filtered())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// findByResource returns the notification that links to id.
func (m *Model) findByResource(id string) *domain.Notification {
	for _, n := range m.pipeline.Notifications() {
		if n.ResourceID == id {
			return &n
		}
	}
	return nil
}
