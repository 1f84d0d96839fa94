package render

import (
	"strings"
	"testing"
	"time"

	"github.com/reliefline/sos-inbox/internal/domain"
	"github.com/reliefline/sos-inbox/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)

func TestReadStatusIndicator(t *testing.T) {
	assert.Equal(t, "●", ReadStatusIndicator(false))
	assert.Equal(t, "○", ReadStatusIndicator(true))
}

func TestHeader(t *testing.T) {
	out := Header(HeaderState{Unread: 2, Total: 5, Width: 80})
	assert.Contains(t, out, "2 unread / 5")
	assert.Contains(t, out, "TITLE")
	assert.Contains(t, out, "MESSAGE")
	assert.NotContains(t, out, "grouped by")

	out = Header(HeaderState{GroupBy: domain.GroupByCity})
	assert.Contains(t, out, "grouped by city")
}

func TestRow(t *testing.T) {
	n := domain.Notification{
		ID:        "1",
		Title:     "Flood warning",
		Message:   "River level rising",
		Type:      domain.TypeWarning,
		City:      "Porto Alegre",
		CreatedAt: now.Add(-5 * time.Minute),
	}
	out := Row(RowState{Notification: n, Width: 120, Now: now})
	assert.Contains(t, out, "●")
	assert.Contains(t, out, "⚠ warning")
	assert.Contains(t, out, "Flood warning")
	assert.Contains(t, out, "Porto Alegre")
	assert.Contains(t, out, "5m ago")
	assert.Contains(t, out, "River level rising")
}

func TestRowDefaultsMissingFields(t *testing.T) {
	n := domain.Notification{ID: "1", Title: "No date", Type: domain.Type("bogus"), Read: true}
	out := Row(RowState{Notification: n, Now: now})
	assert.Contains(t, out, "○")
	assert.Contains(t, out, "N/A")
	assert.Contains(t, out, "ℹ info")
	assert.Contains(t, out, " - ")
}

func TestRowTruncatesLongMessage(t *testing.T) {
	n := domain.Notification{ID: "1", Title: "t", Message: strings.Repeat("x", 500), CreatedAt: now}
	out := Row(RowState{Notification: n, Width: 80, Now: now})
	assert.Contains(t, out, "...")
	assert.NotContains(t, out, strings.Repeat("x", 100))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "ab", truncate("abcdef", 2))
	assert.Equal(t, "abc", truncate("abc", 0))
}

func TestGroupRow(t *testing.T) {
	g := domain.Group{DisplayName: "Canoas", Count: 3, UnreadCount: 1}
	out := GroupRow(g, 80)
	assert.Contains(t, out, "▾ Canoas (3) 1 unread")

	g.UnreadCount = 0
	assert.NotContains(t, GroupRow(g, 80), "unread")
}

func TestFooter(t *testing.T) {
	out := Footer(FooterState{})
	assert.Contains(t, out, "R: mark all read")
	assert.NotContains(t, out, "x: close alert")

	out = Footer(FooterState{ToastActive: true, StatusMessage: "Marked 2 as read"})
	assert.Contains(t, out, "x: close alert")
	assert.Contains(t, out, "Marked 2 as read")

	out = Footer(FooterState{Detail: true})
	assert.Contains(t, out, "esc: back")
	assert.NotContains(t, out, "j/k")

	out = Footer(FooterState{Searching: true})
	assert.Contains(t, out, "esc: clear")
	assert.NotContains(t, out, "/: search")
}

func TestEmptyAndLogin(t *testing.T) {
	assert.Contains(t, Empty(false), "No notifications yet")
	assert.Contains(t, Empty(true), "unavailable")
	assert.Contains(t, LoginRequired(), "must log in")
	assert.Contains(t, NoMatches("flood"), `No notifications match "flood"`)
}

func TestDetail(t *testing.T) {
	assert.Contains(t, Detail("R1", nil, now), "Resource R1")

	n := &domain.Notification{Title: "Supplies ready", RequestID: "REQ-9", CreatedAt: now}
	out := Detail("R1", n, now)
	assert.Contains(t, out, "Supplies ready")
	assert.Contains(t, out, "REQ-9")
	assert.Contains(t, out, "just now")
	assert.NotContains(t, out, "City")
}

func TestToastSlidesIn(t *testing.T) {
	q := pipeline.NewQueue(pipeline.DefaultTiming())
	q.Enqueue(domain.Notification{ID: "1", Title: "Evacuate", Message: "Leave zone B", Type: domain.TypeError})
	q.Enqueue(domain.Notification{ID: "2", Title: "Next"})
	e, ok := q.PopIfIdle()
	require.True(t, ok)

	out := Toast(e, 80, q.Pending())
	assert.True(t, strings.HasPrefix(out, strings.Repeat(" ", toastSlide)))
	assert.Contains(t, out, "Evacuate")
	assert.Contains(t, out, "Leave zone B")
	assert.Contains(t, out, "+1 more alert")

	q.Tick(600 * time.Millisecond)
	e, _ = q.Current()
	out = Toast(e, 80, 0)
	assert.False(t, strings.HasPrefix(out, " "))
	assert.NotContains(t, out, "more alert")
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "+1 more alert", plural(1))
	assert.Equal(t, "+3 more alerts", plural(3))
}
