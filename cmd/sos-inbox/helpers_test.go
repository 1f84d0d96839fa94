package main

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/reliefline/sos-inbox/internal/changefeed"
	"github.com/reliefline/sos-inbox/internal/colors"
	"github.com/reliefline/sos-inbox/internal/config"
	"github.com/reliefline/sos-inbox/internal/domain"
)

var testNow = time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)

// fakeInbox implements every command client in memory.
type fakeInbox struct {
	mu       sync.Mutex
	list     []domain.Notification
	added    []domain.Notification
	read     []string
	unread   []string
	allRead  []string
	listErr  error
	writeErr error
	marked   int
}

func (f *fakeInbox) Add(_ context.Context, n domain.Notification) (domain.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return domain.Notification{}, f.writeErr
	}
	if n.ID == "" {
		n.ID = "generated"
	}
	f.added = append(f.added, n)
	return n, nil
}

func (f *fakeInbox) ListByOwner(_ context.Context, owner string) ([]domain.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []domain.Notification
	for _, n := range f.list {
		if n.OwnerID == owner {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeInbox) MarkRead(_ context.Context, id string, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.read = append(f.read, id)
	return f.writeErr
}

func (f *fakeInbox) MarkUnread(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unread = append(f.unread, id)
	return f.writeErr
}

func (f *fakeInbox) MarkAllRead(_ context.Context, owner string, _ time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.allRead = append(f.allRead, owner)
	return f.marked, f.writeErr
}

func (f *fakeInbox) Listen(context.Context, string) (<-chan changefeed.Event, error) {
	return nil, nil
}

func (f *fakeInbox) Version() string {
	return "1.2.3"
}

func (f *fakeInbox) readIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.read...)
}

// signIn loads an isolated configuration with owner as the viewer; an empty
// owner means signed out.
func signIn(t *testing.T, owner string) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	t.Setenv("SOS_INBOX_OWNER_ID", owner)
	config.Load()
}

// captureColors redirects console messages for the duration of the test.
func captureColors(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	colors.SetOutput(&out, &errOut)
	t.Cleanup(func() { colors.SetOutput(nil, nil) })
	return &out, &errOut
}

// syncBuffer is a bytes.Buffer safe to read while another goroutine writes.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func notif(id, owner string, typ domain.Type, age time.Duration) domain.Notification {
	return domain.Notification{
		ID:        id,
		OwnerID:   owner,
		Title:     "Alert " + id,
		Type:      typ,
		CreatedAt: testNow.Add(-age),
	}
}
