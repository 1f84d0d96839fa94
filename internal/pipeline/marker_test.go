package pipeline

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/reliefline/sos-inbox/internal/domain"
	"github.com/reliefline/sos-inbox/internal/logging"
	"github.com/reliefline/sos-inbox/internal/storage/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadMarkerDispatches(t *testing.T) {
	store := &fakeStore{}
	m := NewReadMarker(store, func() time.Time { return now }, nil)

	m.MarkRead("1")
	m.MarkUnread("2")
	m.MarkAllRead("u1")
	m.Wait()

	assert.Equal(t, []string{"1"}, store.read)
	assert.Equal(t, []time.Time{now}, store.readTimes)
	assert.Equal(t, []string{"2"}, store.unread)
	assert.Equal(t, []string{"u1"}, store.allRead)
}

func TestReadMarkerRunsInOrder(t *testing.T) {
	store := &fakeStore{
		persist:   true,
		readDelay: 30 * time.Millisecond,
		list:      []domain.Notification{{ID: "1", OwnerID: "u1", Title: "x"}},
	}
	m := NewReadMarker(store, nil, nil)

	first := m.MarkRead("1")
	second := m.MarkUnread("1")
	assert.Less(t, first, second)
	m.Wait()

	assert.True(t, m.Done(first))
	assert.True(t, m.Done(second))
	assert.False(t, store.snapshot()[0].Read)
	assert.Equal(t, []string{"1"}, store.read)
	assert.Equal(t, []string{"1"}, store.unread)
}

func TestReadMarkerDoneTracksCompletion(t *testing.T) {
	store := &fakeStore{gate: make(chan struct{})}
	m := NewReadMarker(store, nil, nil)

	seq := m.MarkRead("1")
	assert.False(t, m.Done(seq))
	close(store.gate)
	m.Wait()
	assert.True(t, m.Done(seq))
}

func TestReadMarkerSwallowsFailures(t *testing.T) {
	var buf bytes.Buffer
	store := &fakeStore{markErr: errors.New("backend unavailable")}
	m := NewReadMarker(store, nil, logging.New(&buf, logging.Options{Level: "debug"}))

	assert.NotPanics(t, func() {
		m.MarkRead("1")
		m.MarkAllRead("u1")
		m.Wait()
	})
	assert.Contains(t, buf.String(), "mark read failed")
	assert.Contains(t, buf.String(), "mark all read failed")
	assert.Contains(t, buf.String(), "backend unavailable")
}

func TestReadMarkerIdempotentAgainstStore(t *testing.T) {
	db, err := sqlite.New(filepath.Join(t.TempDir(), "inbox.db"))
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	n, err := db.Add(ctx, domain.Notification{OwnerID: "u1", Title: "Flood warning"})
	require.NoError(t, err)

	var buf bytes.Buffer
	m := NewReadMarker(db, func() time.Time { return now }, logging.New(&buf, logging.Options{Level: "debug"}))
	m.MarkRead(n.ID)
	m.Wait()
	once, err := db.Get(ctx, n.ID)
	require.NoError(t, err)

	m.MarkRead(n.ID)
	m.Wait()
	twice, err := db.Get(ctx, n.ID)
	require.NoError(t, err)

	assert.True(t, twice.Read)
	assert.Equal(t, once.Read, twice.Read)
	require.NotNil(t, twice.ReadAt)
	assert.True(t, once.ReadAt.Equal(*twice.ReadAt))
	assert.NotContains(t, buf.String(), "failed")
}
