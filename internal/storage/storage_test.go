package storage

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/reliefline/sos-inbox/internal/changefeed"
	"github.com/reliefline/sos-inbox/internal/colors"
	"github.com/reliefline/sos-inbox/internal/config"
	"github.com/reliefline/sos-inbox/internal/domain"
	"github.com/reliefline/sos-inbox/internal/storage/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	events []changefeed.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev changefeed.Event) error {
	p.events = append(p.events, ev)
	return p.err
}

func newNotifying(t *testing.T, pub changefeed.Publisher) *Notifying {
	t.Helper()
	repo, err := sqlite.New(filepath.Join(t.TempDir(), "n.db"))
	require.NoError(t, err)
	s := NewNotifying(repo, pub, nil)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func ops(events []changefeed.Event) []changefeed.Op {
	out := make([]changefeed.Op, len(events))
	for i, ev := range events {
		out[i] = ev.Op
	}
	return out
}

func TestNotifyingPublishesAfterMutations(t *testing.T) {
	pub := &recordingPublisher{}
	s := newNotifying(t, pub)
	ctx := context.Background()
	now := time.Now()

	n, err := s.Add(ctx, domain.Notification{OwnerID: "u1", Title: "Evacuate"})
	require.NoError(t, err)
	require.NoError(t, s.MarkRead(ctx, n.ID, now))
	require.NoError(t, s.MarkUnread(ctx, n.ID))
	changed, err := s.MarkAllRead(ctx, "u1", now)
	require.NoError(t, err)
	require.Equal(t, 1, changed)

	assert.Equal(t, []changefeed.Op{
		changefeed.OpCreated, changefeed.OpRead, changefeed.OpUnread, changefeed.OpReadAll,
	}, ops(pub.events))
	for _, ev := range pub.events {
		assert.Equal(t, "u1", ev.Owner)
		assert.False(t, ev.At.IsZero())
	}
	assert.Equal(t, n.ID, pub.events[0].ID)
}

func TestNotifyingSkipsFailedAndNoopMutations(t *testing.T) {
	pub := &recordingPublisher{}
	s := newNotifying(t, pub)
	ctx := context.Background()

	_, err := s.Add(ctx, domain.Notification{Title: "no owner"})
	require.Error(t, err)
	require.ErrorIs(t, s.MarkRead(ctx, "missing", time.Now()), domain.ErrNotificationNotFound)
	changed, err := s.MarkAllRead(ctx, "u1", time.Now())
	require.NoError(t, err)
	require.Zero(t, changed)

	assert.Empty(t, pub.events)
}

func TestNotifyingSkipsUnchangedReadState(t *testing.T) {
	pub := &recordingPublisher{}
	s := newNotifying(t, pub)
	ctx := context.Background()

	n, err := s.Add(ctx, domain.Notification{OwnerID: "u1", Title: "Evacuate"})
	require.NoError(t, err)
	require.NoError(t, s.MarkUnread(ctx, n.ID))
	require.NoError(t, s.MarkRead(ctx, n.ID, time.Now()))
	require.NoError(t, s.MarkRead(ctx, n.ID, time.Now()))

	assert.Equal(t, []changefeed.Op{changefeed.OpCreated, changefeed.OpRead}, ops(pub.events))
}

func TestNotifyingIgnoresPublishErrors(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	s := newNotifying(t, pub)

	_, err := s.Add(context.Background(), domain.Notification{OwnerID: "u1", Title: "x"})
	assert.NoError(t, err)
	assert.Len(t, pub.events, 1)
}

func TestOpenDefaultsToSQLiteWithLocalFeed(t *testing.T) {
	b, err := Open(context.Background(), Options{StateDir: t.TempDir()})
	require.NoError(t, err)
	defer b.Close()

	assert.IsType(t, &Notifying{}, b.Repo)
	assert.IsType(t, &changefeed.Local{}, b.Feed)
}

func TestOpenUnknownBackendFallsBack(t *testing.T) {
	var errOut bytes.Buffer
	colors.SetOutput(nil, &errOut)
	t.Cleanup(func() { colors.SetOutput(nil, nil) })

	b, err := Open(context.Background(), Options{Backend: "tsv", StateDir: t.TempDir()})
	require.NoError(t, err)
	defer b.Close()

	assert.Contains(t, errOut.String(), "unknown storage backend 'tsv'")
	assert.IsType(t, &sqlite.Storage{}, b.Repo.(*Notifying).Repository)
}

func TestOpenRequiresStateDirForSQLite(t *testing.T) {
	_, err := Open(context.Background(), Options{Backend: BackendSQLite})
	require.Error(t, err)
}

func TestLocalFeedReachesListenersThroughRepo(t *testing.T) {
	b, err := Open(context.Background(), Options{StateDir: t.TempDir()})
	require.NoError(t, err)
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, err := b.Feed.Listen(ctx, "u1")
	require.NoError(t, err)

	_, err = b.Repo.Add(ctx, domain.Notification{OwnerID: "u1", Message: "Water distribution at 5pm"})
	require.NoError(t, err)

	select {
	case ev := <-events:
		assert.Equal(t, changefeed.OpCreated, ev.Op)
	case <-time.After(2 * time.Second):
		t.Fatal("no change event")
	}
}

func TestOptionsFromConfig(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(tmp, "state"))
	t.Setenv("SOS_INBOX_STORAGE_BACKEND", "postgres")
	t.Setenv("SOS_INBOX_REDIS_ADDR", "localhost:6380")
	config.Load()

	opts := OptionsFromConfig()
	assert.Equal(t, BackendPostgres, opts.Backend)
	assert.Equal(t, filepath.Join(tmp, "state", "sos-inbox"), opts.StateDir)
	assert.Equal(t, "localhost:6380", opts.RedisAddr)
	assert.NotNil(t, opts.Logger)
}
