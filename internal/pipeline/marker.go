package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/reliefline/sos-inbox/internal/logging"
)

// ReadStore is the mutation side of the notification collection.
type ReadStore interface {
	MarkRead(ctx context.Context, id string, at time.Time) error
	MarkUnread(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, owner string, at time.Time) (int, error)
}

// ReadMarker sends read-state changes without making the caller wait.
// Changes reach the store one at a time in the order they were made.
// Failures are logged and dropped; there is no retry.
type ReadMarker struct {
	store  ReadStore
	now    func() time.Time
	logger logging.Logger
	wg     sync.WaitGroup

	mu      sync.Mutex
	queue   []write
	running bool
	last    uint64
	done    uint64
}

type write struct {
	seq        uint64
	op         string
	key, value string
	fn         func(context.Context) error
}

// NewReadMarker returns a marker writing to store.
func NewReadMarker(store ReadStore, now func() time.Time, logger logging.Logger) *ReadMarker {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &ReadMarker{store: store, now: now, logger: logger}
}

// MarkRead sets the read flag of id in the background. The returned
// sequence number can be passed to Done.
func (m *ReadMarker) MarkRead(id string) uint64 {
	at := m.now()
	return m.dispatch("mark read", "id", id, func(ctx context.Context) error {
		return m.store.MarkRead(ctx, id, at)
	})
}

// MarkUnread clears the read flag of id in the background.
func (m *ReadMarker) MarkUnread(id string) uint64 {
	return m.dispatch("mark unread", "id", id, func(ctx context.Context) error {
		return m.store.MarkUnread(ctx, id)
	})
}

// MarkAllRead marks every unread notification of owner in the background.
func (m *ReadMarker) MarkAllRead(owner string) uint64 {
	at := m.now()
	return m.dispatch("mark all read", "owner", owner, func(ctx context.Context) error {
		n, err := m.store.MarkAllRead(ctx, owner, at)
		if err == nil {
			m.logger.Debug("marked all read", "owner", owner, "count", n)
		}
		return err
	})
}

// Done reports whether the change numbered seq has finished, successfully or not.
func (m *ReadMarker) Done(seq uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.done >= seq
}

// Wait blocks until every dispatched change has finished.
func (m *ReadMarker) Wait() {
	m.wg.Wait()
}

func (m *ReadMarker) dispatch(op, key, value string, fn func(context.Context) error) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last++
	m.queue = append(m.queue, write{seq: m.last, op: op, key: key, value: value, fn: fn})
	if !m.running {
		m.running = true
		m.wg.Add(1)
		go m.drain()
	}
	return m.last
}

func (m *ReadMarker) drain() {
	defer m.wg.Done()
	for {
		m.mu.Lock()
		if len(m.queue) == 0 {
			m.running = false
			m.mu.Unlock()
			return
		}
		w := m.queue[0]
		m.queue[0] = write{}
		m.queue = m.queue[1:]
		m.mu.Unlock()

		if err := w.fn(context.Background()); err != nil {
			m.logger.Warn(w.op+" failed", w.key, w.value, "error", err)
		}

		m.mu.Lock()
		m.done = w.seq
		m.mu.Unlock()
	}
}
