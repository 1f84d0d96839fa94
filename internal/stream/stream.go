// Package stream turns an owner's notification collection into a live
// sequence of full, newest-first snapshots.
package stream

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/reliefline/sos-inbox/internal/changefeed"
	"github.com/reliefline/sos-inbox/internal/domain"
	"github.com/reliefline/sos-inbox/internal/logging"
)

// DefaultInterval is the polling period when none is configured.
const DefaultInterval = time.Second

// Source lists an owner's notifications, newest first.
type Source interface {
	ListByOwner(ctx context.Context, owner string) ([]domain.Notification, error)
}

// Snapshot is one emission: the full ordered list, or the error that ended
// the subscription.
type Snapshot struct {
	Notifications []domain.Notification
	Err           error
}

// Options tunes change detection.
type Options struct {
	// Interval between polls. Ignored when TickChan is set.
	Interval time.Duration
	// TickChan replaces the internal ticker, mainly for tests.
	TickChan <-chan time.Time
	// Listener, when set, triggers an immediate reload on every event for the owner.
	Listener changefeed.Listener
	Logger   logging.Logger
}

// Subscription is one live view of an owner's notifications.
type Subscription struct {
	out    chan Snapshot
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Subscribe starts watching owner's notifications. The first snapshot is
// the initial load; later ones are sent only when the content changed.
// If the initial load fails a single error snapshot is sent and the
// channel is closed. Later load failures keep the last view.
func Subscribe(ctx context.Context, src Source, owner string, opts Options) *Subscription {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	ctx, cancel := context.WithCancel(ctx)
	s := &Subscription{
		out:    make(chan Snapshot, 1),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	w := &watcher{
		src:    src,
		owner:  owner,
		opts:   opts,
		out:    s.out,
		logger: opts.Logger.With("component", "stream", "owner", owner),
	}
	go func() {
		defer close(s.done)
		defer close(s.out)
		w.run(ctx)
	}()
	return s
}

// Snapshots returns the emission channel. It is closed after Close or a
// failed initial load.
func (s *Subscription) Snapshots() <-chan Snapshot {
	return s.out
}

// Close stops the subscription and waits for its goroutines. Safe to call
// more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.cancel()
		<-s.done
	})
}

type watcher struct {
	src    Source
	owner  string
	opts   Options
	out    chan<- Snapshot
	logger logging.Logger
	last   uint64
}

func (w *watcher) run(ctx context.Context) {
	list, err := w.src.ListByOwner(ctx, w.owner)
	if err != nil {
		w.logger.Warn("initial notification load failed", "error", err)
		w.emit(ctx, Snapshot{Err: err})
		return
	}
	w.last = Fingerprint(list)
	if !w.emit(ctx, Snapshot{Notifications: list}) {
		return
	}

	var events <-chan changefeed.Event
	if w.opts.Listener != nil {
		events, err = w.opts.Listener.Listen(ctx, w.owner)
		if err != nil {
			w.logger.Warn("change feed unavailable, polling only", "error", err)
			events = nil
		}
	}

	tick := w.opts.TickChan
	if tick == nil {
		ticker := time.NewTicker(w.opts.Interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-tick:
		case _, ok := <-events:
			if !ok {
				events = nil
				continue
			}
		}
		if !w.refresh(ctx) {
			return
		}
	}
}

// refresh reloads the list and emits it when it differs from the last one.
// It reports false once the subscription is cancelled.
func (w *watcher) refresh(ctx context.Context) bool {
	list, err := w.src.ListByOwner(ctx, w.owner)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		w.logger.Warn("notification reload failed, keeping last view", "error", err)
		return true
	}
	fp := Fingerprint(list)
	if fp == w.last {
		return true
	}
	w.last = fp
	return w.emit(ctx, Snapshot{Notifications: list})
}

func (w *watcher) emit(ctx context.Context, snap Snapshot) bool {
	select {
	case w.out <- snap:
		return true
	case <-ctx.Done():
		return false
	}
}

// Fingerprint hashes the fields a viewer can observe, in list order.
func Fingerprint(list []domain.Notification) uint64 {
	h := fnv.New64a()
	buf := make([]byte, 0, 256)
	for _, n := range list {
		buf = buf[:0]
		buf = append(buf, n.ID...)
		buf = append(buf, 0)
		buf = strconv.AppendBool(buf, n.Read)
		buf = append(buf, 0)
		if n.ReadAt != nil {
			buf = strconv.AppendInt(buf, n.ReadAt.UnixMicro(), 10)
		}
		buf = append(buf, 0)
		buf = strconv.AppendInt(buf, n.CreatedAt.UnixMicro(), 10)
		buf = append(buf, 0)
		buf = append(buf, n.Title...)
		buf = append(buf, 0)
		buf = append(buf, n.Message...)
		buf = append(buf, 0)
		buf = append(buf, string(n.Type)...)
		buf = append(buf, 0)
		buf = append(buf, n.ResourceID...)
		buf = append(buf, 0)
		buf = append(buf, n.RequestID...)
		buf = append(buf, 0)
		buf = append(buf, n.City...)
		buf = append(buf, 1)
		h.Write(buf)
	}
	return h.Sum64()
}
