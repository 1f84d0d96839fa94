// Package changefeed carries "something changed" signals for an owner's
// notifications between writers and live subscriptions.
package changefeed

import (
	"context"
	"sync"
	"time"
)

// Op names the mutation that produced an event.
type Op string

const (
	OpCreated Op = "created"
	OpRead    Op = "read"
	OpUnread  Op = "unread"
	OpReadAll Op = "read_all"
)

// Event tells listeners that a notification of Owner changed.
// ID is empty for OpReadAll.
type Event struct {
	Owner string    `json:"owner"`
	ID    string    `json:"id,omitempty"`
	Op    Op        `json:"op"`
	At    time.Time `json:"at"`
}

// Publisher announces changes.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Listener delivers the events of one owner until ctx is cancelled, then
// closes the returned channel.
type Listener interface {
	Listen(ctx context.Context, owner string) (<-chan Event, error)
}

// Feed is both ends of a change feed.
type Feed interface {
	Publisher
	Listener
	Close() error
}

// listenerBuffer bounds per-listener backlog. Events only trigger a reload,
// so dropping when full loses nothing.
const listenerBuffer = 16

// Local is an in-process feed. Writers and subscriptions of the same
// process see each other's changes without an external broker.
type Local struct {
	mu        sync.Mutex
	listeners map[string]map[chan Event]struct{}
	closed    bool
}

// NewLocal creates an in-process feed.
func NewLocal() *Local {
	return &Local{listeners: make(map[string]map[chan Event]struct{})}
}

// Publish fans ev out to the owner's listeners without blocking.
func (l *Local) Publish(_ context.Context, ev Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for ch := range l.listeners[ev.Owner] {
		select {
		case ch <- ev:
		default:
		}
	}
	return nil
}

// Listen registers a listener for owner.
func (l *Local) Listen(ctx context.Context, owner string) (<-chan Event, error) {
	ch := make(chan Event, listenerBuffer)
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		close(ch)
		return ch, nil
	}
	if l.listeners[owner] == nil {
		l.listeners[owner] = make(map[chan Event]struct{})
	}
	l.listeners[owner][ch] = struct{}{}
	l.mu.Unlock()

	go func() {
		<-ctx.Done()
		l.remove(owner, ch)
	}()
	return ch, nil
}

func (l *Local) remove(owner string, ch chan Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.listeners[owner][ch]; !ok {
		return
	}
	delete(l.listeners[owner], ch)
	if len(l.listeners[owner]) == 0 {
		delete(l.listeners, owner)
	}
	close(ch)
}

// Close closes every listener channel.
func (l *Local) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	for owner, set := range l.listeners {
		for ch := range set {
			close(ch)
		}
		delete(l.listeners, owner)
	}
	return nil
}
