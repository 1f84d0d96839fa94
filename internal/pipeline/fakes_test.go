package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/reliefline/sos-inbox/internal/domain"
	"github.com/reliefline/sos-inbox/internal/haptics"
)

type fakeStore struct {
	mu        sync.Mutex
	list      []domain.Notification
	listErr   error
	markErr   error
	lists     int
	read      []string
	unread    []string
	allRead   []string
	readTimes []time.Time

	// gate, when set, holds every mutation until it is closed.
	gate      chan struct{}
	readDelay time.Duration
	// persist applies mutations to list.
	persist bool
}

func (f *fakeStore) hold(delay time.Duration) {
	if f.gate != nil {
		<-f.gate
	}
	if delay > 0 {
		time.Sleep(delay)
	}
}

func (f *fakeStore) setRead(id string, read bool) {
	if !f.persist {
		return
	}
	for i := range f.list {
		if f.list[i].ID == id {
			f.list[i].Read = read
		}
	}
}

func (f *fakeStore) ListByOwner(_ context.Context, owner string) ([]domain.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]domain.Notification, len(f.list))
	copy(out, f.list)
	return out, nil
}

func (f *fakeStore) MarkRead(_ context.Context, id string, at time.Time) error {
	f.hold(f.readDelay)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setRead(id, true)
	f.read = append(f.read, id)
	f.readTimes = append(f.readTimes, at)
	return f.markErr
}

func (f *fakeStore) MarkUnread(_ context.Context, id string) error {
	f.hold(0)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setRead(id, false)
	f.unread = append(f.unread, id)
	return f.markErr
}

func (f *fakeStore) MarkAllRead(_ context.Context, owner string, _ time.Time) (int, error) {
	f.hold(0)
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.list {
		f.setRead(n.ID, true)
	}
	f.allRead = append(f.allRead, owner)
	return len(f.list), f.markErr
}

func (f *fakeStore) listCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lists
}

func (f *fakeStore) readIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.read...)
}

type route struct {
	name, id string
}

type fakeNavigator struct {
	routes []route
}

func (n *fakeNavigator) Navigate(name, id string) {
	n.routes = append(n.routes, route{name, id})
}

type fakeHaptics struct {
	kinds []haptics.Kind
}

func (h *fakeHaptics) Trigger(k haptics.Kind) {
	h.kinds = append(h.kinds, k)
}

func (f *fakeStore) snapshot() []domain.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Notification(nil), f.list...)
}
