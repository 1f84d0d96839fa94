// Package pipeline delivers an owner's notifications to a screen: it keeps
// the live list, picks out newly arrived ones and shows them as toasts one
// at a time, and writes read-state changes back to the store.
//
// A Pipeline is not safe for concurrent use. Every method is meant to be
// called from the host's event loop.
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/reliefline/sos-inbox/internal/changefeed"
	"github.com/reliefline/sos-inbox/internal/domain"
	"github.com/reliefline/sos-inbox/internal/haptics"
	"github.com/reliefline/sos-inbox/internal/identity"
	"github.com/reliefline/sos-inbox/internal/logging"
	"github.com/reliefline/sos-inbox/internal/stream"
)

// RouteResource is the navigation route of the resource detail view.
const RouteResource = "resource"

var (
	// ErrAuthRequired is returned by Start when no owner is signed in.
	ErrAuthRequired = errors.New("authentication required")
	// ErrClosed is returned by Start after Close.
	ErrClosed = errors.New("pipeline closed")
)

// Store is everything the pipeline needs from the notification collection.
type Store interface {
	stream.Source
	ReadStore
}

// Navigator moves the host to another view. It must not block.
type Navigator interface {
	Navigate(route, id string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(route, id string)

func (f NavigatorFunc) Navigate(route, id string) { f(route, id) }

// Options wires a pipeline. Store and Identity are required.
type Options struct {
	Store     Store
	Identity  identity.Provider
	Listener  changefeed.Listener
	Navigator Navigator
	Haptics   haptics.Feedback
	Logger    logging.Logger
	// Now is the wall clock used for newness and read times.
	Now    func() time.Time
	Window time.Duration
	Timing Timing
	// PollInterval is passed to the stream; zero uses its default.
	PollInterval time.Duration
	// TickChan replaces the stream's poll ticker.
	TickChan <-chan time.Time
	// OnToast observes every toast state change.
	OnToast func(Entry)
}

// override is a read flag shown ahead of the store until write seq finishes.
type override struct {
	read bool
	seq  uint64
}

// Pipeline is one mounted notifications screen.
type Pipeline struct {
	opts       Options
	logger     logging.Logger
	classifier *Classifier
	queue      *Queue
	marker     *ReadMarker

	owner        string
	sub          *stream.Subscription
	list         []domain.Notification
	pendingRead  map[string]override
	loading      bool
	authRequired bool
	err          error
	closed       bool
}

// New builds an idle pipeline. Call Start to subscribe.
func New(opts Options) *Pipeline {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Haptics == nil {
		opts.Haptics = haptics.Noop{}
	}
	if opts.Navigator == nil {
		opts.Navigator = NavigatorFunc(func(string, string) {})
	}
	if opts.Timing == (Timing{}) {
		opts.Timing = DefaultTiming()
	}
	logger := opts.Logger.With("component", "pipeline")
	p := &Pipeline{
		opts:        opts,
		logger:      logger,
		classifier:  NewClassifier(opts.Window),
		queue:       NewQueue(opts.Timing),
		marker:      NewReadMarker(opts.Store, opts.Now, logger),
		pendingRead: make(map[string]override),
		loading:     true,
	}
	p.queue.OnChange(p.toastChanged)
	return p
}

// Start resolves the viewer and opens the single stream subscription.
// Without a viewer it returns ErrAuthRequired and subscribes to nothing.
// Calling Start again after success is a no-op.
func (p *Pipeline) Start(ctx context.Context) error {
	if p.closed {
		return ErrClosed
	}
	if p.sub != nil {
		return nil
	}
	var owner string
	var ok bool
	if p.opts.Identity != nil {
		owner, ok = p.opts.Identity.Owner()
	}
	if !ok {
		p.authRequired = true
		p.loading = false
		p.logger.Warn("no signed-in owner, not subscribing")
		return ErrAuthRequired
	}
	p.owner = owner
	p.authRequired = false
	p.loading = true
	p.sub = stream.Subscribe(ctx, p.opts.Store, owner, stream.Options{
		Interval: p.opts.PollInterval,
		TickChan: p.opts.TickChan,
		Listener: p.opts.Listener,
		Logger:   p.opts.Logger,
	})
	p.logger.Info("subscribed", "owner", owner)
	return nil
}

// Updates is the snapshot channel to feed into HandleSnapshot. It is nil
// before Start and closed once the subscription ends.
func (p *Pipeline) Updates() <-chan stream.Snapshot {
	if p.sub == nil {
		return nil
	}
	return p.sub.Snapshots()
}

// HandleSnapshot takes one stream emission. A failed emission leaves an
// empty list and records the error; it is never returned.
func (p *Pipeline) HandleSnapshot(s stream.Snapshot) {
	if p.closed {
		return
	}
	p.loading = false
	if s.Err != nil {
		p.list = nil
		p.err = s.Err
		p.logger.Warn("notification subscription failed", "error", s.Err)
		return
	}
	p.err = nil
	p.list = p.applyPendingReads(s.Notifications)

	for _, n := range p.classifier.Admit(p.list, p.opts.Now()) {
		p.logger.Debug("toast admitted", "id", n.ID, "type", n.Type)
		p.queue.Enqueue(n)
	}
	p.queue.PopIfIdle()
}

// applyPendingReads overlays read changes whose writes are still in
// flight. Once a write has finished, success or not, the store's value wins.
func (p *Pipeline) applyPendingReads(in []domain.Notification) []domain.Notification {
	out := make([]domain.Notification, len(in))
	copy(out, in)
	for id, o := range p.pendingRead {
		if p.marker.Done(o.seq) {
			delete(p.pendingRead, id)
		}
	}
	if len(p.pendingRead) == 0 {
		return out
	}
	now := p.opts.Now()
	for i := range out {
		o, ok := p.pendingRead[out[i].ID]
		if !ok {
			continue
		}
		if o.read {
			out[i].MarkRead(now)
		} else {
			out[i].MarkUnread()
		}
	}
	return out
}

// Tick advances toast time by d.
func (p *Pipeline) Tick(d time.Duration) {
	if p.closed {
		return
	}
	p.queue.Tick(d)
}

// Notifications returns the current list, newest first.
func (p *Pipeline) Notifications() []domain.Notification {
	out := make([]domain.Notification, len(p.list))
	copy(out, p.list)
	return out
}

func (p *Pipeline) UnreadCount() int {
	return domain.CountUnread(p.list)
}

func (p *Pipeline) Loading() bool {
	return p.loading
}

// Err is the subscription error, if the stream failed.
func (p *Pipeline) Err() error {
	return p.err
}

func (p *Pipeline) AuthRequired() bool {
	return p.authRequired
}

func (p *Pipeline) Owner() string {
	return p.owner
}

// ActiveToast returns the toast on screen, if any.
func (p *Pipeline) ActiveToast() (Entry, bool) {
	return p.queue.Current()
}

// PendingToasts is the number of toasts waiting behind the active one.
func (p *Pipeline) PendingToasts() int {
	return p.queue.Pending()
}

// OnTap acknowledges the showing toast: it starts the exit, marks the
// notification read and then asks to navigate to its resource, if any.
func (p *Pipeline) OnTap() bool {
	n, ok := p.queue.Acknowledge()
	if !ok {
		return false
	}
	p.markRead(n.ID)
	p.opts.Haptics.Trigger(haptics.Success)
	if n.HasResource() {
		p.opts.Navigator.Navigate(RouteResource, n.ResourceID)
	}
	return true
}

// OnDismiss closes the showing toast without touching read state.
func (p *Pipeline) OnDismiss() bool {
	return p.queue.Dismiss()
}

// MarkRead marks id read, updating the local list at once.
func (p *Pipeline) MarkRead(id string) {
	if p.closed || id == "" {
		return
	}
	p.markRead(id)
}

// MarkUnread clears the read flag of id, updating the local list at once.
func (p *Pipeline) MarkUnread(id string) {
	if p.closed || id == "" {
		return
	}
	p.setLocal(id, false, p.marker.MarkUnread(id))
}

// ToggleRead flips the read flag of id as currently shown.
func (p *Pipeline) ToggleRead(id string) {
	for _, n := range p.list {
		if n.ID != id {
			continue
		}
		if n.Read {
			p.MarkUnread(id)
		} else {
			p.MarkRead(id)
		}
		return
	}
}

// MarkAllRead marks every notification of the owner read.
func (p *Pipeline) MarkAllRead() {
	if p.closed || p.owner == "" {
		return
	}
	seq := p.marker.MarkAllRead(p.owner)
	for _, n := range p.list {
		if !n.Read {
			p.setLocal(n.ID, true, seq)
		}
	}
}

func (p *Pipeline) markRead(id string) {
	p.setLocal(id, true, p.marker.MarkRead(id))
}

func (p *Pipeline) setLocal(id string, read bool, seq uint64) {
	p.pendingRead[id] = override{read: read, seq: seq}
	now := p.opts.Now()
	for i := range p.list {
		if p.list[i].ID != id {
			continue
		}
		if read {
			p.list[i].MarkRead(now)
		} else {
			p.list[i].MarkUnread()
		}
	}
}

func (p *Pipeline) toastChanged(e Entry) {
	p.logger.Debug("toast", "id", e.Notification.ID, "state", e.State.String())
	if p.opts.OnToast != nil {
		p.opts.OnToast(e)
	}
}

// Close unsubscribes, drops every toast and forgets admitted ids, then
// waits for read changes already sent. Safe to call more than once.
func (p *Pipeline) Close() {
	if p.closed {
		return
	}
	p.closed = true
	if p.sub != nil {
		p.sub.Close()
	}
	p.queue.Reset()
	p.classifier.Reset()
	p.marker.Wait()
	p.logger.Debug("closed", "owner", p.owner)
}
