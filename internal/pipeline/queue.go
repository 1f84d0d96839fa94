package pipeline

import (
	"time"

	"github.com/reliefline/sos-inbox/internal/domain"
)

// Timing holds the toast animation and display durations. Slide and fade of
// the same phase run concurrently.
type Timing struct {
	EnterSlide time.Duration
	EnterFade  time.Duration
	// Display counts from the moment the entry starts showing, enter animation included.
	Display   time.Duration
	ExitSlide time.Duration
	ExitFade  time.Duration
}

// DefaultTiming returns the standard toast timing.
func DefaultTiming() Timing {
	return Timing{
		EnterSlide: 600 * time.Millisecond,
		EnterFade:  400 * time.Millisecond,
		Display:    4000 * time.Millisecond,
		ExitSlide:  300 * time.Millisecond,
		ExitFade:   200 * time.Millisecond,
	}
}

// Exit is the length of the exit animation.
func (t Timing) Exit() time.Duration {
	return max(t.ExitSlide, t.ExitFade)
}

// Entry is a toast for one notification.
type Entry struct {
	Notification domain.Notification
	State        EntryState
	// Cause is the event that moved the entry to dismissing, if it has.
	Cause   Event
	Elapsed time.Duration
	timing  Timing
}

// Offset is how far the toast is slid out of place: 1 is fully hidden, 0 in place.
func (e Entry) Offset() float64 {
	switch e.State {
	case StateShowing:
		return 1 - progress(e.Elapsed, e.timing.EnterSlide)
	case StateDismissing:
		return progress(e.Elapsed, e.timing.ExitSlide)
	default:
		return 1
	}
}

// Opacity is the toast's visibility between 0 and 1.
func (e Entry) Opacity() float64 {
	switch e.State {
	case StateShowing:
		return progress(e.Elapsed, e.timing.EnterFade)
	case StateDismissing:
		return 1 - progress(e.Elapsed, e.timing.ExitFade)
	default:
		return 0
	}
}

// Remaining is the display time left before the toast expires on its own.
func (e Entry) Remaining() time.Duration {
	if e.State != StateShowing {
		return 0
	}
	return max(e.timing.Display-e.Elapsed, 0)
}

func progress(elapsed, total time.Duration) float64 {
	if total <= 0 || elapsed >= total {
		return 1
	}
	if elapsed <= 0 {
		return 0
	}
	return float64(elapsed) / float64(total)
}

// Queue shows admitted notifications one at a time in FIFO order. It has no
// clock of its own: time only advances through Tick.
type Queue struct {
	timing   Timing
	pending  []domain.Notification
	active   *Entry
	onChange func(Entry)
}

// NewQueue creates an empty queue.
func NewQueue(timing Timing) *Queue {
	return &Queue{timing: timing}
}

// OnChange registers fn to observe every state change of an entry.
func (q *Queue) OnChange(fn func(Entry)) {
	q.onChange = fn
}

// Enqueue appends n behind every pending entry.
func (q *Queue) Enqueue(n domain.Notification) {
	q.pending = append(q.pending, n)
	q.emit(Entry{Notification: n, State: StateQueued, timing: q.timing})
}

// PopIfIdle starts showing the head of the queue when nothing is on screen.
func (q *Queue) PopIfIdle() (Entry, bool) {
	if q.active != nil || len(q.pending) == 0 {
		return Entry{}, false
	}
	n := q.pending[0]
	q.pending[0] = domain.Notification{}
	q.pending = q.pending[1:]

	e := &Entry{Notification: n, State: StateQueued, timing: q.timing}
	q.apply(e, EventPromote)
	q.active = e
	return *e, true
}

// Current returns the entry that is showing or dismissing.
func (q *Queue) Current() (Entry, bool) {
	if q.active == nil {
		return Entry{}, false
	}
	return *q.active, true
}

// Pending returns how many entries wait behind the current one.
func (q *Queue) Pending() int {
	return len(q.pending)
}

// Idle reports whether nothing is on screen.
func (q *Queue) Idle() bool {
	return q.active == nil
}

// Tick advances time by d. Time left over after a transition carries into
// the next one, and the next entry is promoted as soon as one is gone.
func (q *Queue) Tick(d time.Duration) {
	if d < 0 {
		d = 0
	}
	if q.active == nil {
		q.PopIfIdle()
	}
	for q.active != nil {
		e := q.active
		var limit time.Duration
		var ev Event
		switch e.State {
		case StateShowing:
			limit, ev = q.timing.Display, EventExpire
		case StateDismissing:
			limit, ev = q.timing.Exit(), EventExitDone
		default:
			q.active = nil
			continue
		}
		left := limit - e.Elapsed
		if d < left {
			e.Elapsed += d
			return
		}
		d -= max(left, 0)
		q.apply(e, ev)
		if e.State == StateGone {
			q.active = nil
			q.PopIfIdle()
		}
	}
}

// Dismiss closes the showing entry. It is a no-op when nothing is showing.
func (q *Queue) Dismiss() bool {
	if q.active == nil {
		return false
	}
	return q.apply(q.active, EventDismiss)
}

// Acknowledge handles a tap on the showing entry and returns its notification.
func (q *Queue) Acknowledge() (domain.Notification, bool) {
	if q.active == nil || !q.apply(q.active, EventTap) {
		return domain.Notification{}, false
	}
	return q.active.Notification, true
}

// Reset drops every entry without finishing animations or reporting changes.
func (q *Queue) Reset() {
	q.pending = nil
	q.active = nil
}

func (q *Queue) apply(e *Entry, ev Event) bool {
	next, ok := e.State.On(ev)
	if !ok {
		return false
	}
	e.State = next
	e.Elapsed = 0
	if next == StateDismissing {
		e.Cause = ev
	}
	q.emit(*e)
	return true
}

func (q *Queue) emit(e Entry) {
	if q.onChange != nil {
		q.onChange(e)
	}
}
