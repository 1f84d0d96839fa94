package pipeline

// EntryState is the lifecycle position of a toast entry.
type EntryState int

const (
	StateQueued EntryState = iota
	StateShowing
	StateDismissing
	StateGone
)

func (s EntryState) String() string {
	switch s {
	case StateQueued:
		return "queued"
	case StateShowing:
		return "showing"
	case StateDismissing:
		return "dismissing"
	case StateGone:
		return "gone"
	default:
		return "unknown"
	}
}

// Event drives an entry from one state to the next.
type Event int

const (
	// EventPromote starts showing a queued entry.
	EventPromote Event = iota
	// EventExpire fires when the display time has elapsed.
	EventExpire
	// EventDismiss is an explicit close by the user.
	EventDismiss
	// EventTap is an acknowledgement by the user.
	EventTap
	// EventExitDone fires when the exit animation has completed.
	EventExitDone
)

func (e Event) String() string {
	switch e {
	case EventPromote:
		return "promote"
	case EventExpire:
		return "expire"
	case EventDismiss:
		return "dismiss"
	case EventTap:
		return "tap"
	case EventExitDone:
		return "exit-done"
	default:
		return "unknown"
	}
}

// On returns the state reached by applying ev, and false when ev is not
// legal in s (the state is then unchanged).
func (s EntryState) On(ev Event) (EntryState, bool) {
	switch {
	case s == StateQueued && ev == EventPromote:
		return StateShowing, true
	case s == StateShowing && (ev == EventExpire || ev == EventDismiss || ev == EventTap):
		return StateDismissing, true
	case s == StateDismissing && ev == EventExitDone:
		return StateGone, true
	default:
		return s, false
	}
}
