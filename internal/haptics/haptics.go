// Package haptics gives best-effort physical feedback for user actions.
// On a terminal the closest thing to a vibration is the bell.
package haptics

import (
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// Kind is a feedback category.
type Kind int

const (
	Success Kind = iota
	Error
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Feedback triggers a feedback pattern. Implementations never fail.
type Feedback interface {
	Trigger(kind Kind)
}

// Noop ignores every trigger.
type Noop struct{}

func (Noop) Trigger(Kind) {}

// Bell rings the terminal bell: once for success, twice for error.
type Bell struct {
	mu sync.Mutex
	w  io.Writer
}

// NewBell returns a bell writing to w.
func NewBell(w io.Writer) *Bell {
	return &Bell{w: w}
}

func (b *Bell) Trigger(kind Kind) {
	pattern := "\a"
	if kind == Error {
		pattern = "\a\a"
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	// Write errors are ignored: feedback is best effort.
	_, _ = io.WriteString(b.w, pattern)
}

// ForFile returns a bell on f when f is a terminal, and Noop otherwise.
func ForFile(f *os.File) Feedback {
	if f == nil || !term.IsTerminal(int(f.Fd())) {
		return Noop{}
	}
	return NewBell(f)
}

// FromConfig honours haptics_enabled before probing f.
func FromConfig(enabled string, f *os.File) Feedback {
	switch strings.ToLower(strings.TrimSpace(enabled)) {
	case "false", "0", "no", "off":
		return Noop{}
	}
	return ForFile(f)
}
