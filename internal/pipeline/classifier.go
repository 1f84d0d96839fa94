package pipeline

import (
	"time"

	"github.com/reliefline/sos-inbox/internal/domain"
)

// DefaultWindow is how recent an unread notification must be to get a toast.
const DefaultWindow = 10 * time.Second

// IsNew reports whether n is unread and was created less than window before now.
func IsNew(n domain.Notification, now time.Time, window time.Duration) bool {
	if n.Read || n.CreatedAt.IsZero() {
		return false
	}
	return now.Sub(n.CreatedAt) < window
}

// Classifier admits new notifications into the toast queue, each id at most
// once until Reset.
type Classifier struct {
	window   time.Duration
	admitted map[string]struct{}
}

// NewClassifier creates a classifier; a non-positive window means DefaultWindow.
func NewClassifier(window time.Duration) *Classifier {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Classifier{window: window, admitted: make(map[string]struct{})}
}

// Window returns the newness window in use.
func (c *Classifier) Window() time.Duration {
	return c.window
}

// Admit returns the notifications of list that are new at now and were
// never admitted before, oldest first. Equal creation times keep list order.
func (c *Classifier) Admit(list []domain.Notification, now time.Time) []domain.Notification {
	var fresh []domain.Notification
	for _, n := range list {
		if n.ID == "" {
			continue
		}
		if _, seen := c.admitted[n.ID]; seen {
			continue
		}
		if !IsNew(n, now, c.window) {
			continue
		}
		c.admitted[n.ID] = struct{}{}
		fresh = append(fresh, n)
	}
	return domain.OldestFirst(fresh)
}

// Admitted reports whether id was already admitted.
func (c *Classifier) Admitted(id string) bool {
	_, ok := c.admitted[id]
	return ok
}

// Reset forgets every admitted id.
func (c *Classifier) Reset() {
	c.admitted = make(map[string]struct{})
}
