package format

import (
	"fmt"
	"io"

	"github.com/reliefline/sos-inbox/internal/domain"
)

// StatusSummary holds unread counts for the status command.
type StatusSummary struct {
	Owner  string
	Total  int
	Unread int
	ByType map[domain.Type]int
}

// Summarize counts unread notifications per type.
func Summarize(owner string, notifs []domain.Notification) StatusSummary {
	s := StatusSummary{Owner: owner, Total: len(notifs), ByType: make(map[domain.Type]int)}
	for _, n := range notifs {
		if n.Read {
			continue
		}
		s.Unread++
		s.ByType[n.Type.OrDefault()]++
	}
	return s
}

// WriteStatus prints the summary. Types without unread notifications are omitted.
func WriteStatus(w io.Writer, s StatusSummary) error {
	if _, err := fmt.Fprintf(w, "%d unread of %d notifications\n", s.Unread, s.Total); err != nil {
		return err
	}
	for _, t := range domain.Types {
		if c := s.ByType[t]; c > 0 {
			if _, err := fmt.Fprintf(w, "  %-8s %d\n", t, c); err != nil {
				return err
			}
		}
	}
	return nil
}
