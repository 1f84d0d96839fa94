package domain

import (
	"fmt"
	"strings"
)

// Read filter constants.
const (
	ReadFilterRead   = "read"
	ReadFilterUnread = "unread"
)

// Filter holds list filter criteria. Zero values match everything.
type Filter struct {
	Type       Type
	City       string
	ReadFilter string // "read", "unread", or ""
}

// FilterOptions holds filter parameters as the CLI receives them.
type FilterOptions struct {
	Type       string
	City       string
	ReadFilter string
}

// ToFilter validates the options and converts them to a Filter.
func (fo FilterOptions) ToFilter() (Filter, error) {
	var f Filter
	if fo.Type != "" {
		t, err := ParseType(fo.Type)
		if err != nil {
			return Filter{}, err
		}
		f.Type = t
	}
	switch strings.ToLower(fo.ReadFilter) {
	case "":
	case ReadFilterRead, ReadFilterUnread:
		f.ReadFilter = strings.ToLower(fo.ReadFilter)
	default:
		return Filter{}, fmt.Errorf("invalid read filter: %q (must be read or unread)", fo.ReadFilter)
	}
	f.City = strings.TrimSpace(fo.City)
	return f, nil
}

// Matches checks if the notification satisfies every set criterion.
func (f Filter) Matches(n Notification) bool {
	if f.Type != "" && n.Type.OrDefault() != f.Type {
		return false
	}
	if f.City != "" && !strings.EqualFold(n.Locality(), f.City) {
		return false
	}
	switch f.ReadFilter {
	case ReadFilterRead:
		return n.Read
	case ReadFilterUnread:
		return !n.Read
	}
	return true
}

// Apply returns the notifications matching f, preserving order.
func (f Filter) Apply(notifs []Notification) []Notification {
	out := make([]Notification, 0, len(notifs))
	for _, n := range notifs {
		if f.Matches(n) {
			out = append(out, n)
		}
	}
	return out
}
