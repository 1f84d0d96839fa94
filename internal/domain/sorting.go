package domain

import "sort"

// SortNewestFirst orders notifications by CreatedAt descending, ties by id ascending.
// Records without a creation time sort last.
func SortNewestFirst(notifs []Notification) {
	sort.SliceStable(notifs, func(i, j int) bool {
		a, b := notifs[i], notifs[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

// OldestFirst returns a copy ordered by CreatedAt ascending. Equal creation
// times keep their relative input order.
func OldestFirst(notifs []Notification) []Notification {
	out := make([]Notification, len(notifs))
	copy(out, notifs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
