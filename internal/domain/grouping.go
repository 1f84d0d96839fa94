package domain

import (
	"sort"
	"strings"
)

// GroupByMode specifies how notifications should be grouped.
type GroupByMode string

const (
	GroupByNone GroupByMode = "none"
	GroupByCity GroupByMode = "city"
	GroupByType GroupByMode = "type"
)

// IsValid checks if the group by mode is valid.
func (g GroupByMode) IsValid() bool {
	switch g {
	case GroupByNone, GroupByCity, GroupByType:
		return true
	default:
		return false
	}
}

// UnknownCity is the display name of the group collecting records without a city.
const UnknownCity = "Unknown location"

// Group is a set of notifications sharing a key.
type Group struct {
	Key           string
	DisplayName   string
	Count         int
	UnreadCount   int
	Notifications []Notification
}

// GroupNotifications splits notifications into groups, keeping input order
// inside each group. Groups are sorted by display name with the unknown
// city group last.
func GroupNotifications(notifs []Notification, mode GroupByMode) []Group {
	if !mode.IsValid() || mode == GroupByNone || len(notifs) == 0 {
		return nil
	}

	index := make(map[string]int)
	var groups []Group
	for _, n := range notifs {
		key, name := groupKey(n, mode)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Key: key, DisplayName: name})
		}
		g := &groups[i]
		g.Notifications = append(g.Notifications, n)
		g.Count++
		if !n.Read {
			g.UnreadCount++
		}
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if (groups[i].Key == "") != (groups[j].Key == "") {
			return groups[j].Key == ""
		}
		return groups[i].DisplayName < groups[j].DisplayName
	})
	return groups
}

func groupKey(n Notification, mode GroupByMode) (string, string) {
	if mode == GroupByType {
		t := n.Type.OrDefault().String()
		return t, t
	}
	city := n.Locality()
	if city == "" {
		return "", UnknownCity
	}
	return strings.ToLower(city), city
}
