package format

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/reliefline/sos-inbox/internal/colors"
	"github.com/reliefline/sos-inbox/internal/domain"
)

// SimpleFormatter prints one line per notification.
type SimpleFormatter struct {
	now time.Time
}

// NewSimpleFormatter creates a new SimpleFormatter.
func NewSimpleFormatter(now time.Time) *SimpleFormatter {
	return &SimpleFormatter{now: now}
}

// FormatNotifications formats notifications in simple format.
func (f *SimpleFormatter) FormatNotifications(notifications []domain.Notification, writer io.Writer) error {
	for _, n := range notifications {
		marker := " "
		if !n.Read {
			marker = "*"
		}
		_, err := fmt.Fprintf(writer, "%s %-36s  %-9s  %-7s  %s\n",
			marker, n.ID, n.CreatedAtLabel(f.now), n.Type.OrDefault(), truncate(n.Title, 50))
		if err != nil {
			return err
		}
	}
	return nil
}

// FormatGroups formats grouped notifications in simple format.
func (f *SimpleFormatter) FormatGroups(groups []domain.Group, writer io.Writer) error {
	return writeGroups(f, groups, writer)
}

// CompactFormatter prints only titles.
type CompactFormatter struct{}

// NewCompactFormatter creates a new CompactFormatter.
func NewCompactFormatter() *CompactFormatter {
	return &CompactFormatter{}
}

// FormatNotifications formats notifications in compact format.
func (f *CompactFormatter) FormatNotifications(notifications []domain.Notification, writer io.Writer) error {
	for _, n := range notifications {
		text := n.Title
		if text == "" {
			text = n.Message
		}
		if _, err := fmt.Fprintln(writer, text); err != nil {
			return err
		}
	}
	return nil
}

// FormatGroups formats grouped notifications in compact format.
func (f *CompactFormatter) FormatGroups(groups []domain.Group, writer io.Writer) error {
	return writeGroups(f, groups, writer)
}

// TableFormatter formats notifications in a table format with headers.
type TableFormatter struct {
	now time.Time
}

// NewTableFormatter creates a new TableFormatter.
func NewTableFormatter(now time.Time) *TableFormatter {
	return &TableFormatter{now: now}
}

// FormatNotifications formats notifications in table format.
func (f *TableFormatter) FormatNotifications(notifications []domain.Notification, writer io.Writer) error {
	if len(notifications) == 0 {
		return nil
	}
	headerColor := colors.Blue
	reset := colors.Reset
	_, err := fmt.Fprintf(writer, "%s%-36s  %-4s  %-7s  %-9s  %-14s  %s%s\n",
		headerColor, "ID", "READ", "TYPE", "AGE", "CITY", "TITLE", reset)
	if err != nil {
		return err
	}
	for _, n := range notifications {
		read := "no"
		if n.Read {
			read = "yes"
		}
		city := n.Locality()
		if city == "" {
			city = "-"
		}
		_, err := fmt.Fprintf(writer, "%-36s  %-4s  %-7s  %-9s  %-14s  %s\n",
			n.ID, read, n.Type.OrDefault(), n.CreatedAtLabel(f.now), truncate(city, 14), truncate(n.Title, 40))
		if err != nil {
			return err
		}
	}
	return nil
}

// FormatGroups formats grouped notifications in table format.
func (f *TableFormatter) FormatGroups(groups []domain.Group, writer io.Writer) error {
	return writeGroups(f, groups, writer)
}

// JSONFormatter writes notifications as store documents.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSONFormatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// FormatNotifications formats notifications as a JSON array.
func (f *JSONFormatter) FormatNotifications(notifications []domain.Notification, writer io.Writer) error {
	docs := make([]domain.Document, 0, len(notifications))
	for _, n := range notifications {
		docs = append(docs, n.ToDocument())
	}
	return encode(writer, docs)
}

type jsonGroup struct {
	Key           string            `json:"key"`
	DisplayName   string            `json:"displayName"`
	Count         int               `json:"count"`
	UnreadCount   int               `json:"unreadCount"`
	Notifications []domain.Document `json:"notifications"`
}

// FormatGroups formats groups as a JSON array of objects.
func (f *JSONFormatter) FormatGroups(groups []domain.Group, writer io.Writer) error {
	out := make([]jsonGroup, 0, len(groups))
	for _, g := range groups {
		jg := jsonGroup{Key: g.Key, DisplayName: g.DisplayName, Count: g.Count, UnreadCount: g.UnreadCount}
		for _, n := range g.Notifications {
			jg.Notifications = append(jg.Notifications, n.ToDocument())
		}
		out = append(out, jg)
	}
	return encode(writer, out)
}

func encode(writer io.Writer, v any) error {
	enc := json.NewEncoder(writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
