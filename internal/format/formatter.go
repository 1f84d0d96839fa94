// Package format provides output formatting functionality for CLI commands.
// It includes formatters for different output styles and notification display.
package format

import (
	"fmt"
	"io"
	"time"

	"github.com/reliefline/sos-inbox/internal/domain"
)

// Formatter defines the interface for output formatters.
type Formatter interface {
	// FormatNotifications formats a slice of notifications and writes to the writer.
	FormatNotifications(notifications []domain.Notification, writer io.Writer) error

	// FormatGroups formats grouped notifications and writes to the writer.
	FormatGroups(groups []domain.Group, writer io.Writer) error
}

// FormatterType represents the type of formatter to use.
type FormatterType string

const (
	// FormatterTypeSimple displays id, age, type and title on one line.
	FormatterTypeSimple FormatterType = "simple"

	// FormatterTypeTable displays notifications in a table format with headers.
	FormatterTypeTable FormatterType = "table"

	// FormatterTypeCompact displays only titles, one per line.
	FormatterTypeCompact FormatterType = "compact"

	// FormatterTypeJSON displays notifications as store documents.
	FormatterTypeJSON FormatterType = "json"
)

// ParseFormatterType validates a --format value.
func ParseFormatterType(s string) (FormatterType, error) {
	switch t := FormatterType(s); t {
	case FormatterTypeSimple, FormatterTypeTable, FormatterTypeCompact, FormatterTypeJSON:
		return t, nil
	case "":
		return FormatterTypeTable, nil
	default:
		return "", fmt.Errorf("invalid format: %q (must be simple, table, compact or json)", s)
	}
}

// NewFormatter creates a new formatter of the specified type. now is the
// reference time for relative ages.
func NewFormatter(formatterType FormatterType, now time.Time) Formatter {
	switch formatterType {
	case FormatterTypeTable:
		return NewTableFormatter(now)
	case FormatterTypeCompact:
		return NewCompactFormatter()
	case FormatterTypeJSON:
		return NewJSONFormatter()
	default:
		return NewSimpleFormatter(now)
	}
}

// writeGroups prints a banner per group followed by its rows.
func writeGroups(f Formatter, groups []domain.Group, writer io.Writer) error {
	for _, group := range groups {
		if _, err := fmt.Fprintf(writer, "=== %s (%d) ===\n", group.DisplayName, group.Count); err != nil {
			return err
		}
		if err := f.FormatNotifications(group.Notifications, writer); err != nil {
			return err
		}
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
