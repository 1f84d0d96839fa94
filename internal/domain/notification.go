// Package domain provides the domain layer for notifications.
// It contains the notification entity, its document representation and
// the list helpers shared by the CLI and the notifications screen.
package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Validation errors.
var (
	ErrMissingID      = errors.New("notification id cannot be empty")
	ErrMissingOwner   = errors.New("notification owner cannot be empty")
	ErrMissingContent = errors.New("notification needs a title or a message")
	ErrInvalidType    = errors.New("invalid notification type")
)

// Notification is a record targeting exactly one owner.
type Notification struct {
	ID         string
	OwnerID    string
	Title      string
	Message    string
	Type       Type
	ResourceID string
	RequestID  string
	// CreatedAt is assigned once by the producer; zero means the record lacked it.
	CreatedAt time.Time
	ReadAt    *time.Time
	Read      bool
	City      string
}

// Type is the classification tag of a notification.
type Type string

const (
	TypeInfo    Type = "info"
	TypeWarning Type = "warning"
	TypeError   Type = "error"
	TypeSuccess Type = "success"
)

// Types lists the known classification tags.
var Types = []Type{TypeInfo, TypeWarning, TypeError, TypeSuccess}

// IsValid checks if the type is one of the known tags.
func (t Type) IsValid() bool {
	switch t {
	case TypeInfo, TypeWarning, TypeError, TypeSuccess:
		return true
	default:
		return false
	}
}

// OrDefault returns t when valid and TypeInfo otherwise.
func (t Type) OrDefault() Type {
	if t.IsValid() {
		return t
	}
	return TypeInfo
}

func (t Type) String() string {
	return string(t)
}

// ParseType parses a classification tag, case-insensitively.
func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("%w: %q (must be one of info, warning, error, success)", ErrInvalidType, s)
	}
	return t, nil
}

// Validate checks the fields a stored notification must carry.
func (n Notification) Validate() error {
	if strings.TrimSpace(n.ID) == "" {
		return ErrMissingID
	}
	if strings.TrimSpace(n.OwnerID) == "" {
		return ErrMissingOwner
	}
	if strings.TrimSpace(n.Title) == "" && strings.TrimSpace(n.Message) == "" {
		return ErrMissingContent
	}
	if !n.Type.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, n.Type)
	}
	return nil
}

// MarkRead sets the read flag. It reports whether anything changed; an
// already read notification keeps its original read time.
func (n *Notification) MarkRead(at time.Time) bool {
	if n.Read {
		return false
	}
	at = at.UTC()
	n.Read = true
	n.ReadAt = &at
	return true
}

// MarkUnread clears the read flag and read time.
func (n *Notification) MarkUnread() bool {
	if !n.Read && n.ReadAt == nil {
		return false
	}
	n.Read = false
	n.ReadAt = nil
	return true
}

// HasResource reports whether acknowledging the notification should navigate somewhere.
func (n Notification) HasResource() bool {
	return n.ResourceID != ""
}

// Locality returns the origin city, or "" when the record has none.
func (n Notification) Locality() string {
	return strings.TrimSpace(n.City)
}

// CreatedAtLabel renders the creation time relative to now, or "N/A" when missing.
func (n Notification) CreatedAtLabel(now time.Time) string {
	if n.CreatedAt.IsZero() {
		return "N/A"
	}
	age := now.Sub(n.CreatedAt)
	switch {
	case age < time.Minute:
		return "just now"
	case age < time.Hour:
		return fmt.Sprintf("%dm ago", int(age/time.Minute))
	case age < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(age/time.Hour))
	default:
		return fmt.Sprintf("%dd ago", int(age/(24*time.Hour)))
	}
}

// CountUnread returns how many notifications are not read.
func CountUnread(notifs []Notification) int {
	count := 0
	for _, n := range notifs {
		if !n.Read {
			count++
		}
	}
	return count
}
