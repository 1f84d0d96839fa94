package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotificationNotFound is returned when no notification has the requested id.
	ErrNotificationNotFound = errors.New("notification not found")
	// ErrInvalidNotificationID is returned for an empty notification id.
	ErrInvalidNotificationID = errors.New("invalid notification ID")
	// ErrInvalidOwnerID is returned for an empty owner id.
	ErrInvalidOwnerID = errors.New("invalid owner ID")
)

// Repository is the notification collection: the subscription source and
// the mutation target of the delivery pipeline.
type Repository interface {
	// Add inserts a notification, assigning an id and creation time when missing.
	Add(ctx context.Context, n Notification) (Notification, error)
	// ListByOwner returns every notification of owner, newest first, ties by id.
	ListByOwner(ctx context.Context, owner string) ([]Notification, error)
	Get(ctx context.Context, id string) (Notification, error)
	// MarkRead sets the read flag and read time. Already read rows are left
	// untouched and return nil.
	MarkRead(ctx context.Context, id string, at time.Time) error
	MarkUnread(ctx context.Context, id string) error
	// MarkAllRead marks every unread notification of owner and returns how many changed.
	MarkAllRead(ctx context.Context, owner string, at time.Time) (int, error)
	UnreadCount(ctx context.Context, owner string) (int, error)
	Close() error
}

// NewNotification fills the producer-side defaults of n and validates it:
// a UUID when the id is empty and now when CreatedAt is zero.
func NewNotification(n Notification, now time.Time) (Notification, error) {
	n.ID = strings.TrimSpace(n.ID)
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = now
	}
	n.CreatedAt = n.CreatedAt.UTC()
	n.Type = n.Type.OrDefault()
	switch {
	case !n.Read:
		n.ReadAt = nil
	case n.ReadAt == nil:
		at := n.CreatedAt
		n.ReadAt = &at
	}
	if err := n.Validate(); err != nil {
		return Notification{}, err
	}
	return n, nil
}

// CheckID validates a notification id argument.
func CheckID(id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrInvalidNotificationID
	}
	return nil
}

// CheckOwner validates an owner id argument.
func CheckOwner(owner string) error {
	if strings.TrimSpace(owner) == "" {
		return fmt.Errorf("%w: owner cannot be empty", ErrInvalidOwnerID)
	}
	return nil
}
