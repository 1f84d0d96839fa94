package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Document field names, as the notifications collection stores them.
const (
	FieldID         = "id"
	FieldOwnerID    = "userId"
	FieldTitle      = "title"
	FieldMessage    = "message"
	FieldType       = "type"
	FieldResourceID = "resourceId"
	FieldRequestID  = "requestId"
	FieldCreatedAt  = "createdAt"
	FieldReadAt     = "readAt"
	FieldRead       = "read"
	FieldCity       = "city"
)

// Document is the field-value map representation of a notification.
type Document map[string]any

// ToDocument converts the notification into its document form.
// Optional fields that are empty are omitted.
func (n Notification) ToDocument() Document {
	doc := Document{
		FieldID:      n.ID,
		FieldOwnerID: n.OwnerID,
		FieldTitle:   n.Title,
		FieldMessage: n.Message,
		FieldType:    n.Type.OrDefault().String(),
		FieldRead:    n.Read,
	}
	if !n.CreatedAt.IsZero() {
		doc[FieldCreatedAt] = n.CreatedAt.UTC().Format(time.RFC3339Nano)
	}
	if n.ReadAt != nil {
		doc[FieldReadAt] = n.ReadAt.UTC().Format(time.RFC3339Nano)
	}
	if n.ResourceID != "" {
		doc[FieldResourceID] = n.ResourceID
	}
	if n.RequestID != "" {
		doc[FieldRequestID] = n.RequestID
	}
	if n.City != "" {
		doc[FieldCity] = n.City
	}
	return doc
}

// FromDocument builds a notification from a possibly malformed document.
// Missing or mistyped fields fall back to zero values, an unknown type to info.
func FromDocument(doc Document) Notification {
	n := Notification{
		ID:         asString(doc[FieldID]),
		OwnerID:    asString(doc[FieldOwnerID]),
		Title:      asString(doc[FieldTitle]),
		Message:    asString(doc[FieldMessage]),
		Type:       Type(strings.ToLower(asString(doc[FieldType]))).OrDefault(),
		ResourceID: asString(doc[FieldResourceID]),
		RequestID:  asString(doc[FieldRequestID]),
		CreatedAt:  asTime(doc[FieldCreatedAt]),
		Read:       asBool(doc[FieldRead]),
		City:       asString(doc[FieldCity]),
	}
	if readAt := asTime(doc[FieldReadAt]); !readAt.IsZero() {
		n.ReadAt = &readAt
	}
	return n
}

func asString(v any) string {
	switch typed := v.(type) {
	case nil:
		return ""
	case string:
		return typed
	case fmt.Stringer:
		return typed.String()
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case int, int64, bool:
		return fmt.Sprint(typed)
	default:
		return ""
	}
}

func asBool(v any) bool {
	switch typed := v.(type) {
	case bool:
		return typed
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(typed))
		return err == nil && b
	case float64:
		return typed != 0
	case int:
		return typed != 0
	case int64:
		return typed != 0
	default:
		return false
	}
}

// asTime accepts time values, RFC 3339 strings and unix milliseconds.
func asTime(v any) time.Time {
	switch typed := v.(type) {
	case time.Time:
		return typed.UTC()
	case *time.Time:
		if typed == nil {
			return time.Time{}
		}
		return typed.UTC()
	case string:
		s := strings.TrimSpace(typed)
		if s == "" {
			return time.Time{}
		}
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return t.UTC()
		}
		if ms, err := strconv.ParseInt(s, 10, 64); err == nil && ms > 0 {
			return time.UnixMilli(ms).UTC()
		}
		return time.Time{}
	case float64:
		if typed <= 0 {
			return time.Time{}
		}
		return time.UnixMilli(int64(typed)).UTC()
	case int64:
		if typed <= 0 {
			return time.Time{}
		}
		return time.UnixMilli(typed).UTC()
	case int:
		if typed <= 0 {
			return time.Time{}
		}
		return time.UnixMilli(int64(typed)).UTC()
	default:
		return time.Time{}
	}
}
