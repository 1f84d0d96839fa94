// Package search matches notifications against a free-text query. The list
// command and the notifications screen share the same providers.
package search

import (
	"fmt"

	"github.com/reliefline/sos-inbox/internal/domain"
)

// Searchable fields.
const (
	FieldTitle    = "title"
	FieldMessage  = "message"
	FieldCity     = "city"
	FieldType     = "type"
	FieldResource = "resource"
)

// Provider matches a notification against a query.
type Provider interface {
	// Match returns true if the notification matches the query. An empty
	// query matches everything.
	Match(n domain.Notification, query string) bool

	// Name returns the provider name for identification and debugging.
	Name() string
}

// Options holds configuration options for creating search providers.
type Options struct {
	CaseInsensitive bool
	Fields          []string
}

// DefaultOptions searches every text field, case-insensitively.
func DefaultOptions() Options {
	return Options{
		CaseInsensitive: true,
		Fields:          []string{FieldTitle, FieldMessage, FieldCity, FieldType, FieldResource},
	}
}

// Option is a function that modifies search options.
type Option func(*Options)

// WithCaseInsensitive sets case-insensitive search.
func WithCaseInsensitive(enabled bool) Option {
	return func(o *Options) {
		o.CaseInsensitive = enabled
	}
}

// WithFields sets the fields to search in.
func WithFields(fields ...string) Option {
	return func(o *Options) {
		o.Fields = fields
	}
}

func applyOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// fieldValue returns the searchable text of field, "" when unknown or empty.
func fieldValue(n domain.Notification, field string) string {
	switch field {
	case FieldTitle:
		return n.Title
	case FieldMessage:
		return n.Message
	case FieldCity:
		return n.Locality()
	case FieldType:
		return n.Type.OrDefault().String()
	case FieldResource:
		return n.ResourceID
	default:
		return ""
	}
}

// New returns the provider called name: substring, regex or token.
func New(name string, opts ...Option) (Provider, error) {
	switch name {
	case "", "token":
		return NewTokenProvider(opts...), nil
	case "substring":
		return NewSubstringProvider(opts...), nil
	case "regex":
		return NewRegexProvider(opts...), nil
	default:
		return nil, fmt.Errorf("unknown search mode: %q (must be substring, regex or token)", name)
	}
}

// Filter returns the notifications p matches, preserving order.
func Filter(p Provider, notifs []domain.Notification, query string) []domain.Notification {
	if query == "" {
		return notifs
	}
	out := make([]domain.Notification, 0, len(notifs))
	for _, n := range notifs {
		if p.Match(n, query) {
			out = append(out, n)
		}
	}
	return out
}
