package search

import (
	"strings"

	"github.com/reliefline/sos-inbox/internal/domain"
)

// TokenProvider splits the query on whitespace; every token must match at
// least one field. The tokens "read" and "unread" filter on read state
// instead, and cancel out when both are given.
type TokenProvider struct {
	opts Options
}

// NewTokenProvider creates a new token search provider.
func NewTokenProvider(opts ...Option) Provider {
	return &TokenProvider{opts: applyOptions(opts)}
}

func (p *TokenProvider) Match(n domain.Notification, query string) bool {
	var readOnly, unreadOnly bool
	var tokens []string
	for _, token := range strings.Fields(query) {
		switch strings.ToLower(token) {
		case domain.ReadFilterRead:
			readOnly = true
		case domain.ReadFilterUnread:
			unreadOnly = true
		default:
			if p.opts.CaseInsensitive {
				token = strings.ToLower(token)
			}
			tokens = append(tokens, token)
		}
	}

	if readOnly != unreadOnly {
		if readOnly && !n.Read || unreadOnly && n.Read {
			return false
		}
	}

	for _, token := range tokens {
		if !p.matchToken(n, token) {
			return false
		}
	}
	return true
}

func (p *TokenProvider) matchToken(n domain.Notification, token string) bool {
	for _, field := range p.opts.Fields {
		v := fieldValue(n, field)
		if v == "" {
			continue
		}
		if p.opts.CaseInsensitive {
			v = strings.ToLower(v)
		}
		if strings.Contains(v, token) {
			return true
		}
	}
	return false
}

// Name returns the provider name.
func (p *TokenProvider) Name() string {
	return "token"
}
