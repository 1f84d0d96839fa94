package logging

import (
	"regexp"
	"strings"
)

const redacted = "[REDACTED]"

var (
	keySegments   = regexp.MustCompile(`[^a-z0-9]+`)
	sensitiveKeys = map[string]bool{
		"secret":     true,
		"password":   true,
		"token":      true,
		"auth":       true,
		"credential": true,
		"dsn":        true,
	}
)

// redact copies key-value pairs, masking values whose key has a sensitive segment.
// Keys ending in "url" are masked as well; connection strings carry credentials.
func redact(pairs []any) []any {
	if len(pairs) == 0 {
		return pairs
	}
	out := make([]any, len(pairs))
	copy(out, pairs)
	for i := 0; i+1 < len(out); i += 2 {
		if key, ok := out[i].(string); ok && sensitive(key) {
			out[i+1] = redacted
		}
	}
	return out
}

func sensitive(key string) bool {
	parts := keySegments.Split(strings.ToLower(key), -1)
	for _, part := range parts {
		if sensitiveKeys[part] {
			return true
		}
	}
	return len(parts) > 0 && parts[len(parts)-1] == "url"
}
