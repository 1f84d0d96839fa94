// Package identity supplies the owner id of the signed-in viewer.
package identity

import (
	"strings"

	"github.com/reliefline/sos-inbox/internal/config"
)

// Provider returns the current owner id, or false when nobody is signed in.
type Provider interface {
	Owner() (string, bool)
}

// Static is a fixed owner id. The empty value means signed out.
type Static string

func (s Static) Owner() (string, bool) {
	owner := strings.TrimSpace(string(s))
	return owner, owner != ""
}

// FromConfig prefers override (the --owner flag) over the owner_id setting.
func FromConfig(override string) Provider {
	if strings.TrimSpace(override) != "" {
		return Static(override)
	}
	return Static(config.Get("owner_id", ""))
}
