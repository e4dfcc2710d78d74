// Package auth carries the session descriptor consumed by the store for
// tenant scoping, plus the JWT and PIN-digest glue that the surrounding
// authentication layer uses to produce and verify those sessions.
package auth

import (
	"fmt"

	"github.com/gartstein/shiftstore/internal/scheduler/models"
)

// Session identifies the acting user. It is supplied by an external
// authentication layer; the store only consumes it. The zero value is
// an absent session and scopes every read to nothing.
type Session struct {
	CompanyCode string
	Role        models.Role
	UserID      string
}

// Valid reports whether the session carries an identity at all.
func (s Session) Valid() bool {
	return s.UserID != "" && s.CompanyCode != "" && models.ValidRole(s.Role)
}

// IsPlatformAdmin reports whether the session holds the super-role that
// sees across tenants.
func (s Session) IsPlatformAdmin() bool {
	return s.Role == models.RolePlatformAdmin
}

// ParseRole validates a role string from an external source.
func ParseRole(raw string) (models.Role, error) {
	r := models.Role(raw)
	if !models.ValidRole(r) {
		return "", fmt.Errorf("unknown role %q", raw)
	}
	return r, nil
}
