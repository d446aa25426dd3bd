// Package auth contains domain-level types for authentication, sessions and route authorization.
// It is pure and free of framework/adapter concerns.
package auth

import (
	"strings"
	"time"
)

// Role represents a marketplace participant's authorization role.
// Keep string form for easy persistence and cookies.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleSeller Role = "seller"
	RoleBuyer  Role = "buyer"
)

// Roles returns every recognised role.
func Roles() []Role {
	return []Role{RoleAdmin, RoleSeller, RoleBuyer}
}

// NormalizeRole lower-cases and trims a role as received from the backend ("Seller", " SELLER ").
func NormalizeRole(r Role) Role {
	return Role(strings.ToLower(strings.TrimSpace(string(r))))
}

// ParseRole normalises raw and reports whether it names a recognised role.
func ParseRole(raw string) (Role, bool) {
	r := NormalizeRole(Role(raw))
	return r, r.Valid()
}

// Valid reports whether r (after normalisation) is a recognised role.
func (r Role) Valid() bool {
	switch NormalizeRole(r) {
	case RoleAdmin, RoleSeller, RoleBuyer:
		return true
	default:
		return false
	}
}

// Is compares roles case-insensitively.
func (r Role) Is(other Role) bool {
	return NormalizeRole(r) == NormalizeRole(other)
}

// Session is the server-side record persisted for an authenticated marketplace user.
// A session is either absent or fully populated; see Valid.
type Session struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	Role      Role      `json:"role"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Valid reports whether every field required for an authenticated session is present
// and the session has not expired at now.
func (s *Session) Valid(now time.Time) bool {
	if s == nil {
		return false
	}
	if s.ID == "" || s.Token == "" || s.Email == "" || !s.Role.Valid() {
		return false
	}
	return now.Before(s.ExpiresAt)
}

// HasRole reports whether the session role matches any of roles, case-insensitively.
func (s *Session) HasRole(roles ...Role) bool {
	if s == nil {
		return false
	}
	for _, r := range roles {
		if s.Role.Is(r) {
			return true
		}
	}
	return false
}

// DisplayName returns the session name, falling back to the local part of the email.
func (s *Session) DisplayName() string {
	if s == nil {
		return ""
	}
	if name := strings.TrimSpace(s.Name); name != "" {
		return name
	}
	if at := strings.IndexByte(s.Email, '@'); at > 0 {
		return s.Email[:at]
	}
	return s.Email
}
