// Package account contains the admin-facing user and platform statistics types.
package account

import (
	"strings"
	"time"

	"github.com/ecoworth/marketplace-web/internal/domain/auth"
	"github.com/ecoworth/marketplace-web/internal/domain/listing"
)

// ID identifies a backend record; ids arrive as JSON numbers or strings.
type ID = listing.ID

// UserStatus is an account's moderation state.
type UserStatus string

const (
	UserActive    UserStatus = "active"
	UserSuspended UserStatus = "suspended"
)

// ParseUserStatus normalises raw and reports whether it is a known status.
func ParseUserStatus(raw string) (UserStatus, bool) {
	s := UserStatus(strings.ToLower(strings.TrimSpace(raw)))
	switch s {
	case UserActive, UserSuspended:
		return s, true
	default:
		return s, false
	}
}

// User is a marketplace account as listed in the admin dashboard.
type User struct {
	ID        ID         `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone,omitempty"`
	Role      auth.Role  `json:"role"`
	Status    UserStatus `json:"status"`
	JoinedAt  *time.Time `json:"created_at,omitempty"`
	Listings  int        `json:"listings,omitempty"`
	Purchases int        `json:"purchases,omitempty"`
}

// Suspended reports whether the account is suspended.
func (u User) Suspended() bool {
	s, _ := ParseUserStatus(string(u.Status))
	return s == UserSuspended
}

// Stats are the platform totals shown on the admin dashboard.
type Stats struct {
	TotalUsers       int `json:"total_users"`
	TotalSellers     int `json:"total_sellers"`
	TotalBuyers      int `json:"total_buyers"`
	TotalListings    int `json:"total_listings"`
	PendingLicenses  int `json:"pending_licenses"`
	ApprovedLicenses int `json:"approved_licenses"`
}

// StatsFrom derives totals locally when the backend does not provide them.
func StatsFrom(users []User, listings []listing.Listing, pending []Subscription) Stats {
	s := Stats{TotalUsers: len(users), TotalListings: len(listings), PendingLicenses: len(pending)}
	for _, u := range users {
		switch auth.NormalizeRole(u.Role) {
		case auth.RoleSeller:
			s.TotalSellers++
		case auth.RoleBuyer:
			s.TotalBuyers++
		}
	}
	return s
}
