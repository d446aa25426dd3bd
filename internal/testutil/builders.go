// Package testutil provides testing utilities and fixture builders for the marketplace web front end.
package testutil

import (
	"time"

	"github.com/shopspring/decimal"

	domainauth "github.com/ecoworth/marketplace-web/internal/domain/auth"
	"github.com/ecoworth/marketplace-web/internal/domain/listing"
)

// SessionBuilder provides a fluent interface for building sessions for testing.
type SessionBuilder struct {
	sess domainauth.Session
}

// NewSession creates a SessionBuilder for a valid buyer session expiring in an hour.
func NewSession() *SessionBuilder {
	return &SessionBuilder{
		sess: domainauth.Session{
			ID:        "sess-test",
			Token:     "token-test",
			Role:      domainauth.RoleBuyer,
			Name:      "Test Buyer",
			Email:     "buyer@example.com",
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}
}

// WithID sets the session id.
func (b *SessionBuilder) WithID(id string) *SessionBuilder {
	b.sess.ID = id
	return b
}

// WithToken sets the backend access token.
func (b *SessionBuilder) WithToken(token string) *SessionBuilder {
	b.sess.Token = token
	return b
}

// WithRole sets the role verbatim, without normalisation.
func (b *SessionBuilder) WithRole(role domainauth.Role) *SessionBuilder {
	b.sess.Role = role
	return b
}

// WithEmail sets the email.
func (b *SessionBuilder) WithEmail(email string) *SessionBuilder {
	b.sess.Email = email
	return b
}

// WithName sets the display name.
func (b *SessionBuilder) WithName(name string) *SessionBuilder {
	b.sess.Name = name
	return b
}

// ExpiresAt sets the expiry.
func (b *SessionBuilder) ExpiresAt(at time.Time) *SessionBuilder {
	b.sess.ExpiresAt = at
	return b
}

// Build returns the session value.
func (b *SessionBuilder) Build() domainauth.Session {
	return b.sess
}

// Ptr returns a pointer to a copy of the session.
func (b *SessionBuilder) Ptr() *domainauth.Session {
	s := b.sess
	return &s
}

// AdminSession returns a valid admin session.
func AdminSession() domainauth.Session {
	return NewSession().WithID("sess-admin").WithRole(domainauth.RoleAdmin).WithEmail("admin@example.com").WithName("Admin").Build()
}

// SellerSession returns a valid seller session.
func SellerSession() domainauth.Session {
	return NewSession().WithID("sess-seller").WithRole(domainauth.RoleSeller).WithEmail("seller@example.com").WithName("Seller").Build()
}

// BuyerSession returns a valid buyer session.
func BuyerSession() domainauth.Session {
	return NewSession().Build()
}

// ListingBuilder provides a fluent interface for building listings for testing.
type ListingBuilder struct {
	l listing.Listing
}

// NewListing creates a ListingBuilder with sensible defaults.
func NewListing(id listing.ID) *ListingBuilder {
	return &ListingBuilder{
		l: listing.Listing{
			ID:            id,
			Category:      listing.CategoryPET,
			Quantity:      decimal.NewFromInt(100),
			PricePerKg:    decimal.NewFromInt(30),
			Description:   "Baled PET bottles",
			State:         "Gujarat",
			City:          "Surat",
			ContactNumber: "9876543210",
			SellerEmail:   "seller@example.com",
			Status:        listing.StatusActive,
		},
	}
}

// WithCategory sets the category.
func (b *ListingBuilder) WithCategory(c listing.Category) *ListingBuilder {
	b.l.Category = c
	return b
}

// WithPrice sets the price per kg.
func (b *ListingBuilder) WithPrice(price int64) *ListingBuilder {
	b.l.PricePerKg = decimal.NewFromInt(price)
	return b
}

// WithStatus sets the status.
func (b *ListingBuilder) WithStatus(s listing.Status) *ListingBuilder {
	b.l.Status = s
	return b
}

// WithLocation sets state and city.
func (b *ListingBuilder) WithLocation(state, city string) *ListingBuilder {
	b.l.State = state
	b.l.City = city
	return b
}

// Build returns the listing.
func (b *ListingBuilder) Build() listing.Listing {
	return b.l
}

// Listings builds default listings for each id.
func Listings(ids ...listing.ID) []listing.Listing {
	out := make([]listing.Listing, 0, len(ids))
	for _, id := range ids {
		out = append(out, NewListing(id).Build())
	}
	return out
}
