package listing

import (
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	apperrors "github.com/ecoworth/marketplace-web/internal/errors"
)

const maxDescriptionLen = 2000

// CreateRequest carries a seller's new listing.
type CreateRequest struct {
	Category      Category        `json:"category"`
	Quantity      decimal.Decimal `json:"quantity"`
	PricePerKg    decimal.Decimal `json:"price_per_kg"`
	State         string          `json:"state"`
	City          string          `json:"city"`
	ContactNumber string          `json:"contact_number"`
	Description   string          `json:"description"`
}

// Validate normalises the request and checks it before any backend call.
func (r *CreateRequest) Validate() error {
	c, ok := ParseCategory(string(r.Category))
	if !ok {
		return apperrors.ValidationField("category", "select a valid material category")
	}
	r.Category = c

	if !r.Quantity.IsPositive() {
		return apperrors.ValidationField("quantity", "quantity must be greater than zero")
	}
	if !r.PricePerKg.IsPositive() {
		return apperrors.ValidationField("price_per_kg", "price per kg must be greater than zero")
	}

	r.State = strings.TrimSpace(r.State)
	r.City = strings.TrimSpace(r.City)
	r.ContactNumber = strings.TrimSpace(r.ContactNumber)
	r.Description = strings.TrimSpace(r.Description)

	if r.State == "" {
		return apperrors.ValidationField("state", "state is required")
	}
	if r.City == "" {
		return apperrors.ValidationField("city", "city is required")
	}
	if r.ContactNumber == "" {
		return apperrors.ValidationField("contact_number", "contact number is required")
	}
	if utf8.RuneCountInString(r.Description) > maxDescriptionLen {
		return apperrors.ValidationField("description", "description cannot exceed 2000 characters")
	}
	return nil
}

// UpdateRequest carries partial listing changes from the owning seller or an admin.
type UpdateRequest struct {
	Category      *Category        `json:"category,omitempty"`
	Quantity      *decimal.Decimal `json:"quantity,omitempty"`
	PricePerKg    *decimal.Decimal `json:"price_per_kg,omitempty"`
	State         *string          `json:"state,omitempty"`
	City          *string          `json:"city,omitempty"`
	ContactNumber *string          `json:"contact_number,omitempty"`
	Description   *string          `json:"description,omitempty"`
	Status        *Status          `json:"status,omitempty"`
}

// Empty reports whether the update carries no changes.
func (r *UpdateRequest) Empty() bool {
	return r.Category == nil && r.Quantity == nil && r.PricePerKg == nil && r.State == nil &&
		r.City == nil && r.ContactNumber == nil && r.Description == nil && r.Status == nil
}

// Validate checks the fields that are present.
func (r *UpdateRequest) Validate() error {
	if r.Empty() {
		return apperrors.Validation("no changes submitted")
	}
	if r.Category != nil {
		c, ok := ParseCategory(string(*r.Category))
		if !ok {
			return apperrors.ValidationField("category", "select a valid material category")
		}
		r.Category = &c
	}
	if r.Quantity != nil && !r.Quantity.IsPositive() {
		return apperrors.ValidationField("quantity", "quantity must be greater than zero")
	}
	if r.PricePerKg != nil && !r.PricePerKg.IsPositive() {
		return apperrors.ValidationField("price_per_kg", "price per kg must be greater than zero")
	}
	if r.Status != nil {
		s := Status(strings.ToLower(strings.TrimSpace(string(*r.Status))))
		if s != StatusActive && s != StatusSold {
			return apperrors.ValidationField("status", "status must be active or sold")
		}
		r.Status = &s
	}
	if r.Description != nil && utf8.RuneCountInString(*r.Description) > maxDescriptionLen {
		return apperrors.ValidationField("description", "description cannot exceed 2000 characters")
	}
	return nil
}
