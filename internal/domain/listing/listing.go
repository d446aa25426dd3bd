// Package listing holds marketplace listing types and the buyer-side filtering rules.
package listing

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ID identifies a listing. The backend emits ids as JSON numbers or strings.
type ID string

// UnmarshalJSON accepts both numeric and string ids.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// String returns the id as used in URL paths.
func (id ID) String() string { return string(id) }

// Empty reports whether the id is blank.
func (id ID) Empty() bool { return strings.TrimSpace(string(id)) == "" }

// ParseID normalises a path or form value into an ID.
func ParseID(raw string) (ID, bool) {
	id := ID(strings.TrimSpace(raw))
	if id.Empty() || strings.ContainsAny(string(id), "/?#") {
		return "", false
	}
	return id, true
}

// Category is the plastic type of a listing.
type Category string

const (
	CategoryPET   Category = "PET"
	CategoryHDPE  Category = "HDPE"
	CategoryLDPE  Category = "LDPE"
	CategoryPVC   Category = "PVC"
	CategoryPE    Category = "PE"
	CategoryPP    Category = "PP"
	CategoryOther Category = "Other"
)

// Categories returns the categories offered in forms and filters, in display order.
func Categories() []Category {
	return []Category{CategoryPET, CategoryHDPE, CategoryLDPE, CategoryPVC, CategoryPE, CategoryPP, CategoryOther}
}

// ParseCategory matches raw against the known categories case-insensitively.
func ParseCategory(raw string) (Category, bool) {
	raw = strings.TrimSpace(raw)
	for _, c := range Categories() {
		if strings.EqualFold(raw, string(c)) {
			return c, true
		}
	}
	return Category(raw), false
}

// Matches compares categories case-insensitively.
func (c Category) Matches(other Category) bool {
	return strings.EqualFold(strings.TrimSpace(string(c)), strings.TrimSpace(string(other)))
}

// Status is a seller-side listing lifecycle marker.
type Status string

const (
	StatusActive Status = "active"
	StatusSold   Status = "sold"
)

// Is compares statuses case-insensitively.
func (s Status) Is(other Status) bool {
	return strings.EqualFold(strings.TrimSpace(string(s)), string(other))
}

// Listing is a seller's posted quantity of a waste-material category.
type Listing struct {
	ID            ID              `json:"id"`
	Category      Category        `json:"category"`
	Quantity      decimal.Decimal `json:"quantity"`
	Unit          string          `json:"unit,omitempty"`
	PricePerKg    decimal.Decimal `json:"price_per_kg"`
	Description   string          `json:"description"`
	State         string          `json:"state"`
	City          string          `json:"city"`
	ContactNumber string          `json:"contact_number"`
	SellerEmail   string          `json:"seller_email"`
	Status        Status          `json:"status,omitempty"`
	CreatedAt     *time.Time      `json:"created_at,omitempty"`
}

// wireListing mirrors the backend's field aliases ("_id", "contact", "quantity_kg", "price").
type wireListing struct {
	ID            ID               `json:"id"`
	MongoID       ID               `json:"_id"`
	Category      Category         `json:"category"`
	Quantity      *decimal.Decimal `json:"quantity"`
	QuantityKg    *decimal.Decimal `json:"quantity_kg"`
	Unit          string           `json:"unit"`
	PricePerKg    *decimal.Decimal `json:"price_per_kg"`
	Price         *decimal.Decimal `json:"price"`
	Description   string           `json:"description"`
	State         string           `json:"state"`
	City          string           `json:"city"`
	ContactNumber string           `json:"contact_number"`
	Contact       string           `json:"contact"`
	SellerEmail   string           `json:"seller_email"`
	Status        Status           `json:"status"`
	CreatedAt     *time.Time       `json:"created_at"`
}

// UnmarshalJSON decodes a backend listing, resolving field aliases.
func (l *Listing) UnmarshalJSON(data []byte) error {
	var w wireListing
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*l = Listing{
		ID:            firstID(w.ID, w.MongoID),
		Category:      w.Category,
		Quantity:      firstDecimal(w.Quantity, w.QuantityKg),
		Unit:          w.Unit,
		PricePerKg:    firstDecimal(w.PricePerKg, w.Price),
		Description:   w.Description,
		State:         w.State,
		City:          w.City,
		ContactNumber: firstNonEmpty(w.ContactNumber, w.Contact),
		SellerEmail:   w.SellerEmail,
		Status:        w.Status,
		CreatedAt:     w.CreatedAt,
	}
	if c, ok := ParseCategory(string(w.Category)); ok {
		l.Category = c
	}
	return nil
}

// UnitLabel returns the quantity unit, defaulting to kg.
func (l Listing) UnitLabel() string {
	if u := strings.TrimSpace(l.Unit); u != "" {
		return u
	}
	return "kg"
}

func firstID(ids ...ID) ID {
	for _, id := range ids {
		if !id.Empty() {
			return id
		}
	}
	return ""
}

func firstDecimal(vals ...*decimal.Decimal) decimal.Decimal {
	for _, v := range vals {
		if v != nil {
			return *v
		}
	}
	return decimal.Zero
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// IDsFromStrings converts raw ids (for example from form values) into IDs, dropping blanks.
func IDsFromStrings(raw []string) []ID {
	out := make([]ID, 0, len(raw))
	for _, r := range raw {
		if id, ok := ParseID(r); ok {
			out = append(out, id)
		}
	}
	return out
}

// FormatINR renders a price as shown on cards ("₹1,250.50").
func FormatINR(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := "₹" + b.String()
	if frac != "00" {
		out += "." + frac
	}
	if neg {
		out = "-" + out
	}
	return out
}

// FormatQuantity renders a quantity without trailing zeros.
func FormatQuantity(d decimal.Decimal) string {
	if d.IsInteger() {
		return strconv.FormatInt(d.IntPart(), 10)
	}
	return d.String()
}
