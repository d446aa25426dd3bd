package listing

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ecoworth/marketplace-web/internal/errors"
)

func TestID_UnmarshalJSON(t *testing.T) {
	var ids []ID
	require.NoError(t, json.Unmarshal([]byte(`[42, "7", " abc ", null]`), &ids))
	assert.Equal(t, []ID{"42", "7", "abc", ""}, ids)
}

func TestListing_UnmarshalAliases(t *testing.T) {
	raw := `{
		"_id": "65f1",
		"category": "pet",
		"quantity_kg": "120.5",
		"price": 35,
		"description": "Clear bottles",
		"state": "Gujarat",
		"city": "Surat",
		"contact": "9876543210",
		"seller_email": "seller@example.com",
		"status": "Active"
	}`

	var l Listing
	require.NoError(t, json.Unmarshal([]byte(raw), &l))
	assert.Equal(t, ID("65f1"), l.ID)
	assert.Equal(t, CategoryPET, l.Category)
	assert.True(t, decimal.RequireFromString("120.5").Equal(l.Quantity))
	assert.True(t, decimal.NewFromInt(35).Equal(l.PricePerKg))
	assert.Equal(t, "9876543210", l.ContactNumber)
	assert.True(t, l.Status.Is(StatusActive))
	assert.Equal(t, "kg", l.UnitLabel())
}

func TestListing_UnmarshalPrefersPrimaryFields(t *testing.T) {
	raw := `{"id": 9, "_id": "x", "quantity": 10, "quantity_kg": 20, "price_per_kg": "5.5", "price": 1, "contact_number": "111", "contact": "222"}`

	var l Listing
	require.NoError(t, json.Unmarshal([]byte(raw), &l))
	assert.Equal(t, ID("9"), l.ID)
	assert.True(t, decimal.NewFromInt(10).Equal(l.Quantity))
	assert.True(t, decimal.RequireFromString("5.5").Equal(l.PricePerKg))
	assert.Equal(t, "111", l.ContactNumber)
}

func TestParseID(t *testing.T) {
	id, ok := ParseID(" 42 ")
	assert.True(t, ok)
	assert.Equal(t, ID("42"), id)

	for _, bad := range []string{"", "  ", "a/b", "1?x"} {
		_, ok := ParseID(bad)
		assert.False(t, ok, bad)
	}
	assert.Equal(t, []ID{"1", "2"}, IDsFromStrings([]string{"1", "", "2"}))
}

func TestParseCategory(t *testing.T) {
	c, ok := ParseCategory("hdpe")
	assert.True(t, ok)
	assert.Equal(t, CategoryHDPE, c)

	c, ok = ParseCategory("Nylon")
	assert.False(t, ok)
	assert.Equal(t, Category("Nylon"), c)
}

func TestFormatINR(t *testing.T) {
	assert.Equal(t, "₹35", FormatINR(decimal.NewFromInt(35)))
	assert.Equal(t, "₹1,250.50", FormatINR(decimal.RequireFromString("1250.5")))
	assert.Equal(t, "₹1,000,000", FormatINR(decimal.NewFromInt(1000000)))
	assert.Equal(t, "120.5", FormatQuantity(decimal.RequireFromString("120.50")))
	assert.Equal(t, "100", FormatQuantity(decimal.NewFromInt(100)))
}

func TestCreateRequest_Validate(t *testing.T) {
	valid := func() CreateRequest {
		return CreateRequest{
			Category:      "pet",
			Quantity:      decimal.NewFromInt(100),
			PricePerKg:    decimal.NewFromInt(30),
			State:         " Gujarat ",
			City:          "Surat",
			ContactNumber: "9876543210",
		}
	}

	r := valid()
	require.NoError(t, r.Validate())
	assert.Equal(t, CategoryPET, r.Category)
	assert.Equal(t, "Gujarat", r.State)

	tests := []struct {
		field  string
		mutate func(r *CreateRequest)
	}{
		{"category", func(r *CreateRequest) { r.Category = "glass" }},
		{"quantity", func(r *CreateRequest) { r.Quantity = decimal.Zero }},
		{"price_per_kg", func(r *CreateRequest) { r.PricePerKg = decimal.NewFromInt(-1) }},
		{"state", func(r *CreateRequest) { r.State = "" }},
		{"city", func(r *CreateRequest) { r.City = " " }},
		{"contact_number", func(r *CreateRequest) { r.ContactNumber = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			r := valid()
			tt.mutate(&r)
			err := r.Validate()
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
			assert.Equal(t, tt.field, apperrors.GetField(err))
		})
	}
}

func TestUpdateRequest_Validate(t *testing.T) {
	var empty UpdateRequest
	assert.True(t, apperrors.IsValidation(empty.Validate()))

	sold := Status("SOLD")
	r := UpdateRequest{Status: &sold}
	require.NoError(t, r.Validate())
	assert.Equal(t, StatusSold, *r.Status)

	zero := decimal.Zero
	r = UpdateRequest{Quantity: &zero}
	assert.Equal(t, "quantity", apperrors.GetField(r.Validate()))
}
