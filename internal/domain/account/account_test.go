package account

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecoworth/marketplace-web/internal/domain/auth"
	"github.com/ecoworth/marketplace-web/internal/domain/listing"
	apperrors "github.com/ecoworth/marketplace-web/internal/errors"
)

func TestParseUserStatus(t *testing.T) {
	s, ok := ParseUserStatus(" Suspended ")
	assert.True(t, ok)
	assert.Equal(t, UserSuspended, s)

	_, ok = ParseUserStatus("banned")
	assert.False(t, ok)

	assert.True(t, User{Status: "SUSPENDED"}.Suspended())
	assert.False(t, User{Status: UserActive}.Suspended())
}

func TestStatsFrom(t *testing.T) {
	users := []User{{Role: "Seller"}, {Role: auth.RoleBuyer}, {Role: auth.RoleBuyer}, {Role: auth.RoleAdmin}}
	listings := []listing.Listing{{ID: "1"}, {ID: "2"}}
	pending := []Subscription{{ID: "s1", Status: SubscriptionPending}}

	s := StatsFrom(users, listings, pending)
	assert.Equal(t, Stats{TotalUsers: 4, TotalSellers: 1, TotalBuyers: 2, TotalListings: 2, PendingLicenses: 1}, s)
}

func TestSubscriptionStatus(t *testing.T) {
	assert.Equal(t, SubscriptionNone, SubscriptionStatus("").Normalize())
	assert.True(t, SubscriptionStatus("Approved").Licensed())
	assert.False(t, SubscriptionPending.Licensed())
	assert.False(t, SubscriptionPending.CanRequest())
	assert.True(t, SubscriptionRejected.CanRequest())
	assert.True(t, SubscriptionNone.CanRequest())
}

func TestPurchaseRequest_Validate(t *testing.T) {
	r := PurchaseRequest{PlanType: "PRO", PaymentMethod: "UPI", TransactionID: " TX1 "}
	require.NoError(t, r.Validate())
	assert.Equal(t, "pro", r.PlanType)
	assert.Equal(t, "upi", r.PaymentMethod)
	assert.Equal(t, "TX1", r.TransactionID)

	tests := map[string]PurchaseRequest{
		"plan_type":      {PlanType: "gold", PaymentMethod: "upi", TransactionID: "x"},
		"payment_method": {PlanType: "pro", PaymentMethod: "", TransactionID: "x"},
		"transaction_id": {PlanType: "pro", PaymentMethod: "card", TransactionID: "  "},
	}
	for field, req := range tests {
		t.Run(field, func(t *testing.T) {
			err := req.Validate()
			assert.True(t, apperrors.IsValidation(err))
			assert.Equal(t, field, apperrors.GetField(err))
		})
	}
}

func TestFindPlan(t *testing.T) {
	p, ok := FindPlan("Enterprise")
	assert.True(t, ok)
	assert.Equal(t, "4999", p.Price.String())
	_, ok = FindPlan("free")
	assert.False(t, ok)
}
