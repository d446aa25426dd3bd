package account

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperrors "github.com/ecoworth/marketplace-web/internal/errors"
)

// Plan is a desktop licence plan.
type Plan struct {
	ID       string
	Name     string
	Price    decimal.Decimal
	Period   string
	Features []string
	Popular  bool
}

// Plans returns the licence plans offered on the licence page.
func Plans() []Plan {
	return []Plan{
		{
			ID: "monthly", Name: "Monthly Plan", Price: decimal.NewFromInt(999), Period: "/month",
			Features: []string{"Desktop App Access", "AI Waste Scanning", "Up to 100 scans/month", "Basic Analytics", "Email Support"},
		},
		{
			ID: "pro", Name: "Professional", Price: decimal.NewFromInt(2499), Period: "/month", Popular: true,
			Features: []string{"Everything in Basic", "Unlimited Scans", "Advanced Analytics", "Price Predictions", "Priority Support", "API Access"},
		},
		{
			ID: "enterprise", Name: "Enterprise", Price: decimal.NewFromInt(4999), Period: "/month",
			Features: []string{"Everything in Pro", "Multi-User Access", "Custom Integrations", "Dedicated Account Manager", "24/7 Phone Support", "Custom Reports"},
		},
	}
}

// FindPlan looks a plan up by id.
func FindPlan(id string) (Plan, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, p := range Plans() {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}

// PaymentMethods lists accepted payment methods as value/label pairs.
func PaymentMethods() [][2]string {
	return [][2]string{
		{"upi", "UPI"},
		{"netbanking", "Net Banking"},
		{"card", "Credit/Debit Card"},
		{"wallet", "Wallet"},
	}
}

func validPaymentMethod(m string) bool {
	for _, pm := range PaymentMethods() {
		if pm[0] == m {
			return true
		}
	}
	return false
}

// SubscriptionStatus is the state of a licence request.
type SubscriptionStatus string

const (
	SubscriptionNone     SubscriptionStatus = "none"
	SubscriptionPending  SubscriptionStatus = "pending"
	SubscriptionApproved SubscriptionStatus = "approved"
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionRejected SubscriptionStatus = "rejected"
	SubscriptionExpired  SubscriptionStatus = "expired"
)

// Normalize lower-cases the status and maps blanks to none.
func (s SubscriptionStatus) Normalize() SubscriptionStatus {
	n := SubscriptionStatus(strings.ToLower(strings.TrimSpace(string(s))))
	if n == "" {
		return SubscriptionNone
	}
	return n
}

// Licensed reports whether the status grants desktop access.
func (s SubscriptionStatus) Licensed() bool {
	switch s.Normalize() {
	case SubscriptionApproved, SubscriptionActive:
		return true
	default:
		return false
	}
}

// CanRequest reports whether a new licence request may be submitted.
func (s SubscriptionStatus) CanRequest() bool {
	switch s.Normalize() {
	case SubscriptionPending, SubscriptionApproved, SubscriptionActive:
		return false
	default:
		return true
	}
}

// Subscription is a licence request as returned by the backend.
type Subscription struct {
	ID            ID                 `json:"id"`
	UserName      string             `json:"user_name,omitempty"`
	Email         string             `json:"email,omitempty"`
	PlanType      string             `json:"plan_type"`
	PaymentMethod string             `json:"payment_method,omitempty"`
	TransactionID string             `json:"transaction_id,omitempty"`
	Status        SubscriptionStatus `json:"status"`
	CreatedAt     *time.Time         `json:"created_at,omitempty"`
	ExpiresAt     *time.Time         `json:"expires_at,omitempty"`
}

// SubscriptionState is the current licence status for a user.
type SubscriptionState struct {
	Status    SubscriptionStatus `json:"status"`
	PlanType  string             `json:"plan_type,omitempty"`
	ExpiresAt *time.Time         `json:"expires_at,omitempty"`
}

// PurchaseRequest is a licence request submitted for admin approval.
type PurchaseRequest struct {
	PlanType      string `json:"plan_type"`
	PaymentMethod string `json:"payment_method"`
	TransactionID string `json:"transaction_id"`
}

// Validate normalises the request and checks it before any backend call.
func (r *PurchaseRequest) Validate() error {
	r.PlanType = strings.ToLower(strings.TrimSpace(r.PlanType))
	r.PaymentMethod = strings.ToLower(strings.TrimSpace(r.PaymentMethod))
	r.TransactionID = strings.TrimSpace(r.TransactionID)

	if _, ok := FindPlan(r.PlanType); !ok {
		return apperrors.ValidationField("plan_type", "select a plan")
	}
	if r.PaymentMethod == "" || !validPaymentMethod(r.PaymentMethod) {
		return apperrors.ValidationField("payment_method", "Please select a payment method")
	}
	if r.TransactionID == "" {
		return apperrors.ValidationField("transaction_id", "Please enter your transaction ID")
	}
	return nil
}
