package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/ecoworth/marketplace-web/internal/domain/account"
	"github.com/ecoworth/marketplace-web/internal/http/validation"
)

var licenseMeta = PageMeta{Title: "License", PageTitle: "Desktop Licence", CurrentPage: PageLicense}

type purchaseForm struct {
	PlanType      string
	PaymentMethod string
	TransactionID string
}

func planIDs() []string {
	plans := account.Plans()
	out := make([]string, len(plans))
	for i, p := range plans {
		out[i] = p.ID
	}
	return out
}

func paymentMethodIDs() []string {
	methods := account.PaymentMethods()
	out := make([]string, len(methods))
	for i, m := range methods {
		out[i] = m[0]
	}
	return out
}

func parsePurchaseForm(r *http.Request) (purchaseForm, map[string]string) {
	if err := r.ParseForm(); err != nil {
		return purchaseForm{}, map[string]string{"_": "Invalid form submission."}
	}
	f := purchaseForm{
		PlanType:      strings.ToLower(strings.TrimSpace(r.PostForm.Get("plan_type"))),
		PaymentMethod: strings.ToLower(strings.TrimSpace(r.PostForm.Get("payment_method"))),
		TransactionID: strings.TrimSpace(r.PostForm.Get("transaction_id")),
	}
	errs := validation.New().
		Validate("plan_type", f.PlanType, validation.OneOf("Plan", planIDs())).
		Validate("payment_method", f.PaymentMethod, validation.OneOf("Payment method", paymentMethodIDs())).
		Validate("transaction_id", f.TransactionID, validation.Required("Transaction ID", 64)).
		Errors()
	return f, errs
}

// loadLicense adds the licence overview and form options to data.
func (h *UIHandlers) loadLicense(ctx context.Context, r *http.Request, data map[string]any) error {
	data["PaymentMethods"] = account.PaymentMethods()
	overview, err := h.Subscriptions.Overview(ctx, sessionFrom(r))
	if err != nil {
		return err
	}
	data["License"] = overview
	return nil
}

// License renders the licence status, request history and purchase form.
func (h *UIHandlers) License(w http.ResponseWriter, r *http.Request) {
	h.Page(w, r, PageSpec{
		Meta: licenseMeta,
		Fetch: func(ctx context.Context, data map[string]any) error {
			data["FormData"] = purchaseForm{PlanType: r.URL.Query().Get("plan")}
			return h.loadLicense(ctx, r, data)
		},
	})
}

// renderLicenseForm re-renders the licence page around a rejected purchase.
func (h *UIHandlers) renderLicenseForm(w http.ResponseWriter, r *http.Request, data map[string]any) {
	if err := h.loadLicense(r.Context(), r, data); err != nil {
		h.logger().WarnContext(r.Context(), "load licence overview", "error", err)
	}
	h.renderPage(w, r, data)
}

// LicensePurchase submits a licence request for admin approval.
func (h *UIHandlers) LicensePurchase(w http.ResponseWriter, r *http.Request) {
	HandleForm(FormHandlerOpts[purchaseForm]{
		W:        w,
		R:        r,
		Parser:   parsePurchaseForm,
		Renderer: h.renderLicenseForm,
		PageMeta: licenseMeta,
		Submit: func(ctx context.Context, f purchaseForm) error {
			_, err := h.Subscriptions.Purchase(ctx, sessionFrom(r), account.PurchaseRequest{
				PlanType:      f.PlanType,
				PaymentMethod: f.PaymentMethod,
				TransactionID: f.TransactionID,
			})
			return err
		},
		SuccessURL: "/license?notice=license-requested",
	})
}
