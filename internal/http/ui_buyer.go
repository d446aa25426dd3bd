package httpx

import (
	"context"
	"net/http"

	"github.com/ecoworth/marketplace-web/internal/domain/listing"
	apperrors "github.com/ecoworth/marketplace-web/internal/errors"
	"github.com/ecoworth/marketplace-web/internal/service"
)

// Buyer dashboard tabs.
const (
	tabAll       = "all"
	tabSaved     = "saved"
	tabContacted = "contacted"
)

func parseTab(raw string) string {
	switch raw {
	case tabSaved, tabContacted:
		return raw
	default:
		return tabAll
	}
}

// BuyerDashboard renders the buyer's marketplace view with filters and the saved and contacted tabs.
func (h *UIHandlers) BuyerDashboard(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	q := r.URL.Query()
	f := filterFromQuery(q)
	tab := parseTab(q.Get("tab"))
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "Buyer Dashboard", PageTitle: "Buyer Dashboard", CurrentPage: PageBuyerDashboard},
		Fetch: func(ctx context.Context, data map[string]any) error {
			filterData(data, f)
			data["Tab"] = tab
			view, err := h.Listings.BuyerDashboard(ctx, sess, f)
			if err != nil {
				return err
			}
			data["View"] = view
			data["CanAct"] = true
			switch tab {
			case tabSaved:
				data["Cards"] = view.Saved
			case tabContacted:
				data["Cards"] = view.Contacted
			default:
				data["Cards"] = view.Results
			}
			return nil
		},
	})
}

// listingIDFromPath reads the {id} path value.
func listingIDFromPath(r *http.Request) (listing.ID, error) {
	id, ok := listing.ParseID(r.PathValue("id"))
	if !ok {
		return "", apperrors.ValidationField("id", "Listing id is required.")
	}
	return id, nil
}

// ListingSave toggles the saved state of a listing for the signed-in buyer.
func (h *UIHandlers) ListingSave(w http.ResponseWriter, r *http.Request) {
	id, err := listingIDFromPath(r)
	if err != nil {
		h.actionError(w, r, err)
		return
	}
	rec, err := h.Listings.Reconciler(r.Context(), sessionFrom(r))
	if err != nil {
		h.actionError(w, r, err)
		return
	}
	res, err := rec.ToggleSave(r.Context(), id)
	if err != nil {
		h.actionError(w, r, err)
		return
	}

	msg := "Listing saved."
	if !res.Saved {
		msg = "Listing removed from saved."
	}
	h.respondWithCard(w, r, rec, id, msg)
}

// ListingContact reveals the seller's contact details for the signed-in buyer.
func (h *UIHandlers) ListingContact(w http.ResponseWriter, r *http.Request) {
	id, err := listingIDFromPath(r)
	if err != nil {
		h.actionError(w, r, err)
		return
	}
	rec, err := h.Listings.Reconciler(r.Context(), sessionFrom(r))
	if err != nil {
		h.actionError(w, r, err)
		return
	}
	res, err := rec.RevealContact(r.Context(), id)
	if err != nil {
		h.actionError(w, r, err)
		return
	}

	msg := "Seller details unlocked."
	if res.AlreadyContacted {
		msg = "You have already contacted this seller."
	}
	h.respondWithCard(w, r, rec, id, msg)
}

// respondWithCard answers a buyer action. htmx requests get the re-rendered listing card and
// a toast; plain form posts go back to the page they came from.
func (h *UIHandlers) respondWithCard(w http.ResponseWriter, r *http.Request, rec *service.ListingReconciler, id listing.ID, msg string) {
	if !IsHTMX(r) {
		back := safeRedirectFromURL(r.Header.Get("Referer"))
		if back == "" || back == "/" {
			back = h.policy().HomeFor(sessionFrom(r).Role)
		}
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}

	l, err := h.Listings.Find(r.Context(), id)
	if err != nil {
		// The action succeeded; only the card refresh is lost.
		h.logger().WarnContext(r.Context(), "reload listing card", "listing_id", id, "error", err)
		w.Header().Set("Hx-Reswap", "none")
		HTMX(w).Toast(msg, ToastSuccess)
		w.WriteHeader(http.StatusOK)
		return
	}

	HTMX(w).Toast(msg, ToastSuccess)
	data := map[string]any{
		"Card":      rec.Card(l),
		"CanAct":    true,
		"CSRFToken": GetCSRFToken(r),
	}
	if err := h.T.RenderFragment(w, "listing-card", data); err != nil {
		h.logAndRenderTemplateError(w, r, err, "listing card render")
	}
}
