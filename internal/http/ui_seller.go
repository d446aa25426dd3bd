package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/ecoworth/marketplace-web/internal/domain/listing"
	"github.com/ecoworth/marketplace-web/internal/http/validation"
)

const (
	maxLocationLen = 80
	maxContactLen  = 20
	maxDescLen     = 2000
)

// listingForm echoes the submitted listing fields back to the form.
type listingForm struct {
	ID            string
	Category      string
	Quantity      string
	PricePerKg    string
	State         string
	City          string
	ContactNumber string
	Description   string
	Status        string

	create listing.CreateRequest
	update listing.UpdateRequest
}

func readListingForm(r *http.Request) (listingForm, bool) {
	if err := r.ParseForm(); err != nil {
		return listingForm{}, false
	}
	get := func(k string) string { return strings.TrimSpace(r.PostForm.Get(k)) }
	return listingForm{
		ID:            r.PathValue("id"),
		Category:      get("category"),
		Quantity:      get("quantity"),
		PricePerKg:    get("price_per_kg"),
		State:         get("state"),
		City:          get("city"),
		ContactNumber: get("contact_number"),
		Description:   get("description"),
		Status:        strings.ToLower(get("status")),
	}, true
}

func categoryNames() []string {
	cats := listing.Categories()
	out := make([]string, len(cats))
	for i, c := range cats {
		out[i] = string(c)
	}
	return out
}

func parseCreateListingForm(r *http.Request) (listingForm, map[string]string) {
	f, ok := readListingForm(r)
	if !ok {
		return f, map[string]string{"_": "Invalid form submission."}
	}
	v := validation.New().
		Validate("category", f.Category, validation.OneOf("Category", categoryNames()))
	qty := v.Decimal("quantity", "Quantity", f.Quantity)
	price := v.Decimal("price_per_kg", "Price per kg", f.PricePerKg)
	v.Validate("state", f.State, validation.Required("State", maxLocationLen)).
		Validate("city", f.City, validation.Required("City", maxLocationLen)).
		Validate("contact_number", f.ContactNumber,
			validation.Required("Contact number", maxContactLen),
			validation.Pattern("Contact number", validation.PhoneNumber)).
		Validate("description", f.Description, validation.Optional("Description", maxDescLen))

	category, _ := listing.ParseCategory(f.Category)
	f.create = listing.CreateRequest{
		Category:      category,
		Quantity:      qty,
		PricePerKg:    price,
		State:         f.State,
		City:          f.City,
		ContactNumber: f.ContactNumber,
		Description:   f.Description,
	}
	return f, v.Errors()
}

// parseUpdateListingForm builds a partial update from the fields that were filled in.
func parseUpdateListingForm(r *http.Request) (listingForm, map[string]string) {
	f, ok := readListingForm(r)
	if !ok {
		return f, map[string]string{"_": "Invalid form submission."}
	}
	v := validation.New()
	if f.Category != "" {
		v.Validate("category", f.Category, validation.OneOf("Category", categoryNames()))
		c, _ := listing.ParseCategory(f.Category)
		f.update.Category = &c
	}
	if f.Quantity != "" {
		q := v.Decimal("quantity", "Quantity", f.Quantity)
		f.update.Quantity = &q
	}
	if f.PricePerKg != "" {
		p := v.Decimal("price_per_kg", "Price per kg", f.PricePerKg)
		f.update.PricePerKg = &p
	}
	setText := func(field, label, val string, maxLen int, dst **string, extra ...validation.Validator) {
		if val == "" {
			return
		}
		v.Validate(field, val, append([]validation.Validator{validation.Optional(label, maxLen)}, extra...)...)
		s := val
		*dst = &s
	}
	setText("state", "State", f.State, maxLocationLen, &f.update.State)
	setText("city", "City", f.City, maxLocationLen, &f.update.City)
	setText("contact_number", "Contact number", f.ContactNumber, maxContactLen, &f.update.ContactNumber,
		validation.Pattern("Contact number", validation.PhoneNumber))
	setText("description", "Description", f.Description, maxDescLen, &f.update.Description)
	if f.Status != "" {
		v.Validate("status", f.Status, validation.OneOf("Status", []string{string(listing.StatusActive), string(listing.StatusSold)}))
		s := listing.Status(f.Status)
		f.update.Status = &s
	}
	return f, v.Errors()
}

// formFromListing pre-fills the edit form.
func formFromListing(l listing.Listing) listingForm {
	status := string(l.Status)
	if status == "" {
		status = string(listing.StatusActive)
	}
	return listingForm{
		ID:            l.ID.String(),
		Category:      string(l.Category),
		Quantity:      l.Quantity.String(),
		PricePerKg:    l.PricePerKg.StringFixed(2),
		State:         l.State,
		City:          l.City,
		ContactNumber: l.ContactNumber,
		Description:   l.Description,
		Status:        status,
	}
}

// loadSellerView adds the seller's listings to data, reporting failures inline.
func (h *UIHandlers) loadSellerView(ctx context.Context, r *http.Request, data map[string]any) {
	data["Categories"] = listing.Categories()
	if _, ok := data["Seller"]; ok {
		return
	}
	view, err := h.Listings.SellerListings(ctx, sessionFrom(r))
	if err != nil {
		h.logger().WarnContext(ctx, "load seller listings", "error", err)
		if _, set := data["ErrorMessage"]; !set {
			data["Error"], data["ErrorMessage"] = true, userMessage(err)
		}
		return
	}
	data["Seller"] = view
}

// SellerDashboard renders the seller's overview and the new-listing form.
func (h *UIHandlers) SellerDashboard(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "Seller Dashboard", PageTitle: "Seller Dashboard", CurrentPage: PageSellerDashboard},
		Fetch: func(ctx context.Context, data map[string]any) error {
			data["Categories"] = listing.Categories()
			data["Mode"] = FormModeCreate
			data["FormData"] = listingForm{Status: string(listing.StatusActive)}
			view, err := h.Listings.SellerListings(ctx, sess)
			if err != nil {
				return err
			}
			data["Seller"] = view
			return nil
		},
	})
}

// renderSellerDashboardForm re-renders the dashboard around a rejected new listing.
func (h *UIHandlers) renderSellerDashboardForm(w http.ResponseWriter, r *http.Request, data map[string]any) {
	h.loadSellerView(r.Context(), r, data)
	h.renderPage(w, r, data)
}

// ListingCreate publishes a new listing for the seller.
func (h *UIHandlers) ListingCreate(w http.ResponseWriter, r *http.Request) {
	HandleForm(FormHandlerOpts[listingForm]{
		W:        w,
		R:        r,
		Mode:     FormModeCreate,
		Parser:   parseCreateListingForm,
		Renderer: h.renderSellerDashboardForm,
		PageMeta: PageMeta{Title: "Seller Dashboard", PageTitle: "Seller Dashboard", CurrentPage: PageSellerDashboard},
		Submit: func(ctx context.Context, f listingForm) error {
			_, err := h.Listings.Create(ctx, sessionFrom(r), f.create)
			return err
		},
		SuccessURL: "/seller-dashboard?notice=listing-saved",
	})
}

// SellerListingPage renders the seller's listings grouped by category. ?edit={id} opens
// the edit form for that listing.
func (h *UIHandlers) SellerListingPage(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	editID, editing := listing.ParseID(r.URL.Query().Get("edit"))
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "My Listings", PageTitle: "My Listings", CurrentPage: PageSellerListing},
		Fetch: func(ctx context.Context, data map[string]any) error {
			data["Categories"] = listing.Categories()
			view, err := h.Listings.SellerListings(ctx, sess)
			if err != nil {
				return err
			}
			data["Seller"] = view
			if !editing {
				return nil
			}
			for _, l := range view.Listings {
				if l.ID == editID {
					data["Mode"] = FormModeEdit
					data["EditID"] = l.ID.String()
					data["FormData"] = formFromListing(l)
					return nil
				}
			}
			data["Error"], data["ErrorMessage"] = true, "That listing was not found among your listings."
			return nil
		},
	})
}

// renderSellerListingForm re-renders the listings page around a rejected edit.
func (h *UIHandlers) renderSellerListingForm(w http.ResponseWriter, r *http.Request, data map[string]any) {
	data["EditID"] = r.PathValue("id")
	h.loadSellerView(r.Context(), r, data)
	h.renderPage(w, r, data)
}

// ListingUpdate applies the seller's changes to one listing.
func (h *UIHandlers) ListingUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := listingIDFromPath(r)
	if err != nil {
		h.actionError(w, r, err)
		return
	}
	HandleForm(FormHandlerOpts[listingForm]{
		W:        w,
		R:        r,
		Mode:     FormModeEdit,
		Parser:   parseUpdateListingForm,
		Renderer: h.renderSellerListingForm,
		PageMeta: PageMeta{Title: "My Listings", PageTitle: "My Listings", CurrentPage: PageSellerListing},
		Submit: func(ctx context.Context, f listingForm) error {
			_, err := h.Listings.Update(ctx, sessionFrom(r), id, f.update)
			return err
		},
		SuccessURL: "/seller-listing?notice=listing-updated",
	})
}

// ListingDelete removes one of the seller's listings. htmx callers swap the card out.
func (h *UIHandlers) ListingDelete(w http.ResponseWriter, r *http.Request) {
	id, err := listingIDFromPath(r)
	if err != nil {
		h.actionError(w, r, err)
		return
	}
	if err := h.Listings.Delete(r.Context(), sessionFrom(r), id); err != nil {
		h.actionError(w, r, err)
		return
	}
	if IsHTMX(r) {
		HTMX(w).Toast("Listing deleted.", ToastSuccess)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/seller-listing?notice=listing-deleted", http.StatusSeeOther)
}
