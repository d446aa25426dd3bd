package httpx

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	domainauth "github.com/ecoworth/marketplace-web/internal/domain/auth"
	"github.com/ecoworth/marketplace-web/internal/domain/listing"
)

const latestListingsOnHome = 6

// Home renders the landing page with the most recent listings.
func (h *UIHandlers) Home(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "Home", PageTitle: "Turn plastic waste into worth", CurrentPage: PageHome},
		Fetch: func(ctx context.Context, data map[string]any) error {
			data["Categories"] = listing.Categories()
			latest, err := h.Listings.Latest(ctx, latestListingsOnHome)
			if err != nil {
				return err
			}
			data["Cards"] = h.Listings.MarketCards(ctx, sess, latest)
			return nil
		},
	})
}

// filterFromQuery reads the buyer filters from the query string.
func filterFromQuery(q url.Values) listing.Filter {
	f := listing.Filter{
		Price: listing.ParsePriceRange(q.Get("price")),
		Query: strings.TrimSpace(q.Get("q")),
		State: strings.TrimSpace(q.Get("state")),
	}
	if c, ok := listing.ParseCategory(q.Get("category")); ok {
		f.Category = c
	}
	return f
}

// filterData exposes the filter form state to templates.
func filterData(data map[string]any, f listing.Filter) {
	data["Filter"] = f
	data["Categories"] = listing.Categories()
	data["PriceRanges"] = listing.PriceRanges()
}

// BuyMaterials renders the public marketplace: every listing with category filters and counts.
func (h *UIHandlers) BuyMaterials(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	f := filterFromQuery(r.URL.Query())
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "Buy Materials", PageTitle: "Buy recycled materials", CurrentPage: PageBuyMaterials},
		Fetch: func(ctx context.Context, data map[string]any) error {
			filterData(data, f)
			matched, counts, err := h.Listings.Browse(ctx, f)
			if err != nil {
				return err
			}
			data["Cards"] = h.Listings.MarketCards(ctx, sess, matched)
			data["Counts"] = counts
			data["Total"] = len(matched)
			data["CanAct"] = sess != nil && sess.HasRole(domainauth.RoleBuyer)
			return nil
		},
	})
}

// SellWaste renders the seller landing page. Signed-in sellers also see their own
// listings with active and sold counts.
func (h *UIHandlers) SellWaste(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "Sell Waste", PageTitle: "Sell your plastic waste", CurrentPage: PageSellWaste},
		Fetch: func(ctx context.Context, data map[string]any) error {
			data["Categories"] = listing.Categories()
			isSeller := sess != nil && sess.HasRole(domainauth.RoleSeller)
			data["IsSeller"] = isSeller
			if !isSeller {
				return nil
			}
			view, err := h.Listings.SellerListings(ctx, sess)
			if err != nil {
				return err
			}
			data["Seller"] = view
			return nil
		},
	})
}

// About renders the static about page.
func (h *UIHandlers) About(w http.ResponseWriter, r *http.Request) {
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "About", PageTitle: "About EcoWorth", CurrentPage: PageAbout},
		Fetch: func(_ context.Context, data map[string]any) error {
			data["Categories"] = listing.Categories()
			return nil
		},
	})
}
