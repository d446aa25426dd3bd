package httpx

import (
	"log/slog"
	"net/http"
	"time"

	domainauth "github.com/ecoworth/marketplace-web/internal/domain/auth"
	"github.com/ecoworth/marketplace-web/internal/domain/listing"
	"github.com/ecoworth/marketplace-web/internal/service"
)

// APIHandlers serves the JSON mirror of the buyer actions for scripted clients.
type APIHandlers struct {
	Listings ListingsUI
	Policy   *domainauth.RoutePolicy
	Logger   *slog.Logger
}

func (h *APIHandlers) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

type saveResponse struct {
	ID    listing.ID `json:"id"`
	Saved bool       `json:"saved"`
}

type contactResponse struct {
	ID               listing.ID `json:"id"`
	Contacted        bool       `json:"contacted"`
	AlreadyContacted bool       `json:"already_contacted"`
	ContactNumber    string     `json:"contact_number,omitempty"`
	SellerEmail      string     `json:"seller_email,omitempty"`
}

type listingStateResponse struct {
	Saved     []listing.ID `json:"saved"`
	Contacted []listing.ID `json:"contacted"`
}

type sessionUser struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type sessionResponse struct {
	Authenticated bool         `json:"authenticated"`
	User          *sessionUser `json:"user,omitempty"`
	ExpiresAt     *time.Time   `json:"expires_at,omitempty"`
	Home          string       `json:"home,omitempty"`
}

func (h *APIHandlers) reconciler(w http.ResponseWriter, r *http.Request) (*service.ListingReconciler, listing.ID, bool) {
	id, err := listingIDFromPath(r)
	if err != nil {
		WriteAppError(w, err)
		return nil, "", false
	}
	rec, err := h.Listings.Reconciler(r.Context(), GetSessionFromContext(r.Context()))
	if err != nil {
		WriteAppError(w, err)
		return nil, "", false
	}
	return rec, id, true
}

// Save adds a listing to the buyer's saved set. Saving a saved listing succeeds without a backend call.
func (h *APIHandlers) Save(w http.ResponseWriter, r *http.Request) {
	rec, id, ok := h.reconciler(w, r)
	if !ok {
		return
	}
	res, err := rec.Save(r.Context(), id)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, saveResponse{ID: res.ID, Saved: res.Saved})
}

// Unsave removes a listing from the buyer's saved set.
func (h *APIHandlers) Unsave(w http.ResponseWriter, r *http.Request) {
	rec, id, ok := h.reconciler(w, r)
	if !ok {
		return
	}
	res, err := rec.Unsave(r.Context(), id)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, saveResponse{ID: res.ID, Saved: res.Saved})
}

// Contact reveals the seller's contact details for a listing.
func (h *APIHandlers) Contact(w http.ResponseWriter, r *http.Request) {
	rec, id, ok := h.reconciler(w, r)
	if !ok {
		return
	}
	res, err := rec.RevealContact(r.Context(), id)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	out := contactResponse{ID: res.ID, Contacted: true, AlreadyContacted: res.AlreadyContacted}
	if l, err := h.Listings.Find(r.Context(), id); err == nil {
		out.ContactNumber = l.ContactNumber
		out.SellerEmail = l.SellerEmail
	} else {
		h.logger().WarnContext(r.Context(), "load contacted listing", "listing_id", id, "error", err)
	}
	WriteJSON(w, http.StatusOK, out)
}

// State returns the buyer's saved and contacted listing ids.
func (h *APIHandlers) State(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Listings.Reconciler(r.Context(), GetSessionFromContext(r.Context()))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, listingStateResponse{
		Saved:     rec.Saved().Slice(),
		Contacted: rec.Contacted().Slice(),
	})
}

// Session reports whether the caller is signed in and as whom.
func (h *APIHandlers) Session(w http.ResponseWriter, r *http.Request) {
	sess := GetSessionFromContext(r.Context())
	if sess == nil {
		WriteJSON(w, http.StatusOK, sessionResponse{Authenticated: false})
		return
	}
	policy := h.Policy
	if policy == nil {
		policy = domainauth.DefaultRoutePolicy()
	}
	expires := sess.ExpiresAt
	WriteJSON(w, http.StatusOK, sessionResponse{
		Authenticated: true,
		User: &sessionUser{
			Name:  sess.DisplayName(),
			Email: sess.Email,
			Role:  string(domainauth.NormalizeRole(sess.Role)),
		},
		ExpiresAt: &expires,
		Home:      policy.HomeFor(sess.Role),
	})
}
