package httpx

import (
	"context"
	"net/http"

	domainauth "github.com/ecoworth/marketplace-web/internal/domain/auth"
	"github.com/ecoworth/marketplace-web/internal/domain/listing"
)

var adminMeta = PageMeta{Title: "Admin", PageTitle: "Admin Dashboard", CurrentPage: PageAdmin}

// AdminDashboard renders platform stats, users, listings and pending licence requests.
func (h *UIHandlers) AdminDashboard(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	h.Page(w, r, PageSpec{
		Meta: adminMeta,
		Fetch: func(ctx context.Context, data map[string]any) error {
			dash, err := h.Admin.Dashboard(ctx, sess)
			if err != nil {
				return err
			}
			data["Dashboard"] = dash
			return nil
		},
	})
}

// adminAction runs an admin mutation on the {id} path value and answers with the refreshed
// dashboard (htmx) or a redirect back to it.
func (h *UIHandlers) adminAction(w http.ResponseWriter, r *http.Request, success string,
	run func(ctx context.Context, sess *domainauth.Session, id listing.ID) error,
) {
	id, err := listingIDFromPath(r)
	if err != nil {
		h.actionError(w, r, err)
		return
	}
	if err := run(r.Context(), sessionFrom(r), id); err != nil {
		h.actionError(w, r, err)
		return
	}
	if !IsHTMX(r) {
		http.Redirect(w, r, "/admin?notice=admin-updated", http.StatusSeeOther)
		return
	}
	HTMX(w).Toast(success, ToastSuccess).PushURL("/admin")
	h.AdminDashboard(w, r)
}

// AdminSuspendUser suspends a user account.
func (h *UIHandlers) AdminSuspendUser(w http.ResponseWriter, r *http.Request) {
	h.adminAction(w, r, "User suspended.", h.Admin.SuspendUser)
}

// AdminActivateUser reactivates a suspended user account.
func (h *UIHandlers) AdminActivateUser(w http.ResponseWriter, r *http.Request) {
	h.adminAction(w, r, "User activated.", h.Admin.ActivateUser)
}

// AdminDeleteUser removes a user account.
func (h *UIHandlers) AdminDeleteUser(w http.ResponseWriter, r *http.Request) {
	h.adminAction(w, r, "User deleted.", h.Admin.DeleteUser)
}

// AdminDeleteListing removes any listing.
func (h *UIHandlers) AdminDeleteListing(w http.ResponseWriter, r *http.Request) {
	h.adminAction(w, r, "Listing deleted.", h.Admin.DeleteListing)
}

// AdminApproveSubscription approves a pending licence request.
func (h *UIHandlers) AdminApproveSubscription(w http.ResponseWriter, r *http.Request) {
	h.adminAction(w, r, "Licence approved.", h.Admin.ApproveSubscription)
}

// AdminRejectSubscription rejects a pending licence request.
func (h *UIHandlers) AdminRejectSubscription(w http.ResponseWriter, r *http.Request) {
	h.adminAction(w, r, "Licence rejected.", h.Admin.RejectSubscription)
}
