package httpx

import (
	"context"
	"html"
	"log/slog"
	"net/http"
	"time"

	"github.com/ecoworth/marketplace-web/internal/domain/account"
	domainauth "github.com/ecoworth/marketplace-web/internal/domain/auth"
	"github.com/ecoworth/marketplace-web/internal/domain/listing"
	apperrors "github.com/ecoworth/marketplace-web/internal/errors"
	"github.com/ecoworth/marketplace-web/internal/ports"
	"github.com/ecoworth/marketplace-web/internal/service"
)

// AuthUI is the slice of the auth service the login, signup and password pages need.
type AuthUI interface {
	SessionResolver
	Login(ctx context.Context, in service.LoginInput) (*domainauth.Session, error)
	Register(ctx context.Context, in service.RegisterInput) (*service.RegisterResult, error)
	Logout(ctx context.Context, sessionID string) error
	ForgotPassword(ctx context.Context, email string) (ports.ResetCodeResult, error)
	ResetPassword(ctx context.Context, in service.ResetInput) error
}

// ListingsUI is the slice of the listing service the marketplace pages need.
type ListingsUI interface {
	Browse(ctx context.Context, f listing.Filter) ([]listing.Listing, []listing.CategoryCount, error)
	Latest(ctx context.Context, n int) ([]listing.Listing, error)
	Find(ctx context.Context, id listing.ID) (listing.Listing, error)
	MarketCards(ctx context.Context, sess *domainauth.Session, ls []listing.Listing) []listing.Card
	BuyerDashboard(ctx context.Context, sess *domainauth.Session, f listing.Filter) (*service.BuyerView, error)
	Reconciler(ctx context.Context, sess *domainauth.Session) (*service.ListingReconciler, error)
	SellerListings(ctx context.Context, sess *domainauth.Session) (*service.SellerView, error)
	Create(ctx context.Context, sess *domainauth.Session, req listing.CreateRequest) (listing.Listing, error)
	Update(ctx context.Context, sess *domainauth.Session, id listing.ID, req listing.UpdateRequest) (listing.Listing, error)
	Delete(ctx context.Context, sess *domainauth.Session, id listing.ID) error
}

// AdminUI is the slice of the admin service the admin dashboard needs.
type AdminUI interface {
	Dashboard(ctx context.Context, sess *domainauth.Session) (*service.AdminDashboard, error)
	SuspendUser(ctx context.Context, sess *domainauth.Session, id account.ID) error
	ActivateUser(ctx context.Context, sess *domainauth.Session, id account.ID) error
	DeleteUser(ctx context.Context, sess *domainauth.Session, id account.ID) error
	DeleteListing(ctx context.Context, sess *domainauth.Session, id listing.ID) error
	ApproveSubscription(ctx context.Context, sess *domainauth.Session, id account.ID) error
	RejectSubscription(ctx context.Context, sess *domainauth.Session, id account.ID) error
}

// LicenseUI is the slice of the subscription service the licence page needs.
type LicenseUI interface {
	Overview(ctx context.Context, sess *domainauth.Session) (*service.LicenseOverview, error)
	Purchase(ctx context.Context, sess *domainauth.Session, req account.PurchaseRequest) (account.Subscription, error)
}

// Compile-time interface assertions to ensure concrete services satisfy their UI interfaces.
var (
	_ AuthUI     = (*service.AuthService)(nil)
	_ ListingsUI = (*service.ListingService)(nil)
	_ AdminUI    = (*service.AdminService)(nil)
	_ LicenseUI  = (*service.SubscriptionService)(nil)
)

// UIHandlers serves browser-facing routes.
type UIHandlers struct {
	T             *TemplateRenderer
	Auth          AuthUI
	Listings      ListingsUI
	Admin         AdminUI
	Subscriptions LicenseUI
	Policy        *domainauth.RoutePolicy
	Cookies       CookieSettings
	IsDev         bool // Development mode flag for enhanced error reporting
	Logger        *slog.Logger
	Now           func() time.Time
}

// logger returns the configured logger or falls back to slog.Default().
func (h *UIHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func (h *UIHandlers) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h *UIHandlers) policy() *domainauth.RoutePolicy {
	if h.Policy != nil {
		return h.Policy
	}
	return domainauth.DefaultRoutePolicy()
}

// PageSpec defines metadata and an optional fetch for page-specific data.
type PageSpec struct {
	Meta  PageMeta
	Fetch func(ctx context.Context, data map[string]any) error
}

// Page builds base data, optionally fetches content data, and renders.
// A fetch that reports an expired session sends the visitor to the login page;
// any other fetch error renders the page with an inline error message.
func (h *UIHandlers) Page(w http.ResponseWriter, r *http.Request, spec PageSpec) {
	data := basePageData(r, spec.Meta)
	if spec.Fetch != nil {
		if err := spec.Fetch(r.Context(), data); err != nil {
			if apperrors.IsUnauthenticated(err) {
				h.Cookies.clear(w, r, SessionCookieName)
				redirectToLogin(w, r, h.policy().LoginPath())
				return
			}
			h.logger().WarnContext(r.Context(), "page data unavailable", "page", spec.Meta.CurrentPage, "error", err)
			data["Error"] = true
			data["ErrorMessage"] = userMessage(err)
		}
	}
	h.renderPage(w, r, data)
}

// renderPage renders a page, returning only the content fragment for htmx requests.
func (h *UIHandlers) renderPage(w http.ResponseWriter, r *http.Request, data map[string]any) {
	if !WantsPartial(r) {
		if err := h.T.RenderFull(w, r, data); err != nil {
			h.logAndRenderTemplateError(w, r, err, "full page render")
		}
		return
	}

	page, _ := data["CurrentPage"].(string)
	title, _ := data["Title"].(string)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	SetHXTrigger(w, "nav:activate", map[string]string{"path": r.URL.Path})

	// htmx updates document.title from a <title> element in the swapped fragment.
	if _, err := w.Write([]byte(`<title>` + html.EscapeString(title) + ` | EcoWorth</title>`)); err != nil {
		h.logger().Error("failed to write partial document title", "error", err)
		return
	}
	if err := h.T.executeTo(w, ContentTemplateFor(page), data); err != nil {
		h.logAndRenderTemplateError(w, r, err, "partial content render")
	}
}

// renderForm re-renders a page after a failed form submission. It satisfies ErrorRenderer.
func (h *UIHandlers) renderForm(w http.ResponseWriter, r *http.Request, data map[string]any) {
	h.renderPage(w, r, data)
}

// actionError reports a failed htmx action. Expired sessions go to the login page;
// everything else becomes an error toast and leaves the page as it is.
func (h *UIHandlers) actionError(w http.ResponseWriter, r *http.Request, err error) {
	if apperrors.IsUnauthenticated(err) {
		h.Cookies.clear(w, r, SessionCookieName)
		redirectToLogin(w, r, h.policy().LoginPath())
		return
	}

	level := slog.LevelWarn
	if apperrors.GetCode(err) == "" || apperrors.IsInternal(err) {
		level = slog.LevelError
	}
	h.logger().Log(r.Context(), level, "action failed", "path", r.URL.Path, "code", apperrors.GetCode(err), "error", err)

	msg := userMessage(err)
	if apperrors.IsValidation(err) {
		msg = apperrors.Message(err, msg)
	}
	if !IsHTMX(r) {
		h.renderStatusPage(w, r, apperrors.HTTPStatus(err), msg)
		return
	}
	w.Header().Set("Hx-Reswap", "none")
	HTMX(w).Toast(msg, ToastError)
	w.WriteHeader(http.StatusOK)
}

// renderStatusPage renders the standalone error page with status.
func (h *UIHandlers) renderStatusPage(w http.ResponseWriter, r *http.Request, status int, message string) {
	data := basePageData(r, PageMeta{Title: http.StatusText(status), PageTitle: http.StatusText(status)})
	data["Status"] = status
	data["ErrorMessage"] = message
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.T.executeTo(w, "error-layout", data); err != nil {
		h.logger().Error("failed to render error page", "error", err)
	}
}

// NotFound renders the not-found page with a 404 status.
func (h *UIHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	data := basePageData(r, PageMeta{Title: "Page Not Found", PageTitle: "Page Not Found", CurrentPage: PageNotFound})
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	h.renderPage(w, r, data)
}

// sessionFrom returns the request's session. Routes behind the guard always have one.
func sessionFrom(r *http.Request) *domainauth.Session {
	return GetSessionFromContext(r.Context())
}

// logAndRenderTemplateError logs template errors and renders them in dev mode.
func (h *UIHandlers) logAndRenderTemplateError(w http.ResponseWriter, r *http.Request, err error, context string) {
	h.logger().Error("template rendering failed",
		"error", err,
		"context", context,
		"path", r.URL.Path,
		"method", r.Method,
	)

	if h.IsDev {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		body := `<pre class="template-error"><strong>` + html.EscapeString(context) + `</strong> ` +
			html.EscapeString(r.URL.Path) + "\n" + html.EscapeString(err.Error()) + `</pre>`
		if _, writeErr := w.Write([]byte(body)); writeErr != nil {
			h.logger().Error("failed to write template error response", "error", writeErr)
		}
		return
	}

	http.Error(w, "internal server error", http.StatusInternalServerError)
}
