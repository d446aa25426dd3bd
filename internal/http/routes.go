package httpx

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	ecoworth "github.com/ecoworth/marketplace-web"
	domainauth "github.com/ecoworth/marketplace-web/internal/domain/auth"
	"github.com/ecoworth/marketplace-web/internal/observability/metrics"
)

// RouterServices holds everything the HTTP router needs.
type RouterServices struct {
	Auth          AuthUI
	Listings      ListingsUI
	Admin         AdminUI
	Subscriptions LicenseUI

	// Policy defaults to domainauth.DefaultRoutePolicy.
	Policy  *domainauth.RoutePolicy
	Metrics *metrics.Marketplace
	Cookies CookieSettings
	// Compression enables gzip responses when non-nil.
	Compression *CompressionConfig
	// HealthChecks are run by /healthz.
	HealthChecks map[string]HealthCheck

	// TemplateFS and StaticFS override the embedded assets (tests use them).
	TemplateFS fs.FS
	StaticFS   fs.FS

	IsDev  bool         // Development mode: templates and static files are read from disk.
	Logger *slog.Logger // Logger for request, template and HTTP errors (optional)
	Now    func() time.Time
}

func (s RouterServices) validate() error {
	var missing []error
	if s.Auth == nil {
		missing = append(missing, errors.New("auth service is required"))
	}
	if s.Listings == nil {
		missing = append(missing, errors.New("listing service is required"))
	}
	if s.Admin == nil {
		missing = append(missing, errors.New("admin service is required"))
	}
	if s.Subscriptions == nil {
		missing = append(missing, errors.New("subscription service is required"))
	}
	return errors.Join(missing...)
}

// NewRouter builds the application handler: routes wrapped in recover, request logging,
// optional compression, CSRF protection and session loading, outermost first.
func NewRouter(services RouterServices) (http.Handler, error) {
	if err := services.validate(); err != nil {
		return nil, err
	}
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}
	policy := services.Policy
	if policy == nil {
		policy = domainauth.DefaultRoutePolicy()
	}

	templateFS, staticFS, err := assetFilesystems(services)
	if err != nil {
		return nil, err
	}
	tr, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: templateFS, Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("create template renderer: %w", err)
	}

	ui := &UIHandlers{
		T:             tr,
		Auth:          services.Auth,
		Listings:      services.Listings,
		Admin:         services.Admin,
		Subscriptions: services.Subscriptions,
		Policy:        policy,
		Cookies:       services.Cookies,
		IsDev:         services.IsDev,
		Logger:        logger,
		Now:           services.Now,
	}
	api := &APIHandlers{Listings: services.Listings, Policy: policy, Logger: logger}
	guard := NewRouteGuard(RouteGuardOptions{Policy: policy, Metrics: services.Metrics, Now: services.Now})

	mux := http.NewServeMux()
	mux.Handle("GET /healthz", healthHandler(services.HealthChecks))
	mux.Handle("HEAD /healthz", healthHandler(services.HealthChecks))
	mux.Handle("GET /static/", staticHandler(staticFS, services.IsDev))

	registerPublicRoutes(mux, ui)
	registerAuthRoutes(mux, ui)
	registerBuyerRoutes(mux, ui, guard)
	registerSellerRoutes(mux, ui, guard)
	registerAdminRoutes(mux, ui, guard)
	registerLicenseRoutes(mux, ui, guard)
	registerAPIRoutes(mux, api, guard)
	mux.HandleFunc("/", ui.NotFound)

	var handler http.Handler = mux
	handler = LoadSession(services.Auth, services.Cookies, logger)(handler)
	handler = CSRFProtection(CSRFConfig{CookieDomain: services.Cookies.Domain})(handler)
	if services.Compression != nil {
		cfg := *services.Compression
		if cfg.Logger == nil {
			cfg.Logger = logger
		}
		handler = Compression(cfg)(handler)
	}
	handler = Logging(logger)(handler)
	handler = Recover(logger)(handler)
	return handler, nil
}

// assetFilesystems picks the template and static filesystems.
// Dev mode reads from disk for quick template edits; production uses the embedded copies.
func assetFilesystems(services RouterServices) (fs.FS, fs.FS, error) {
	templateFS, staticFS := services.TemplateFS, services.StaticFS
	if services.IsDev {
		if templateFS == nil {
			templateFS = os.DirFS(TemplatePathFromRoot)
		}
		if staticFS == nil {
			staticFS = os.DirFS(StaticPathFromRoot)
		}
		return templateFS, staticFS, nil
	}

	var err error
	if templateFS == nil {
		if templateFS, err = fs.Sub(ecoworth.TemplateFS, TemplatePathFromRoot); err != nil {
			return nil, nil, fmt.Errorf("embedded templates: %w", err)
		}
	}
	if staticFS == nil {
		if staticFS, err = fs.Sub(ecoworth.StaticFS, StaticPathFromRoot); err != nil {
			return nil, nil, fmt.Errorf("embedded static assets: %w", err)
		}
	}
	return templateFS, staticFS, nil
}

// staticHandler serves /static/* with cache headers: cacheable in production, never cached in dev.
func staticHandler(staticFS fs.FS, isDev bool) http.Handler {
	files := http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isDev {
			w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		} else {
			w.Header().Set("Cache-Control", "public, max-age=3600")
		}
		files.ServeHTTP(w, r)
	})
}

// registerPublicRoutes wires the pages anyone can see.
func registerPublicRoutes(mux *http.ServeMux, h *UIHandlers) {
	mux.HandleFunc("GET /{$}", h.Home)
	mux.HandleFunc("GET /home", h.Home)
	mux.HandleFunc("GET /buy-materials", h.BuyMaterials)
	mux.HandleFunc("GET /sell-waste", h.SellWaste)
	mux.HandleFunc("GET /about", h.About)
}

// registerAuthRoutes wires login, signup, logout and password reset.
func registerAuthRoutes(mux *http.ServeMux, h *UIHandlers) {
	mux.HandleFunc("GET /login", h.Login)
	mux.HandleFunc("POST /login", h.LoginSubmit)
	mux.HandleFunc("GET /signup", h.Signup)
	mux.HandleFunc("POST /signup", h.SignupSubmit)
	mux.HandleFunc("GET /forgot-password", h.ForgotPassword)
	mux.HandleFunc("POST /forgot-password", h.ForgotPasswordSubmit)
	mux.HandleFunc("GET /reset-password", h.ResetPassword)
	mux.HandleFunc("POST /reset-password", h.ResetPasswordSubmit)
	mux.HandleFunc("POST /auth/logout", h.Logout)
}

func registerBuyerRoutes(mux *http.ServeMux, h *UIHandlers, g *RouteGuard) {
	mux.Handle("GET /buyer-dashboard", g.Route("/buyer-dashboard")(http.HandlerFunc(h.BuyerDashboard)))

	buyer := g.Require(domainauth.RoleBuyer)
	mux.Handle("POST /listings/{id}/save", buyer(http.HandlerFunc(h.ListingSave)))
	mux.Handle("POST /listings/{id}/contact", buyer(http.HandlerFunc(h.ListingContact)))
}

func registerSellerRoutes(mux *http.ServeMux, h *UIHandlers, g *RouteGuard) {
	mux.Handle("GET /seller-dashboard", g.Route("/seller-dashboard")(http.HandlerFunc(h.SellerDashboard)))
	mux.Handle("GET /seller-listing", g.Route("/seller-listing")(http.HandlerFunc(h.SellerListingPage)))

	seller := g.Require(domainauth.RoleSeller)
	mux.Handle("POST /listings", seller(http.HandlerFunc(h.ListingCreate)))
	mux.Handle("POST /listings/{id}", seller(http.HandlerFunc(h.ListingUpdate)))
	mux.Handle("POST /listings/{id}/delete", seller(http.HandlerFunc(h.ListingDelete)))
}

func registerAdminRoutes(mux *http.ServeMux, h *UIHandlers, g *RouteGuard) {
	mux.Handle("GET /admin", g.Route("/admin")(http.HandlerFunc(h.AdminDashboard)))

	admin := g.Require(domainauth.RoleAdmin)
	mux.Handle("POST /admin/users/{id}/suspend", admin(http.HandlerFunc(h.AdminSuspendUser)))
	mux.Handle("POST /admin/users/{id}/activate", admin(http.HandlerFunc(h.AdminActivateUser)))
	mux.Handle("POST /admin/users/{id}/delete", admin(http.HandlerFunc(h.AdminDeleteUser)))
	mux.Handle("POST /admin/listings/{id}/delete", admin(http.HandlerFunc(h.AdminDeleteListing)))
	mux.Handle("POST /admin/subscriptions/{id}/approve", admin(http.HandlerFunc(h.AdminApproveSubscription)))
	mux.Handle("POST /admin/subscriptions/{id}/reject", admin(http.HandlerFunc(h.AdminRejectSubscription)))
}

func registerLicenseRoutes(mux *http.ServeMux, h *UIHandlers, g *RouteGuard) {
	mux.Handle("GET /license", g.Route("/license")(http.HandlerFunc(h.License)))
	mux.Handle("POST /license/purchase", g.Require(domainauth.RoleBuyer, domainauth.RoleSeller)(http.HandlerFunc(h.LicensePurchase)))
}

// registerAPIRoutes wires the JSON mirror. The session lookup is public; the rest needs a buyer.
func registerAPIRoutes(mux *http.ServeMux, h *APIHandlers, g *RouteGuard) {
	mux.HandleFunc("GET /api/session", h.Session)

	buyer := g.Require(domainauth.RoleBuyer)
	mux.Handle("GET /api/listings/state", buyer(http.HandlerFunc(h.State)))
	mux.Handle("POST /api/listings/{id}/save", buyer(http.HandlerFunc(h.Save)))
	mux.Handle("DELETE /api/listings/{id}/save", buyer(http.HandlerFunc(h.Unsave)))
	mux.Handle("POST /api/listings/{id}/contact", buyer(http.HandlerFunc(h.Contact)))
}
