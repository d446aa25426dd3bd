package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"runtime/debug"
	"strings"
	"time"

	domainauth "github.com/ecoworth/marketplace-web/internal/domain/auth"
	apperrors "github.com/ecoworth/marketplace-web/internal/errors"
	"github.com/ecoworth/marketplace-web/internal/observability/metrics"
)

// SessionResolver looks up the live session behind a session cookie.
type SessionResolver interface {
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
}

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *respWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

// Recover returns a middleware that recovers from panics and logs them.
// It is the only global error boundary; everything else is handled where it happens.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// LoadSession returns a middleware that resolves the session cookie and stores the session
// in the request context. Visitors without a valid session continue anonymously; a cookie
// pointing at a missing or expired session is cleared. When the store cannot answer the
// request also continues anonymously, but the cookie is kept.
func LoadSession(resolver SessionResolver, cookies CookieSettings, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, err := r.Cookie(SessionCookieName)
			if err != nil || c.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			sess, err := resolver.GetSession(r.Context(), c.Value)
			if apperrors.IsUnauthenticated(err) {
				cookies.clear(w, r, SessionCookieName)
				next.ServeHTTP(w, r)
				return
			}
			if err != nil {
				logger.WarnContext(r.Context(), "session lookup failed", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(SetSessionInContext(r.Context(), sess)))
		})
	}
}

// RouteGuardOptions groups dependencies for RouteGuard.
type RouteGuardOptions struct {
	Policy  *domainauth.RoutePolicy
	Metrics *metrics.Marketplace
	Now     func() time.Time
}

// RouteGuard enforces the role policy in front of protected pages and actions.
// It only reads the request; evaluating it any number of times has no side effects
// beyond the redirect or error it writes.
type RouteGuard struct {
	policy  *domainauth.RoutePolicy
	metrics *metrics.Marketplace
	now     func() time.Time
}

// NewRouteGuard constructs a RouteGuard. A nil policy means DefaultRoutePolicy.
func NewRouteGuard(opts RouteGuardOptions) *RouteGuard {
	policy := opts.Policy
	if policy == nil {
		policy = domainauth.DefaultRoutePolicy()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &RouteGuard{policy: policy, metrics: opts.Metrics, now: now}
}

// Policy returns the guard's route policy.
func (g *RouteGuard) Policy() *domainauth.RoutePolicy { return g.policy }

// Route protects a page with the roles the policy lists for route.
// Routes missing from the policy only require a session.
func (g *RouteGuard) Route(route string) func(http.Handler) http.Handler {
	return g.guard(route, g.policy.AllowedRoles(route))
}

// Require protects an action with an explicit role set. No roles means any signed-in user.
func (g *RouteGuard) Require(allowed ...domainauth.Role) func(http.Handler) http.Handler {
	label := "action"
	if len(allowed) > 0 {
		names := make([]string, len(allowed))
		for i, r := range allowed {
			names[i] = string(r)
		}
		label = "action:" + strings.Join(names, ",")
	}
	return g.guard(label, allowed)
}

func (g *RouteGuard) guard(label string, allowed []domainauth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := GetSessionFromContext(r.Context())
			decision := g.policy.Authorize(sess, allowed, domainauth.GuardOptions{Now: g.now()})
			g.metrics.GuardDecision(label, decision.Outcome)

			switch decision.Outcome {
			case domainauth.Render:
				next.ServeHTTP(w, r)
			case domainauth.RedirectLogin:
				if !isBrowserRequest(r) {
					WriteError(w, ErrorParams{
						Code:    http.StatusUnauthorized,
						ErrCode: errCodeAuthRequired,
						Err:     errors.New("authentication required"),
					})
					return
				}
				redirectToLogin(w, r, decision.Location)
			default:
				if !isBrowserRequest(r) {
					WriteError(w, ErrorParams{
						Code:    http.StatusForbidden,
						ErrCode: errCodeInsufficientPerm,
						Err:     errors.New("insufficient permissions"),
					})
					return
				}
				browserRedirect(w, r, decision.Location)
			}
		})
	}
}

// isBrowserRequest determines if a request is from a browser based on:
// API routes start with /api/; htmx requests are browser requests;
// otherwise the Accept header decides.
func isBrowserRequest(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return false
	}
	if IsHTMX(r) {
		return true
	}

	accept := r.Header.Get("Accept")
	if accept == "" {
		return true
	}
	if strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html") {
		return false
	}
	return true
}

// browserRedirect sends the browser to location: htmx requests get Hx-Redirect,
// everything else a 303.
func browserRedirect(w http.ResponseWriter, r *http.Request, location string) {
	if IsHTMX(r) {
		SetHXRedirect(w, location)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, location, http.StatusSeeOther)
}

// redirectToLogin redirects to loginPath with the current URL as redirect_uri.
func redirectToLogin(w http.ResponseWriter, r *http.Request, loginPath string) {
	redirectPath := redirectPathForRequest(r)
	if redirectPath == "" || redirectPath == "/" {
		browserRedirect(w, r, loginPath)
		return
	}
	browserRedirect(w, r, loginPath+"?redirect_uri="+url.QueryEscape(redirectPath))
}

func redirectPathForRequest(r *http.Request) string {
	if IsHTMX(r) {
		if current := safeRedirectFromURL(r.Header.Get("Hx-Current-Url")); current != "" {
			return current
		}
		if referer := safeRedirectFromURL(r.Header.Get("Referer")); referer != "" {
			return referer
		}
	}
	if r.Method != http.MethodGet {
		return ""
	}
	return safeRedirectPath(r.URL.RequestURI())
}

func safeRedirectFromURL(raw string) string {
	if raw == "" {
		return ""
	}

	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}

	// Reject scheme-relative or host-only references.
	if u.Host != "" && !u.IsAbs() {
		return ""
	}

	// For absolute URLs, use just the path/query portion to keep redirects within the app.
	if u.IsAbs() {
		return safeRedirectPath(u.RequestURI())
	}

	return safeRedirectPath(raw)
}

// safeRedirectPath ensures the provided redirect is a same-origin relative path
// starting with "/" and not an absolute URL. Returns "/" when invalid.
func safeRedirectPath(candidate string) string {
	if candidate == "" {
		return "/"
	}
	u, err := url.Parse(candidate)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(candidate, "//") {
		return "/"
	}
	return candidate
}
