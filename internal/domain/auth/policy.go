package auth

import (
	"strings"
	"time"
)

// Default paths used by the route guard.
const (
	DefaultLoginPath    = "/login"
	DefaultFallbackHome = "/home"
)

// RoutePolicy is the static route → allowed roles mapping plus each role's canonical page.
// It is built once at startup and only read afterwards.
type RoutePolicy struct {
	routes   map[string][]Role
	homes    map[Role]string
	fallback string
	login    string
}

// DefaultRoutePolicy returns the marketplace's role-gated routes.
func DefaultRoutePolicy() *RoutePolicy {
	return &RoutePolicy{
		routes: map[string][]Role{
			"/admin":            {RoleAdmin},
			"/seller-dashboard": {RoleSeller},
			"/seller-listing":   {RoleSeller},
			"/license":          {RoleBuyer, RoleSeller},
			"/buyer-dashboard":  {RoleBuyer},
		},
		homes: map[Role]string{
			RoleAdmin:  "/admin",
			RoleSeller: "/seller-dashboard",
			RoleBuyer:  "/buyer-dashboard",
		},
		fallback: DefaultFallbackHome,
		login:    DefaultLoginPath,
	}
}

// WithLoginPath returns a copy of the policy that sends anonymous visitors to path.
func (p *RoutePolicy) WithLoginPath(path string) *RoutePolicy {
	cp := *p
	if strings.HasPrefix(path, "/") {
		cp.login = path
	}
	return &cp
}

// LoginPath returns the login route.
func (p *RoutePolicy) LoginPath() string { return p.login }

// AllowedRoles returns the roles allowed on route. An unknown route returns nil (public).
func (p *RoutePolicy) AllowedRoles(route string) []Role {
	roles := p.routes[route]
	if roles == nil {
		return nil
	}
	out := make([]Role, len(roles))
	copy(out, roles)
	return out
}

// HomeFor returns the canonical dashboard for role, or the generic home when the role is unrecognised.
func (p *RoutePolicy) HomeFor(role Role) string {
	if home, ok := p.homes[NormalizeRole(role)]; ok {
		return home
	}
	return p.fallback
}

// Outcome is the result of a route guard evaluation.
type Outcome int

const (
	// Render means the protected view may be shown.
	Render Outcome = iota
	// RedirectLogin means there is no valid session.
	RedirectLogin
	// RedirectRoleHome means the session's role is not allowed on the route.
	RedirectRoleHome
)

func (o Outcome) String() string {
	switch o {
	case Render:
		return "render"
	case RedirectLogin:
		return "redirect_login"
	case RedirectRoleHome:
		return "redirect_role_home"
	default:
		return "unknown"
	}
}

// Decision carries the guard outcome and, for redirects, where to go.
type Decision struct {
	Outcome  Outcome
	Location string
}

// Allowed reports whether the protected view may be rendered.
func (d Decision) Allowed() bool { return d.Outcome == Render }

// GuardOptions customises a single guard evaluation.
type GuardOptions struct {
	// RedirectTo overrides the login redirect for anonymous visitors.
	RedirectTo string
	// Now is the evaluation time; zero means time.Now().
	Now time.Time
}

// Authorize decides whether a visitor with sess may see a view restricted to allowed.
// An empty allowed set means any authenticated role. It has no side effects.
func (p *RoutePolicy) Authorize(sess *Session, allowed []Role, opts GuardOptions) Decision {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	if !sess.Valid(now) {
		loc := p.login
		if opts.RedirectTo != "" {
			loc = opts.RedirectTo
		}
		return Decision{Outcome: RedirectLogin, Location: loc}
	}

	if len(allowed) > 0 && !sess.HasRole(allowed...) {
		return Decision{Outcome: RedirectRoleHome, Location: p.HomeFor(sess.Role)}
	}

	return Decision{Outcome: Render}
}
