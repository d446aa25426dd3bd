package httpx

import (
	"net/http"

	domainauth "github.com/ecoworth/marketplace-web/internal/domain/auth"
)

const errMsgFixBelow = "Please fix the errors below."

// PageMeta contains metadata for page rendering.
type PageMeta struct {
	Title       string
	PageTitle   string
	CurrentPage string
}

// NavLink is one entry of the header navigation.
type NavLink struct {
	Label  string
	Href   string
	Page   string
	Active bool
}

// LayoutUser is the signed-in user as shown in the header.
type LayoutUser struct {
	Name  string
	Email string
	Role  string
}

// notices are the one-shot banners selected with ?notice= after a full-page redirect.
var notices = map[string]string{
	"registered":        "Account created. Please log in.",
	"password-reset":    "Password updated. Please log in with your new password.",
	"logged-out":        "You have been logged out.",
	"listing-saved":     "Listing published.",
	"listing-updated":   "Listing updated.",
	"listing-deleted":   "Listing deleted.",
	"admin-updated":     "Changes saved.",
	"license-requested": "Licence request submitted. An admin will review it shortly.",
}

func publicNav() []NavLink {
	return []NavLink{
		{Label: "Home", Href: "/", Page: PageHome},
		{Label: "Buy Materials", Href: "/buy-materials", Page: PageBuyMaterials},
		{Label: "Sell Waste", Href: "/sell-waste", Page: PageSellWaste},
		{Label: "About", Href: "/about", Page: PageAbout},
	}
}

func roleNav(role domainauth.Role) []NavLink {
	switch domainauth.NormalizeRole(role) {
	case domainauth.RoleAdmin:
		return []NavLink{{Label: "Admin", Href: "/admin", Page: PageAdmin}}
	case domainauth.RoleSeller:
		return []NavLink{
			{Label: "Dashboard", Href: "/seller-dashboard", Page: PageSellerDashboard},
			{Label: "My Listings", Href: "/seller-listing", Page: PageSellerListing},
			{Label: "License", Href: "/license", Page: PageLicense},
		}
	case domainauth.RoleBuyer:
		return []NavLink{
			{Label: "Dashboard", Href: "/buyer-dashboard", Page: PageBuyerDashboard},
			{Label: "License", Href: "/license", Page: PageLicense},
		}
	default:
		return nil
	}
}

func markActive(links []NavLink, page string) []NavLink {
	for i := range links {
		links[i].Active = links[i].Page == page
	}
	return links
}

// basePageData constructs the common page data map with user context.
func basePageData(r *http.Request, meta PageMeta) map[string]any {
	data := map[string]any{
		"Title":           meta.Title,
		"PageTitle":       meta.PageTitle,
		"CurrentPage":     meta.CurrentPage,
		"IsAuthenticated": false,
		"Nav":             markActive(publicNav(), meta.CurrentPage),
		"Errors":          map[string]string{},
	}

	if token := GetCSRFToken(r); token != "" {
		data["CSRFToken"] = token
	}
	if msg, ok := notices[r.URL.Query().Get("notice")]; ok {
		data["Notice"] = msg
	}

	if sess := GetSessionFromContext(r.Context()); sess != nil {
		data["IsAuthenticated"] = true
		data["User"] = &LayoutUser{
			Name:  sess.DisplayName(),
			Email: sess.Email,
			Role:  string(domainauth.NormalizeRole(sess.Role)),
		}
		data["RoleNav"] = markActive(roleNav(sess.Role), meta.CurrentPage)
	}

	return data
}

// TemplateDataBuilder provides a fluent API for building template data maps.
type TemplateDataBuilder struct {
	data map[string]any
}

// NewTemplateData creates a new TemplateDataBuilder initialized with basePageData.
func NewTemplateData(r *http.Request, meta PageMeta) *TemplateDataBuilder {
	return &TemplateDataBuilder{data: basePageData(r, meta)}
}

// WithError sets a general error message.
func (b *TemplateDataBuilder) WithError(msg string) *TemplateDataBuilder {
	b.data["Error"] = true
	b.data["ErrorMessage"] = msg
	return b
}

// WithFieldErrors adds field-level validation errors.
func (b *TemplateDataBuilder) WithFieldErrors(errs map[string]string) *TemplateDataBuilder {
	if len(errs) > 0 {
		b.data["Errors"] = errs
	}
	return b
}

// With adds a custom field to the template data.
func (b *TemplateDataBuilder) With(key string, value any) *TemplateDataBuilder {
	b.data[key] = value
	return b
}

// Build returns the final template data map.
func (b *TemplateDataBuilder) Build() map[string]any {
	return b.data
}
