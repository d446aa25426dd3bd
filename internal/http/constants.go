package httpx

// CurrentPage constants define the page identifiers used in templates and navigation.
const (
	// Public pages.
	PageHome         = "home"
	PageBuyMaterials = "buy-materials"
	PageSellWaste    = "sell-waste"
	PageAbout        = "about"

	// Authentication pages.
	PageLogin          = "login"
	PageSignup         = "signup"
	PageForgotPassword = "forgot-password"
	PageResetPassword  = "reset-password"

	// Role-gated pages.
	PageAdmin           = "admin"
	PageSellerDashboard = "seller-dashboard"
	PageSellerListing   = "seller-listing"
	PageLicense         = "license"
	PageBuyerDashboard  = "buyer-dashboard"

	PageNotFound = "not-found"
)

// contentTemplates maps each page to the template that renders its main content.
var contentTemplates = map[string]string{
	PageHome:            "home-content",
	PageBuyMaterials:    "buy-materials-content",
	PageSellWaste:       "sell-waste-content",
	PageAbout:           "about-content",
	PageLogin:           "login-content",
	PageSignup:          "signup-content",
	PageForgotPassword:  "forgot-password-content",
	PageResetPassword:   "reset-password-content",
	PageAdmin:           "admin-content",
	PageSellerDashboard: "seller-dashboard-content",
	PageSellerListing:   "seller-listing-content",
	PageLicense:         "license-content",
	PageBuyerDashboard:  "buyer-dashboard-content",
	PageNotFound:        "not-found-content",
}

// ContentTemplateFor returns the content template for page, or the not-found content when unknown.
func ContentTemplateFor(page string) string {
	if name, ok := contentTemplates[page]; ok {
		return name
	}
	return contentTemplates[PageNotFound]
}

// Asset directory locations relative to the project root and to this package's tests.
const (
	TemplatePathFromRoot = "frontend/templates"
	TemplatePathFromTest = "../../frontend/templates"
	StaticPathFromRoot   = "frontend/static"
)

// FormMode represents the mode of a form (create or edit).
type FormMode string

const (
	// FormModeCreate indicates the form creates a new listing.
	FormModeCreate FormMode = "create"
	// FormModeEdit indicates the form edits an existing listing.
	FormModeEdit FormMode = "edit"
)
