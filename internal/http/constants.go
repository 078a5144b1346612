package httpx

// CurrentPage constants define the page identifiers used in templates and navigation.
const (
	PageHome         = "home"
	PageAccounts     = "accounts"
	PageTransactions = "transactions"
	PageProfile      = "profile"

	// Admin-only pages.
	PageAdminCustomers    = "admin-customers"
	PageAdminAccounts     = "admin-accounts"
	PageAdminTransactions = "admin-transactions"

	// Signed-out pages.
	PageLogin  = "login"
	PageSignup = "signup"

	PageNotFound = "not-found"
)

// Template paths used for loading templates in tests and production.
const (
	TemplatePathFromRoot = "frontend/templates"       // From project root
	TemplatePathFromTest = "../../frontend/templates" // From internal/http test files
)

// Content templates are defined once and reused to avoid per-call allocations.
//
//nolint:gochecknoglobals // static read-only lookup for templates; avoids per-call allocations
var contentTemplates = map[string]string{
	PageHome:              "home-content",
	PageAccounts:          "accounts-content",
	PageTransactions:      "transactions-content",
	PageProfile:           "profile-content",
	PageAdminCustomers:    "admin-customers-content",
	PageAdminAccounts:     "admin-accounts-content",
	PageAdminTransactions: "admin-transactions-content",
	PageLogin:             "login-content",
	PageSignup:            "signup-content",
	PageNotFound:          "not-found-content",
}

// ContentTemplateMap returns the mapping from CurrentPage to template name.
func ContentTemplateMap() map[string]string { return contentTemplates }

// ContentTemplateFor returns the content template for the given CurrentPage.
// Falls back to home-content for unknown pages.
func ContentTemplateFor(currentPage string) string {
	if name, ok := ContentTemplateMap()[currentPage]; ok {
		return name
	}
	return "home-content"
}
