package httpx

// CurrentPage constants identify the page being rendered.
// They select the content template and drive navigation highlighting.
const (
	PageLogin     = "login"
	PageInventory = "inventory"
	PageAdmin     = "admin"
	PageNotFound  = "notfound"
)

// Cookie names shared by handlers and middleware.
const (
	SessionCookieName = "session_id"
)

// Template paths used for loading templates in tests and production.
const (
	TemplatePathFromRoot = "frontend/templates"       // From project root
	TemplatePathFromTest = "../../frontend/templates" // From internal/http test files
)

// contentTemplates maps CurrentPage to the template that renders the main area.
var contentTemplates = map[string]string{ //nolint:gochecknoglobals // static lookup table
	PageLogin:     "auth-content",
	PageInventory: "inventory-content",
	PageAdmin:     "admin-content",
	PageNotFound:  "notfound-content",
}

// ContentTemplateFor returns the content template name for a page, falling back to the 404 view.
func ContentTemplateFor(page string) string {
	if name, ok := contentTemplates[page]; ok {
		return name
	}
	return contentTemplates[PageNotFound]
}
