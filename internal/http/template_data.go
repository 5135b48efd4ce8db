package httpx

import (
	"net/http"

	"github.com/hackathon/inventory-web/internal/validation"
)

// PageMeta contains metadata for page rendering.
type PageMeta struct {
	Title       string
	CurrentPage string
}

// LayoutUser is the signed-in account shown in the navigation bar.
type LayoutUser struct {
	Username string
	Email    string
	IsAdmin  bool
}

// basePageData constructs the common page data map shared by every view.
func basePageData(r *http.Request, meta PageMeta) map[string]any {
	data := map[string]any{
		"Title":           meta.Title,
		"CurrentPage":     meta.CurrentPage,
		"IsAuthenticated": false,
		"CSRFFieldName":   DefaultCSRFFieldName,
	}

	if token := GetCSRFToken(r); token != "" {
		data["CSRFToken"] = token
	}

	if session := GetSessionFromContext(r.Context()); session != nil && session.HasToken() {
		data["IsAuthenticated"] = true
		data["User"] = &LayoutUser{
			Username: session.User,
			Email:    session.Email,
			IsAdmin:  session.Admin(),
		}
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

// WithError sets a page-level error message.
func (b *TemplateDataBuilder) WithError(msg string) *TemplateDataBuilder {
	b.data["Error"] = true
	b.data["ErrorMessage"] = msg
	return b
}

// WithForm attaches the login/register form state.
func (b *TemplateDataBuilder) WithForm(f AuthForm) *TemplateDataBuilder {
	b.data["Form"] = f
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

// Form modes.
const (
	ModeLogin    = "login"
	ModeRegister = "register"
)

// Messages shown at form level.
const (
	MsgInvalidLogin       = "Invalid username or password"
	MsgRegistrationFailed = "Registration failed. Please try again."
	MsgUnavailable        = "Unable to connect to server. Please try again later."
	MsgRegistered         = "Registration successful! Please login to continue."
	MsgPasswordHint       = "Min 8 characters, with uppercase, lowercase, number, and special character"
)

// AuthForm is the state of the combined login/register form.
// Passwords are never echoed back into the page.
type AuthForm struct {
	Mode     string
	Username string
	Email    string
	Errors   map[string]string
	Success  string
}

// NewLoginForm returns an empty form in login mode.
func NewLoginForm() AuthForm { return AuthForm{Mode: ModeLogin} }

// NewRegisterForm returns an empty form in register mode.
func NewRegisterForm() AuthForm { return AuthForm{Mode: ModeRegister} }

// IsRegister reports whether the form is in register mode.
func (f AuthForm) IsRegister() bool { return f.Mode == ModeRegister }

// Error returns the message for a field, or "".
func (f AuthForm) Error(field string) string { return f.Errors[field] }

// General returns the form-level error.
func (f AuthForm) General() string { return f.Errors[validation.FieldGeneral] }

// WithGeneral returns a copy of f carrying a form-level error.
func (f AuthForm) WithGeneral(msg string) AuthForm {
	errs := make(map[string]string, len(f.Errors)+1)
	for k, v := range f.Errors {
		errs[k] = v
	}
	errs[validation.FieldGeneral] = msg
	f.Errors = errs
	return f
}

// Heading is the card title.
func (f AuthForm) Heading() string {
	if f.IsRegister() {
		return "Register"
	}
	return "Login"
}

// Action is the URL the form posts to.
func (f AuthForm) Action() string {
	if f.IsRegister() {
		return "/register"
	}
	return "/login"
}

// SubmitLabel is the idle button text.
func (f AuthForm) SubmitLabel() string {
	if f.IsRegister() {
		return "Register"
	}
	return "Login"
}

// BusyLabel is the button text while a submission is in flight.
func (f AuthForm) BusyLabel() string {
	if f.IsRegister() {
		return "Registering..."
	}
	return "Logging in..."
}

// SwitchURL links to the other mode with a clean form.
func (f AuthForm) SwitchURL() string {
	if f.IsRegister() {
		return "/login"
	}
	return "/login?mode=register"
}

// SwitchPrompt is the text in front of the mode toggle link.
func (f AuthForm) SwitchPrompt() string {
	if f.IsRegister() {
		return "Already have an account?"
	}
	return "Don't have an account?"
}

// SwitchLabel is the text of the mode toggle link.
func (f AuthForm) SwitchLabel() string {
	if f.IsRegister() {
		return "Login here"
	}
	return "Register here"
}

// PasswordHint is shown under the password field in register mode.
func (f AuthForm) PasswordHint() string { return MsgPasswordHint }
