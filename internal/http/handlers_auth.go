package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	domainauth "github.com/hackathon/inventory-web/internal/domain/auth"
	"github.com/hackathon/inventory-web/internal/service"
	"github.com/hackathon/inventory-web/internal/validation"
)

// AuthServiceInterface defines the auth service operations the handlers use.
type AuthServiceInterface interface {
	SessionReader
	Register(ctx context.Context, in service.RegisterInput) domainauth.RegisterResult
	Login(ctx context.Context, creds domainauth.Credentials) domainauth.LoginResult
	Logout(ctx context.Context, sessionID string) error
	Profile(ctx context.Context, sess *domainauth.Session) (domainauth.Profile, error)
}

// AuthHandlers serves the login/register form and the session endpoints.
type AuthHandlers struct {
	Svc          AuthServiceInterface
	T            *TemplateRenderer
	CookieDomain string
	Logger       *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// LoginPage renders the form. GET /login[?mode=register].
// Switching modes always starts from an empty form.
func (h *AuthHandlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	form := NewLoginForm()
	if strings.EqualFold(r.URL.Query().Get("mode"), ModeRegister) {
		form = NewRegisterForm()
	}
	h.renderForm(w, r, form)
}

// Login handles POST /login.
// Every failure kind is worded the same so the form never reveals which part was wrong.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderForm(w, r, NewLoginForm().WithGeneral(MsgInvalidLogin))
		return
	}

	creds := domainauth.Credentials{
		Username: r.PostFormValue(validation.FieldUsername),
		Password: r.PostFormValue(validation.FieldPassword),
	}

	result := h.Svc.Login(r.Context(), creds)
	if !result.Success || result.Session == nil {
		form := NewLoginForm()
		form.Username = creds.Username
		h.renderForm(w, r, form.WithGeneral(MsgInvalidLogin))
		return
	}

	// Drop whatever session the browser held before so an old ID cannot be reused.
	if old, err := r.Cookie(SessionCookieName); err == nil && old.Value != "" && old.Value != result.Session.ID {
		if err := h.Svc.Logout(r.Context(), old.Value); err != nil {
			h.logger().WarnContext(r.Context(), "discard previous session failed", "error", err)
		}
	}

	setSessionCookie(w, r, h.CookieDomain, result.Session)
	redirect(w, r, result.LandingPath())
}

// Register handles POST /register.
// Local validation failures never reach the auth API. Success switches back to the login form.
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderForm(w, r, NewRegisterForm().WithGeneral(MsgRegistrationFailed))
		return
	}

	in := service.RegisterInput{
		Username:        r.PostFormValue(validation.FieldUsername),
		Email:           r.PostFormValue(validation.FieldEmail),
		Password:        r.PostFormValue(validation.FieldPassword),
		ConfirmPassword: r.PostFormValue(validation.FieldConfirmPassword),
	}

	result := h.Svc.Register(r.Context(), in)
	if result.Success {
		form := NewLoginForm()
		form.Success = MsgRegistered
		h.renderForm(w, r, form)
		return
	}

	form := NewRegisterForm()
	form.Username = in.Username
	form.Email = in.Email

	switch result.Failure {
	case domainauth.FailureValidation:
		form.Errors = result.FieldErrors
	case domainauth.FailureUnavailable:
		form = form.WithGeneral(MsgUnavailable)
	default:
		msg := result.Message
		if msg == "" {
			msg = MsgRegistrationFailed
		}
		form = form.WithGeneral(msg)
	}
	h.renderForm(w, r, form)
}

// Logout handles POST /logout. The cookie is cleared even when the store delete fails.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(SessionCookieName); err == nil {
		if err := h.Svc.Logout(r.Context(), c.Value); err != nil {
			h.logger().WarnContext(r.Context(), "logout failed", "error", err)
		}
	}
	clearCookie(w, r, h.CookieDomain, SessionCookieName)

	if !IsBrowserRequest(r) {
		WriteJSON(w, http.StatusOK, map[string]string{
			"status":      "success",
			"redirect_to": domainauth.LoginPath,
		})
		return
	}
	redirect(w, r, domainauth.LoginPath)
}

// Status returns the current authentication status. GET /auth/status.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(SessionCookieName)
	if err != nil || c.Value == "" {
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	session, err := h.Svc.GetSession(r.Context(), c.Value)
	if err != nil || !session.HasToken() {
		clearCookie(w, r, h.CookieDomain, SessionCookieName)
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user": map[string]any{
			"username": session.User,
			"email":    session.Email,
			"is_admin": session.Admin(),
			"role":     session.Role(),
		},
		"expires_at": session.ExpiresAt,
	})
}

func (h *AuthHandlers) renderForm(w http.ResponseWriter, r *http.Request, form AuthForm) {
	data := NewTemplateData(r, PageMeta{Title: form.Heading(), CurrentPage: PageLogin}).
		WithForm(form).
		Build()
	if err := h.T.RenderFull(w, r, data); err != nil {
		h.logger().ErrorContext(r.Context(), "render auth form failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
