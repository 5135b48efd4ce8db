package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	domainauth "github.com/hackathon/inventory-web/internal/domain/auth"
)

// profileTimeout bounds the optional account lookup on the inventory page.
const profileTimeout = 3 * time.Second

// ProfileFetcher resolves the account behind a session's access token.
type ProfileFetcher interface {
	Profile(ctx context.Context, sess *domainauth.Session) (domainauth.Profile, error)
}

// PageHandlers renders the signed-in views.
// The route gate has already run, so the session is always in the request context.
type PageHandlers struct {
	T        *TemplateRenderer
	Profiles ProfileFetcher
	Logger   *slog.Logger
}

func (h *PageHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Inventory renders GET /inventory.
// The account e-mail comes from the auth API when it answers; otherwise the session copy is shown.
func (h *PageHandlers) Inventory(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	email := ""
	if session != nil {
		email = session.Email
	}

	if h.Profiles != nil && session != nil {
		ctx, cancel := context.WithTimeout(r.Context(), profileTimeout)
		profile, err := h.Profiles.Profile(ctx, session)
		cancel()
		if err != nil {
			h.logger().WarnContext(r.Context(), "profile lookup failed", "user", session.User, "error", err)
		} else if profile.Email != "" {
			email = profile.Email
		}
	}

	data := NewTemplateData(r, PageMeta{Title: "Inventory", CurrentPage: PageInventory}).
		With("AccountEmail", email).
		Build()
	h.render(w, r, http.StatusOK, data)
}

// Admin renders GET /admin.
func (h *PageHandlers) Admin(w http.ResponseWriter, r *http.Request) {
	data := NewTemplateData(r, PageMeta{Title: "Admin Portal", CurrentPage: PageAdmin}).Build()
	h.render(w, r, http.StatusOK, data)
}

// Root sends GET / to the login page.
func (h *PageHandlers) Root(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, domainauth.LoginPath, http.StatusFound)
}

// NotFound renders the 404 page, or a JSON error for API callers.
func (h *PageHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	if !IsBrowserRequest(r) || h.T == nil {
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found"})
		return
	}
	data := NewTemplateData(r, PageMeta{Title: "Page Not Found", CurrentPage: PageNotFound}).
		With("Path", r.URL.Path).
		Build()
	h.render(w, r, http.StatusNotFound, data)
}

func (h *PageHandlers) render(w http.ResponseWriter, r *http.Request, status int, data map[string]any) {
	if err := h.T.RenderStatus(w, status, data); err != nil {
		h.logger().ErrorContext(r.Context(), "render page failed", "page", data["CurrentPage"], "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
