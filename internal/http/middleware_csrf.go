package httpx

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultCSRFCookieName is the cookie carrying the double-submit token.
	DefaultCSRFCookieName = "csrf_token"
	// DefaultCSRFHeaderName is the header htmx and fetch callers send the token in (canonical form).
	DefaultCSRFHeaderName = "X-Csrf-Token"
	// DefaultCSRFFieldName is the hidden form field rendered into every POST form.
	DefaultCSRFFieldName = "csrf_token"
	// DefaultCSRFTokenLength is the token length in random bytes.
	DefaultCSRFTokenLength = 32
	// DefaultCSRFMaxAge bounds the token cookie lifetime.
	DefaultCSRFMaxAge = 12 * time.Hour
)

// CSRFConfig holds configuration for CSRF protection middleware.
// Zero values fall back to the Default* constants.
type CSRFConfig struct {
	CookieName   string
	HeaderName   string
	FieldName    string
	CookieDomain string
	TokenLength  int
	MaxAge       time.Duration
	Logger       *slog.Logger
}

func (c *CSRFConfig) applyDefaults() {
	if c.CookieName == "" {
		c.CookieName = DefaultCSRFCookieName
	}
	if c.HeaderName == "" {
		c.HeaderName = DefaultCSRFHeaderName
	}
	if c.FieldName == "" {
		c.FieldName = DefaultCSRFFieldName
	}
	if c.TokenLength <= 0 {
		c.TokenLength = DefaultCSRFTokenLength
	}
	if c.MaxAge <= 0 {
		c.MaxAge = DefaultCSRFMaxAge
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// CSRFProtection implements the double-submit cookie pattern.
// A random token is kept in a cookie readable by scripts; every unsafe request must echo it
// in the X-Csrf-Token header or the csrf_token form field. Safe methods only receive the token.
func CSRFProtection(cfg CSRFConfig) func(http.Handler) http.Handler {
	cfg.applyDefaults()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ""
			if c, err := r.Cookie(cfg.CookieName); err == nil {
				token = c.Value
			}

			if token == "" {
				fresh, err := generateCSRFToken(cfg.TokenLength)
				if err != nil {
					cfg.Logger.ErrorContext(r.Context(), "csrf token generation failed", "error", err)
					http.Error(w, "unable to generate CSRF token", http.StatusInternalServerError)
					return
				}
				http.SetCookie(w, &http.Cookie{
					Name:     cfg.CookieName,
					Value:    fresh,
					Path:     "/",
					Domain:   cfg.CookieDomain,
					HttpOnly: false,
					Secure:   isSecureRequest(r),
					SameSite: http.SameSiteStrictMode,
					MaxAge:   int(cfg.MaxAge.Seconds()),
				})
				// A request that arrives without the cookie can never pass validation.
				if isUnsafeMethod(r.Method) {
					cfg.Logger.WarnContext(r.Context(), "csrf cookie missing", "path", r.URL.Path)
					http.Error(w, "CSRF token validation failed", http.StatusForbidden)
					return
				}
				token = fresh
			}

			r = r.WithContext(context.WithValue(r.Context(), csrfTokenKey{}, token))

			if isUnsafeMethod(r.Method) && !submittedTokenMatches(r, token, cfg) {
				cfg.Logger.WarnContext(r.Context(), "csrf token mismatch", "path", r.URL.Path)
				http.Error(w, "CSRF token validation failed", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// isUnsafeMethod reports whether a method changes state and must carry the token.
func isUnsafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return false
	default:
		return true
	}
}

// generateCSRFToken fails closed when the random source fails.
func generateCSRFToken(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("csrf token generation failed: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// submittedTokenMatches compares the header or form token with the cookie in constant time.
// The form is parsed only for form-encoded bodies.
func submittedTokenMatches(r *http.Request, cookieToken string, cfg CSRFConfig) bool {
	submitted := r.Header.Get(cfg.HeaderName)
	if submitted == "" {
		ct := r.Header.Get("Content-Type")
		if strings.HasPrefix(ct, "application/x-www-form-urlencoded") || strings.HasPrefix(ct, "multipart/form-data") {
			if err := r.ParseForm(); err != nil {
				return false
			}
			submitted = r.PostFormValue(cfg.FieldName)
		}
	}
	if submitted == "" || cookieToken == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(submitted), []byte(cookieToken)) == 1
}

// csrfTokenKey is an unexported context key type for CSRF token storage.
type csrfTokenKey struct{}

// GetCSRFToken returns the token attached by CSRFProtection, for rendering into forms.
func GetCSRFToken(r *http.Request) string {
	if token, ok := r.Context().Value(csrfTokenKey{}).(string); ok {
		return token
	}
	return ""
}
