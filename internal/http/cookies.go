package httpx

import (
	"net/http"
	"strings"
	"time"

	domainauth "github.com/hackathon/inventory-web/internal/domain/auth"
)

// isSecureRequest reports whether the browser reached us over TLS, directly or through a proxy.
// X-Forwarded-Proto may carry a comma-separated chain.
func isSecureRequest(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	for _, proto := range strings.Split(r.Header.Get("X-Forwarded-Proto"), ",") {
		if strings.EqualFold(strings.TrimSpace(proto), "https") {
			return true
		}
	}
	return false
}

// setSessionCookie writes the session cookie so that it expires with the session.
func setSessionCookie(w http.ResponseWriter, r *http.Request, domain string, s *domainauth.Session) {
	maxAge := 0
	if !s.ExpiresAt.IsZero() {
		maxAge = int(time.Until(s.ExpiresAt).Seconds())
		if maxAge <= 0 {
			maxAge = -1
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    s.ID,
		Path:     "/",
		Domain:   domain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}

// clearCookie expires a cookie, mirroring the attributes used to set it.
func clearCookie(w http.ResponseWriter, r *http.Request, domain, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   domain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}
