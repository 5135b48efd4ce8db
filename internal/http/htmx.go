package httpx

import (
	"net/http"
	"strings"
)

// IsHTMX reports whether the request was initiated by htmx (Hx-Request: true).
func IsHTMX(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Hx-Request"), "true")
}

// SetHXRedirect instructs htmx to redirect the browser to the given URL.
func SetHXRedirect(w http.ResponseWriter, url string) { w.Header().Set("Hx-Redirect", url) }

// redirect sends the browser to url. htmx requests get an HX-Redirect header with 204 so
// the client navigates instead of swapping the target page into the current one.
// Plain requests get a 303 so a POST is followed by a GET.
func redirect(w http.ResponseWriter, r *http.Request, url string) {
	if IsHTMX(r) {
		SetHXRedirect(w, url)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}
