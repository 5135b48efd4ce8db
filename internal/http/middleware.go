package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	domainauth "github.com/hackathon/inventory-web/internal/domain/auth"
	"github.com/hackathon/inventory-web/internal/observability/metrics"
	"github.com/hackathon/inventory-web/internal/observability/statsd"
)

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := newRespWriter(w)
			next.ServeHTTP(ww, r)
			logger.InfoContext(r.Context(), "http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

// Metrics returns a middleware that emits one request counter and timing per response.
// The route tag is the ServeMux pattern that matched, so path parameters do not explode cardinality.
func Metrics(sink statsd.Sink, routes *http.ServeMux) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if sink == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			route := routeLabel(routes, r)
			ww := newRespWriter(w)
			next.ServeHTTP(ww, r)
			metrics.EmitHTTPRequest(sink, metrics.HTTPMetric{
				Method:   r.Method,
				Route:    route,
				Status:   ww.status,
				Duration: time.Since(start),
			})
		})
	}
}

func routeLabel(mux *http.ServeMux, r *http.Request) string {
	if mux == nil {
		return "unmatched"
	}
	_, pattern := mux.Handler(r)
	if _, path, ok := strings.Cut(pattern, " "); ok {
		pattern = path
	}
	if pattern == "" || pattern == "/" {
		return "unmatched"
	}
	return pattern
}

type respWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func newRespWriter(w http.ResponseWriter) *respWriter {
	return &respWriter{ResponseWriter: w, status: http.StatusOK}
}

func (w *respWriter) WriteHeader(status int) {
	if !w.wroteHeader {
		w.status = status
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *respWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.ErrorContext(r.Context(), "panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// SessionReader is the part of the auth service the access middleware needs.
type SessionReader interface {
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
}

// RequireSession admits requests carrying a live session with an access token.
// Browsers without one are sent to the login page; API callers get 401.
func RequireSession(svc SessionReader) func(http.Handler) http.Handler {
	return requireAccess(svc, domainauth.RequireSession)
}

// RequireAdmin admits sessions whose admin flag is set.
// Non-admin browsers are silently sent to the inventory; API callers get 403.
func RequireAdmin(svc SessionReader) func(http.Handler) http.Handler {
	return requireAccess(svc, domainauth.RequireAdmin)
}

func requireAccess(svc SessionReader, req domainauth.Requirement) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := getSessionFromRequest(r, svc)
			decision := domainauth.Decide(session, req)
			if !decision.Allow {
				deny(w, r, decision)
				return
			}

			ctx := SetSessionInContext(r.Context(), session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// deny turns a gate decision into a response suited to the caller.
func deny(w http.ResponseWriter, r *http.Request, d domainauth.Decision) {
	if IsBrowserRequest(r) {
		redirect(w, r, d.RedirectTo)
		return
	}
	if d.RedirectTo == domainauth.LoginPath {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}
	WriteError(w, ErrorParams{
		Code:    http.StatusForbidden,
		ErrCode: "insufficient_permissions",
		Err:     errors.New("insufficient permissions"),
	})
}

// OptionalAuth attaches the session to the request context when there is one.
// Requests without a session continue unchanged.
func OptionalAuth(svc SessionReader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if session := getSessionFromRequest(r, svc); session != nil {
				r = r.WithContext(SetSessionInContext(r.Context(), session))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// getSessionFromRequest retrieves and validates a session from the request.
func getSessionFromRequest(r *http.Request, svc SessionReader) *domainauth.Session {
	if svc == nil {
		return nil
	}
	sessionCookie, err := r.Cookie(SessionCookieName)
	if err != nil || sessionCookie.Value == "" {
		return nil
	}

	session, err := svc.GetSession(r.Context(), sessionCookie.Value)
	if err != nil {
		return nil
	}

	return session
}

// browserRequestKey is an unexported context key type for browser request detection.
type browserRequestKey struct{}

// BrowserDetection returns a middleware that records whether the caller is a browser.
// Downstream handlers use it to choose between HTML redirects and JSON errors.
func BrowserDetection() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), browserRequestKey{}, isBrowserRequest(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IsBrowserRequest returns true if the current request is from a browser.
func IsBrowserRequest(r *http.Request) bool {
	if isBrowser, ok := r.Context().Value(browserRequestKey{}).(bool); ok {
		return isBrowser
	}
	return isBrowserRequest(r)
}

// isBrowserRequest classifies a request by path prefix, htmx header and Accept header.
// A missing Accept header counts as a browser.
func isBrowserRequest(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") || strings.HasPrefix(r.URL.Path, "/static/") {
		return false
	}
	if IsHTMX(r) {
		return true
	}

	accept := r.Header.Get("Accept")
	if accept == "" {
		return true
	}
	return strings.Contains(accept, "text/html")
}
