package httpx

import (
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	inventoryweb "github.com/hackathon/inventory-web"
	"github.com/hackathon/inventory-web/internal/observability/statsd"
)

// RouterServices holds everything the HTTP router needs.
type RouterServices struct {
	Auth         AuthServiceInterface
	CookieDomain string
	// IsDev serves templates and static files from disk so edits show without a rebuild.
	IsDev bool
	// TemplateFS overrides where templates are read from (optional).
	TemplateFS fs.FS
	// Compression enables gzip when non-nil.
	Compression *CompressionConfig
	// HealthChecks are probed by /healthz (optional).
	HealthChecks map[string]HealthCheck
	Metrics      statsd.Sink  // optional
	Logger       *slog.Logger // optional
}

// NewRouter creates the HTTP handler with all routes and the middleware chain.
func NewRouter(services RouterServices) (http.Handler, error) {
	if services.Auth == nil {
		return nil, fmt.Errorf("router: auth service is required")
	}
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: templateFS(services),
		DevMode:    services.IsDev,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("router: %w", err)
	}

	mux := http.NewServeMux()
	authHandlers := &AuthHandlers{Svc: services.Auth, T: tr, CookieDomain: services.CookieDomain, Logger: logger}
	pageHandlers := &PageHandlers{T: tr, Profiles: services.Auth, Logger: logger}
	cfg := routeConfig{
		auth: services.Auth,
		csrf: CSRFProtection(CSRFConfig{CookieDomain: services.CookieDomain, Logger: logger}),
	}

	health := healthHandler{checks: services.HealthChecks}
	mux.Handle("GET /healthz", health)
	mux.Handle("GET /static/", staticWithFallback(services.IsDev))

	registerAuthRoutes(mux, authHandlers, cfg)
	registerPageRoutes(mux, pageHandlers, cfg)

	var handler http.Handler = mux
	handler = BrowserDetection()(handler)
	if services.Compression != nil {
		cc := *services.Compression
		if cc.Logger == nil {
			cc.Logger = logger
		}
		handler = Compression(cc)(handler)
	}
	handler = Metrics(services.Metrics, mux)(handler)
	handler = Logging(logger)(handler)
	handler = Recover(logger)(handler)
	return handler, nil
}

type routeConfig struct {
	auth AuthServiceInterface
	csrf func(http.Handler) http.Handler
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers, cfg routeConfig) {
	mux.Handle("GET /login", cfg.csrf(OptionalAuth(cfg.auth)(http.HandlerFunc(h.LoginPage))))
	mux.Handle("POST /login", cfg.csrf(http.HandlerFunc(h.Login)))
	mux.Handle("POST /register", cfg.csrf(http.HandlerFunc(h.Register)))
	mux.Handle("POST /logout", cfg.csrf(http.HandlerFunc(h.Logout)))
	mux.Handle("GET /auth/status", http.HandlerFunc(h.Status))
}

func registerPageRoutes(mux *http.ServeMux, h *PageHandlers, cfg routeConfig) {
	mux.Handle("GET /inventory", RequireSession(cfg.auth)(cfg.csrf(http.HandlerFunc(h.Inventory))))
	mux.Handle("GET /admin", RequireAdmin(cfg.auth)(cfg.csrf(http.HandlerFunc(h.Admin))))
	mux.Handle("GET /{$}", http.HandlerFunc(h.Root))
	// Everything else renders the 404 page. Only GET gets a CSRF token for the nav's logout form;
	// other methods skip validation so an unknown POST still answers 404.
	notFound := OptionalAuth(cfg.auth)(http.HandlerFunc(h.NotFound))
	mux.Handle("GET /", cfg.csrf(notFound))
	mux.Handle("/", notFound)
}

// templateFS picks the template source: explicit override, disk in dev mode, or the embedded copy.
func templateFS(services RouterServices) fs.FS {
	if services.TemplateFS != nil {
		return services.TemplateFS
	}
	if services.IsDev {
		return os.DirFS(TemplatePathFromRoot)
	}
	sub, err := fs.Sub(inventoryweb.TemplateFS, TemplatePathFromRoot)
	if err != nil {
		return os.DirFS(TemplatePathFromRoot)
	}
	return sub
}

// staticWithFallback serves /static/* from disk in dev mode and from the embedded FS otherwise.
func staticWithFallback(isDev bool) http.Handler {
	if isDev {
		return staticWithCacheHeaders(
			http.StripPrefix("/static/", http.FileServer(http.Dir("frontend/static"))),
			false,
		)
	}

	staticSub, err := fs.Sub(inventoryweb.StaticFS, "frontend/static")
	if err != nil {
		return staticWithCacheHeaders(
			http.StripPrefix("/static/", http.FileServer(http.Dir("frontend/static"))),
			false,
		)
	}
	return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))), true)
}

// staticWithCacheHeaders lets browsers cache embedded assets for an hour; disk assets are never cached.
func staticWithCacheHeaders(handler http.Handler, cacheable bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cacheable {
			w.Header().Set("Cache-Control", "public, max-age=3600")
		} else {
			w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
			w.Header().Set("Pragma", "no-cache")
			w.Header().Set("Expires", "0")
		}
		handler.ServeHTTP(w, r)
	})
}
