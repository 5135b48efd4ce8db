package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hackathon/inventory-web/config"
	"github.com/hackathon/inventory-web/internal/adapters/memstore"
	httpx "github.com/hackathon/inventory-web/internal/http"
)

// sweepInterval is how often expired sessions are purged from the in-memory store.
const sweepInterval = time.Minute

// App is the fully wired web front end.
type App struct {
	Server *http.Server

	memStore *memstore.SessionStore
	closers  []func()
	logger   *slog.Logger
}

// NewApp connects every dependency named in cfg and builds the HTTP server.
func NewApp(ctx context.Context, cfg config.AppConfig, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	app := &App{logger: logger}

	sink, closeMetrics := BuildMetrics(cfg.Observability.Metrics, logger)
	app.closers = append(app.closers, closeMetrics)

	checks := map[string]httpx.HealthCheck{}
	authCfg := AuthConfig{
		API:     cfg.AuthAPI,
		Session: cfg.Session,
		Metrics: sink,
		Logger:  logger,
	}

	if cfg.UsesRedis() {
		client, err := ConnectRedis(ctx, RedisConnConfig{Redis: cfg.Redis, Logger: logger})
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		app.closers = append(app.closers, func() {
			if err := client.Close(); err != nil {
				logger.Warn("close redis client", "error", err)
			}
		})
		authCfg.RedisClient = client
		checks["redis"] = redisHealthCheck(client)
	}

	auth, err := BuildAuthService(authCfg)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("build auth service: %w", err)
	}
	app.memStore = auth.MemStore

	server, err := NewHTTPServer(HTTPServerConfig{
		Config:       &cfg,
		Auth:         auth.Service,
		Metrics:      sink,
		HealthChecks: checks,
		Logger:       logger,
	})
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Server = server
	return app, nil
}

// Run listens on the configured address and serves until ctx is done or SIGINT/SIGTERM arrives.
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		a.Close()
		return fmt.Errorf("listen on %s: %w", a.Server.Addr, err)
	}
	return a.Serve(ctx, ln)
}

// Serve runs the HTTP server on ln alongside the session sweeper and shuts both down together.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	defer a.Close()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("starting HTTP server", "addr", ln.Addr().String())
		if err := a.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if a.memStore != nil {
		g.Go(func() error {
			return a.memStore.RunSweeper(gctx, sweepInterval)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		return ShutdownHTTPServer(context.WithoutCancel(gctx), a.Server, a.logger)
	})

	return g.Wait()
}

// Close releases connections opened by NewApp. It is safe to call more than once.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
