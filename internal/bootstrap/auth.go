package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/hackathon/inventory-web/config"
	"github.com/hackathon/inventory-web/internal/adapters/authapi"
	"github.com/hackathon/inventory-web/internal/adapters/devauth"
	"github.com/hackathon/inventory-web/internal/adapters/memstore"
	redisadapter "github.com/hackathon/inventory-web/internal/adapters/redis"
	"github.com/hackathon/inventory-web/internal/observability/statsd"
	"github.com/hackathon/inventory-web/internal/ports"
	"github.com/hackathon/inventory-web/internal/service"
)

// AuthConfig contains configuration for the auth service.
type AuthConfig struct {
	API         config.AuthAPIConfig
	Session     config.SessionConfig
	RedisClient redis.UniversalClient // required when Session.Store is redis
	Metrics     statsd.Sink           // optional
	Logger      *slog.Logger
}

// AuthComponents is the wired auth service plus the in-memory store when one is used,
// so the caller can run its sweeper.
type AuthComponents struct {
	Service  *service.AuthService
	MemStore *memstore.SessionStore
}

// BuildAuthService creates the auth service from the configured auth API and session store.
func BuildAuthService(cfg AuthConfig) (AuthComponents, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	api, err := buildAuthAPI(cfg.API, logger)
	if err != nil {
		return AuthComponents{}, err
	}

	var (
		sessions ports.SessionStore
		mem      *memstore.SessionStore
	)
	switch cfg.Session.Store {
	case config.SessionStoreRedis:
		if cfg.RedisClient == nil {
			return AuthComponents{}, errors.New("session store is redis but no redis client is configured")
		}
		sessions = redisadapter.NewSessionStoreWithPrefix(cfg.RedisClient, cfg.Session.KeyPrefix).
			WithDefaultTTL(cfg.Session.TTL)
	default:
		mem = memstore.New()
		sessions = mem
	}
	logger.Info("session store configured", "store", string(cfg.Session.Store), "ttl", cfg.Session.TTL)

	svc := service.NewAuthService(service.AuthServiceOptions{
		API:      api,
		Sessions: sessions,
		Config: service.AuthServiceConfig{
			SessionTTL: cfg.Session.TTL,
			Logger:     logger,
			Metrics:    cfg.Metrics,
		},
	})
	return AuthComponents{Service: svc, MemStore: mem}, nil
}

//nolint:ireturn // the auth API is either the remote client or the in-process dev provider.
func buildAuthAPI(cfg config.AuthAPIConfig, logger *slog.Logger) (ports.AuthAPI, error) {
	if cfg.Dev.Enabled {
		logger.Warn("dev auth enabled: accounts live in process memory", "username", cfg.Dev.Username, "admin", cfg.Dev.Admin)
		prov, err := devauth.NewProvider(devauth.Config{
			Username: cfg.Dev.Username,
			Password: cfg.Dev.Password,
			Email:    cfg.Dev.Email,
			Admin:    cfg.Dev.Admin,
		})
		if err != nil {
			return nil, fmt.Errorf("create dev auth provider: %w", err)
		}
		return prov, nil
	}

	client, err := authapi.New(authapi.Config{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create auth api client: %w", err)
	}
	logger.Info("auth api configured", "base_url", client.BaseURL(), "timeout", cfg.Timeout)
	return client, nil
}
