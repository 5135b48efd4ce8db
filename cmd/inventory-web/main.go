package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/hackathon/inventory-web/config"
	"github.com/hackathon/inventory-web/internal/bootstrap"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger("info")
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}
	logger = bootstrap.InitLogger(cfg.LogLevel)

	logStartupInfo(ctx, logger, &cfg)

	app, err := bootstrap.NewApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	return app.Run(ctx)
}

func logStartupInfo(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) {
	logger.InfoContext(ctx, "starting inventory web",
		"addr", cfg.HTTP.Addr,
		"dev", cfg.IsDev,
		"session_store", string(cfg.Session.Store),
		"auth_api", cfg.AuthAPI.BaseURL,
		"dev_auth", cfg.AuthAPI.Dev.Enabled,
		"metrics", cfg.Observability.Metrics.IsEnabled(),
	)
}
