package bootstrap

import (
	"log/slog"

	"github.com/hackathon/inventory-web/config"
	"github.com/hackathon/inventory-web/internal/observability/statsd"
)

// BuildMetrics returns the StatsD sink, or nil when metrics are disabled or the client cannot start.
// The returned close func is always safe to call.
//
//nolint:ireturn // callers only depend on the Sink behaviour.
func BuildMetrics(cfg config.ObservabilityMetricsConfig, logger *slog.Logger) (statsd.Sink, func()) {
	noop := func() {}
	if !cfg.IsEnabled() {
		return nil, noop
	}

	client, err := statsd.NewClient(statsd.Config{
		Enabled: true,
		Address: cfg.StatsdAddress,
		Prefix:  cfg.Prefix,
		Logger:  logger,
	})
	if err != nil {
		logger.Error("failed to initialise statsd client", "error", err)
		return nil, noop
	}

	logger.Info("metrics enabled", "statsd_address", cfg.StatsdAddress, "prefix", cfg.Prefix)
	return client, func() {
		if err := client.Close(); err != nil {
			logger.Warn("close statsd client", "error", err)
		}
	}
}
