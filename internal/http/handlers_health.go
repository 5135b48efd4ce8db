package httpx

import (
	"context"
	"net/http"
	"sort"
	"time"
)

// healthCheckTimeout bounds all dependency checks of one probe.
const healthCheckTimeout = 2 * time.Second

// HealthCheck probes one dependency; a nil error means healthy.
type HealthCheck func(ctx context.Context) error

// healthHandler answers liveness/readiness probes.
// With no checks it always reports ok; otherwise any failing check turns the answer into 503.
type healthHandler struct {
	checks map[string]HealthCheck
}

func (h healthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	body := map[string]any{"status": "ok"}

	if len(h.checks) > 0 {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		names := make([]string, 0, len(h.checks))
		for name := range h.checks {
			names = append(names, name)
		}
		sort.Strings(names)

		results := make(map[string]string, len(names))
		for _, name := range names {
			if err := h.checks[name](ctx); err != nil {
				results[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			results[name] = "ok"
		}
		body["checks"] = results
		if status != http.StatusOK {
			body["status"] = "unavailable"
		}
	}

	if r.Method == http.MethodHead {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		return
	}
	WriteJSON(w, status, body)
}
