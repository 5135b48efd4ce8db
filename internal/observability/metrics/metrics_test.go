package metrics

import (
	"errors"
	"testing"
	"time"

	apperrors "github.com/hackathon/inventory-web/internal/errors"
	"github.com/hackathon/inventory-web/internal/observability/statsd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitAuthOutcome(t *testing.T) {
	t.Run("success with duration", func(t *testing.T) {
		rec := statsd.NewRecorder()
		EmitAuthOutcome(rec, AuthMetric{Action: ActionLogin, Result: ResultSuccess, Duration: 20 * time.Millisecond})

		counts := rec.Find("auth.outcome")
		require.Len(t, counts, 1)
		assert.Equal(t, map[string]string{"action": "login", "result": "success"}, counts[0].Tags)
		require.Len(t, rec.Find("auth.duration"), 1)
	})

	t.Run("failure kind tag", func(t *testing.T) {
		rec := statsd.NewRecorder()
		EmitAuthOutcome(rec, AuthMetric{Action: ActionRegister, Result: ResultFailure, Failure: "validation"})

		counts := rec.Find("auth.outcome")
		require.Len(t, counts, 1)
		assert.Equal(t, "validation", counts[0].Tags["failure"])
		assert.Empty(t, rec.Find("auth.duration"))
	})

	t.Run("error class only for errors", func(t *testing.T) {
		rec := statsd.NewRecorder()
		err := apperrors.Unavailable(errors.New("dial"), "down")
		EmitAuthOutcome(rec, AuthMetric{Action: ActionLogin, Result: ResultError, Err: err})
		EmitAuthOutcome(rec, AuthMetric{Action: ActionLogin, Result: ResultFailure, Err: err})

		counts := rec.Find("auth.outcome")
		require.Len(t, counts, 2)
		assert.Equal(t, "unavailable", counts[0].Tags["error_class"])
		assert.NotContains(t, counts[1].Tags, "error_class")
	})

	t.Run("nil sink", func(_ *testing.T) {
		EmitAuthOutcome(nil, AuthMetric{Action: ActionLogout})
	})
}

func TestEmitHTTPRequest(t *testing.T) {
	rec := statsd.NewRecorder()
	EmitHTTPRequest(rec, HTTPMetric{Method: "POST", Route: "/login", Status: 303, Duration: time.Millisecond})

	counts := rec.Find("http.request")
	require.Len(t, counts, 1)
	assert.Equal(t, map[string]string{"method": "POST", "route": "/login", "status": "3xx"}, counts[0].Tags)
	assert.Len(t, rec.Find("http.duration"), 1)

	EmitHTTPRequest(nil, HTTPMetric{})
}

func TestStatusClass(t *testing.T) {
	assert.Equal(t, "2xx", statusClass(200))
	assert.Equal(t, "4xx", statusClass(404))
	assert.Equal(t, "unknown", statusClass(0))
	assert.Equal(t, "unknown", statusClass(700))
}

func TestCloneTags(t *testing.T) {
	assert.Nil(t, CloneTags(nil))
	src := map[string]string{"a": "b"}
	cp := CloneTags(src)
	cp["a"] = "c"
	assert.Equal(t, "b", src["a"])
}
