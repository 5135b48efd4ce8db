package metrics

import (
	"time"

	obserrors "github.com/hackathon/inventory-web/internal/observability/errors"
	"github.com/hackathon/inventory-web/internal/observability/statsd"
)

// Auth actions.
const (
	ActionLogin    = "login"
	ActionRegister = "register"
	ActionLogout   = "logout"
)

// AuthMetric captures the outcome of one auth action.
type AuthMetric struct {
	Action   string
	Result   string
	Failure  string
	Duration time.Duration
	Err      error
}

// EmitAuthOutcome emits auth.outcome and, when a duration is known, auth.duration.
func EmitAuthOutcome(sink statsd.Sink, in AuthMetric) {
	if sink == nil {
		return
	}

	tags := map[string]string{
		"action": in.Action,
		"result": in.Result,
	}
	if in.Failure != "" {
		tags["failure"] = in.Failure
	}
	if in.Err != nil && in.Result == ResultError {
		if class := obserrors.Classify(in.Err); class != "" {
			tags["error_class"] = class
		}
	}

	sink.Count("auth.outcome", 1, tags)

	if in.Duration > 0 {
		sink.Timing("auth.duration", in.Duration, CloneTags(tags))
	}
}
