package metrics

import (
	"strconv"
	"time"

	"github.com/hackathon/inventory-web/internal/observability/statsd"
)

// HTTPMetric describes one served request.
type HTTPMetric struct {
	Method   string
	Route    string
	Status   int
	Duration time.Duration
}

// EmitHTTPRequest emits http.request and http.duration tagged by method, route and status class.
func EmitHTTPRequest(sink statsd.Sink, in HTTPMetric) {
	if sink == nil {
		return
	}
	tags := map[string]string{
		"method": in.Method,
		"route":  in.Route,
		"status": statusClass(in.Status),
	}
	sink.Count("http.request", 1, tags)
	sink.Timing("http.duration", in.Duration, CloneTags(tags))
}

func statusClass(code int) string {
	if code < 100 || code > 599 {
		return "unknown"
	}
	return strconv.Itoa(code/100) + "xx"
}
