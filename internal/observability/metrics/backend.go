// Package metrics holds the metric names and tag conventions used across the UI server.
package metrics

import (
	"strconv"
	"time"

	obserrors "github.com/target/banksim-ui/internal/observability/errors"
	"github.com/target/banksim-ui/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// BackendCall describes one request to the banking backend.
type BackendCall struct {
	Operation string
	Status    int
	Duration  time.Duration
	Err       error
}

// EmitBackendCall records a counter and a timing for one backend call.
func EmitBackendCall(sink statsd.Sink, in BackendCall) {
	if sink == nil {
		return
	}

	tags := map[string]string{
		"operation": in.Operation,
		"result":    ResultSuccess,
	}
	if in.Status > 0 {
		tags["status"] = strconv.Itoa(in.Status)
	}
	if in.Err != nil {
		tags["result"] = ResultError
		if class := obserrors.Classify(in.Err); class != "" {
			tags["error_class"] = class
		}
	}

	sink.Count("backend.call", 1, tags)
	if in.Duration > 0 {
		sink.Timing("backend.duration", in.Duration, CloneTags(tags))
	}
}

// EmitSessionTransition counts session store transitions such as login or logout.
func EmitSessionTransition(sink statsd.Sink, transition, result string) {
	if sink == nil {
		return
	}
	sink.Count("session.transition", 1, map[string]string{
		"transition": transition,
		"result":     result,
	})
}

// EmitVisitors records the number of live visitors and how many were evicted.
func EmitVisitors(sink statsd.Sink, active, evicted int) {
	if sink == nil {
		return
	}
	sink.Gauge("visitors.active", float64(active), nil)
	if evicted > 0 {
		sink.Count("visitors.evicted", int64(evicted), nil)
	}
}

// CloneTags creates a shallow copy of a tag map.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
