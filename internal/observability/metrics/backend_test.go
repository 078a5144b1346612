package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/target/banksim-ui/internal/errors"
	"github.com/target/banksim-ui/internal/observability/statsd"
)

func TestEmitBackendCall(t *testing.T) {
	var rec statsd.Recorder

	EmitBackendCall(&rec, BackendCall{Operation: "whoami", Status: 200, Duration: 20 * time.Millisecond})
	EmitBackendCall(&rec, BackendCall{
		Operation: "login",
		Status:    401,
		Err:       apperrors.FromStatus(401, "bad credentials", nil),
	})

	calls := rec.Named("backend.call")
	require.Len(t, calls, 2)
	assert.Equal(t, map[string]string{"operation": "whoami", "result": "success", "status": "200"}, calls[0].Tags)
	assert.Equal(t, "error", calls[1].Tags["result"])
	assert.Equal(t, "unauthorized", calls[1].Tags["error_class"])

	timings := rec.Named("backend.duration")
	require.Len(t, timings, 1, "timing is only emitted when a duration is known")
	assert.InDelta(t, 20, timings[0].Value, 0.001)
}

func TestEmitVisitorsAndTransitions(t *testing.T) {
	var rec statsd.Recorder

	EmitVisitors(&rec, 4, 0)
	EmitVisitors(&rec, 2, 2)
	EmitSessionTransition(&rec, "logout", ResultError)

	assert.Len(t, rec.Named("visitors.active"), 2)
	evicted := rec.Named("visitors.evicted")
	require.Len(t, evicted, 1)
	assert.Equal(t, float64(2), evicted[0].Value)
	assert.Equal(t, "logout", rec.Named("session.transition")[0].Tags["transition"])

	EmitBackendCall(nil, BackendCall{Err: errors.New("ignored")})
}

func TestCloneTags(t *testing.T) {
	assert.Nil(t, CloneTags(nil))
	src := map[string]string{"a": "b"}
	cp := CloneTags(src)
	cp["a"] = "c"
	assert.Equal(t, "b", src["a"])
}
