package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTMX_RequestDetection(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/x", nil)
	r.Header.Set("Hx-Request", "true")
	assert.True(t, IsHTMX(r))

	r2 := httptest.NewRequest(http.MethodGet, "/x", nil)
	assert.False(t, IsHTMX(r2))
}

func TestHTMX_HistoryRestore_WantsFullPage(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/x", nil)
	r.Header.Set("Hx-Request", "true")
	assert.True(t, WantsPartial(r), "htmx request should want partial")

	r.Header.Set("Hx-History-Restore-Request", "true")
	assert.True(t, IsHistoryRestore(r))
	assert.False(t, WantsPartial(r), "history restore needs the full page")
}

func TestHTMX_ResponseHeaders_Setters(t *testing.T) {
	rr := httptest.NewRecorder()
	SetHXRedirect(rr, "/login")
	SetHXRefresh(rr, true)
	SetHXTrigger(rr, "saved", map[string]any{"id": "123"})

	res := rr.Result()
	t.Cleanup(func() { _ = res.Body.Close() })
	assert.Equal(t, "/login", res.Header.Get("Hx-Redirect"))
	assert.Equal(t, "true", res.Header.Get("Hx-Refresh"))

	var payload map[string]map[string]string
	require.NoError(t, json.Unmarshal([]byte(res.Header.Get("Hx-Trigger")), &payload))
	assert.Equal(t, "123", payload["saved"]["id"])
}

func TestHTMX_TriggersAccumulate(t *testing.T) {
	rr := httptest.NewRecorder()
	triggerToast(rr, "Transfer successful", "success")
	SetHXTrigger(rr, "nav:activate", map[string]string{"path": "/transactions"})

	var payload map[string]map[string]string
	require.NoError(t, json.Unmarshal([]byte(rr.Header().Get("Hx-Trigger")), &payload))
	assert.Equal(t, "Transfer successful", payload["showToast"]["message"])
	assert.Equal(t, "success", payload["showToast"]["type"])
	assert.Equal(t, "/transactions", payload["nav:activate"]["path"])
}

func TestHTMX_TriggerWithoutPayload(t *testing.T) {
	rr := httptest.NewRecorder()
	HTMX(rr).Trigger("refresh", nil)
	assert.JSONEq(t, `{"refresh":true}`, rr.Header().Get("Hx-Trigger"))
}

func TestTriggerToast_IgnoresBlank(t *testing.T) {
	rr := httptest.NewRecorder()
	triggerToast(rr, "   ", "success")
	assert.Empty(t, rr.Header().Get("Hx-Trigger"))
}
