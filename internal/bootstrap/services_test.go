package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/banksim-ui/config"
	"github.com/target/banksim-ui/internal/adapters/bankapi"
	"github.com/target/banksim-ui/internal/adapters/memory"
	httpx "github.com/target/banksim-ui/internal/http"
	"github.com/target/banksim-ui/internal/observability/statsd"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testAppConfig() *config.AppConfig {
	cfg := &config.AppConfig{
		Backend:  config.BackendConfig{BaseURL: "http://backend.test/banksimulation/api"},
		Visitors: config.VisitorConfig{Store: config.VisitorStoreMemory, SigningKey: "bootstrap-test-key"},
		Services: "http,visitor-reaper",
	}
	cfg.Sanitize()
	return cfg
}

func TestErrorChannelCapacity(t *testing.T) {
	tests := []struct {
		name  string
		modes []config.ServiceMode
		want  int
	}{
		{name: "no services enabled", want: 0},
		{name: "http only", modes: []config.ServiceMode{config.ServiceModeHTTP}, want: 1},
		{
			name:  "all services enabled",
			modes: []config.ServiceMode{config.ServiceModeHTTP, config.ServiceModeVisitorReaper},
			want:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enabled := make(map[config.ServiceMode]bool, len(tt.modes))
			for _, mode := range tt.modes {
				enabled[mode] = true
			}

			assert.Equal(t, tt.want, errorChannelCapacity(enabled))
			assert.Equal(t, tt.want+1, errorChannelBufferSize(enabled))
		})
	}
}

func TestGetEnabledServices(t *testing.T) {
	cfg := testAppConfig()
	cfg.Services = "visitor-reaper, http"

	assert.Equal(t, []string{"http", "visitor-reaper"}, GetEnabledServices(cfg))
	assert.Empty(t, GetEnabledServices(nil))

	require.NoError(t, ValidateServiceConfig(cfg))
	cfg.Services = "scheduler"
	require.Error(t, ValidateServiceConfig(cfg))
	require.Error(t, ValidateServiceConfig(nil))
}

func TestNewServices(t *testing.T) {
	svcs, err := NewServices(&ServiceDeps{Config: testAppConfig(), Logger: discardLogger()})
	require.NoError(t, err)

	require.NotNil(t, svcs.Visitors)
	require.NotNil(t, svcs.Tokens)
	assert.Equal(t, "message || error", svcs.Messages.Expr())
	assert.Equal(t, "message", svcs.CSVMessages.Expr())
	assert.IsType(t, statsd.Nop{}, svcs.Observability.MetricsSink)
	require.NoError(t, svcs.Observability.Close())

	v, err := svcs.Visitors.Get(context.Background(), svcs.Visitors.NewID())
	require.NoError(t, err)
	client, ok := v.API.(*bankapi.Client)
	require.True(t, ok, "visitors talk to the backend through bankapi")
	assert.Equal(t, "http://backend.test/banksimulation/api", client.BaseURL())
}

func TestNewServices_Errors(t *testing.T) {
	_, err := NewServices(nil)
	require.Error(t, err)

	cfg := testAppConfig()
	cfg.Backend.ErrorMessageExpr = "message ||"
	_, err = NewServices(&ServiceDeps{Config: cfg, Logger: discardLogger()})
	require.Error(t, err)
}

func TestBuildCookieStore_FallsBackToMemory(t *testing.T) {
	store := buildCookieStore(
		config.VisitorConfig{Store: config.VisitorStoreRedis},
		config.RedisConfig{KeyPrefix: "banksim:jar:"},
		nil,
		discardLogger(),
	)
	assert.IsType(t, &memory.CookieStore{}, store)
}

func TestNewClientFactory_GivesEachVisitorItsOwnJar(t *testing.T) {
	factory := NewClientFactory(config.BackendConfig{BaseURL: "http://backend.test/api"}, statsd.Nop{}, discardLogger())

	a, err := factory()
	require.NoError(t, err)
	b, err := factory()
	require.NoError(t, err)

	a.RestoreCookies([]*http.Cookie{{Name: "JSESSIONID", Value: "abc"}})
	assert.Len(t, a.Cookies(), 1)
	assert.Empty(t, b.Cookies())
}

func TestNewClientFactory_BadBaseURL(t *testing.T) {
	factory := NewClientFactory(config.BackendConfig{BaseURL: "ftp://backend.test"}, statsd.Nop{}, discardLogger())

	client, err := factory()
	require.Error(t, err)
	assert.Nil(t, client)
}

func TestBuildHTTPHandler(t *testing.T) {
	svcs, err := NewServices(&ServiceDeps{Config: testAppConfig(), Logger: discardLogger()})
	require.NoError(t, err)

	handler, err := buildHTTPHandler(httpHandlerConfig{
		Logger: discardLogger(),
		Services: httpx.RouterServices{
			Visitors:    svcs.Visitors,
			Tokens:      svcs.Tokens,
			ProbeWait:   10 * time.Millisecond,
			Messages:    svcs.Messages,
			CSVMessages: svcs.CSVMessages,
			Logger:      discardLogger(),
		},
		HTTP: config.HTTPConfig{CompressionEnabled: true, CompressionLevel: 6},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json"))
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestBuildHTTPHandler_RequiresVisitors(t *testing.T) {
	_, err := buildHTTPHandler(httpHandlerConfig{Logger: discardLogger()})
	require.Error(t, err)
}

func TestGracefulStop_WaitsForBackgrounds(t *testing.T) {
	done := make(chan struct{})
	close(done)

	err := gracefulStop(shutdownConfig{
		ctx:    context.Background(),
		cancel: func() {},
		logger: discardLogger(),
		backgrounds: []backgroundServiceHandle{
			{mode: config.ServiceModeVisitorReaper, name: "visitor reaper", done: done},
			{mode: config.ServiceModeVisitorReaper, name: "nil handle"},
		},
	})
	require.NoError(t, err)
}

func TestRunServicesWithShutdown_Validation(t *testing.T) {
	require.Error(t, RunServicesWithShutdown(nil))
	require.Error(t, RunServicesWithShutdown(&ServiceOrchestrationConfig{}))
	require.Error(t, RunServicesWithShutdown(&ServiceOrchestrationConfig{Config: testAppConfig()}))
}
