package httpx

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/target/banksim-ui/internal/adapters/memory"
	"github.com/target/banksim-ui/internal/mocks/bank"
	"github.com/target/banksim-ui/internal/ports"
	"github.com/target/banksim-ui/internal/service"
)

// RequireTemplateRenderer creates a TemplateRenderer for tests, skipping the test if templates are not available.
func RequireTemplateRenderer(t *testing.T) *TemplateRenderer {
	t.Helper()
	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: os.DirFS(TemplatePathFromTest),
	})
	if err != nil {
		t.Skipf("Templates not available, skipping: %v", err)
		return nil
	}
	return tr
}

// SkipIfNoTemplates checks if templates are available and skips the test if not.
func SkipIfNoTemplates(t *testing.T) {
	t.Helper()
	if _, err := os.Stat(TemplatePathFromTest); os.IsNotExist(err) {
		t.Skip("Templates not available, skipping integration test")
	}
}

// ContainsAll checks if a string contains all the given substrings.
func ContainsAll(s string, subs []string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}

// CreateUIHandlersForTest creates UIHandlers with a template renderer for testing.
func CreateUIHandlersForTest(t *testing.T) *UIHandlers {
	t.Helper()
	tr := RequireTemplateRenderer(t)
	if tr == nil {
		return nil
	}
	return &UIHandlers{T: tr, Logger: discardLogger()}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testApp runs the full router against an in-memory bank behind a real
// listener, with a cookie-keeping client that does not follow redirects.
type testApp struct {
	t        *testing.T
	Bank     *bank.Fake
	Visitors *service.VisitorRegistry
	Cookies  *memory.CookieStore
	Server   *httptest.Server
	Client   *http.Client
}

type testAppOption func(*RouterServices)

func withProbeWait(d time.Duration) testAppOption {
	return func(s *RouterServices) { s.ProbeWait = d }
}

func newTestApp(t *testing.T, fake *bank.Fake, opts ...testAppOption) *testApp {
	t.Helper()
	SkipIfNoTemplates(t)

	if fake == nil {
		fake = bank.NewFake()
	}
	cookies := memory.NewCookieStore(nil)
	registry, err := service.NewVisitorRegistry(service.VisitorRegistryOptions{
		NewClient: func() (ports.VisitorClient, error) { return fake, nil },
		Cookies:   cookies,
		CookieTTL: time.Hour,
		Logger:    discardLogger(),
	})
	require.NoError(t, err)
	tokens, err := service.NewVisitorTokens("test-visitor-key", time.Hour, nil)
	require.NoError(t, err)

	services := RouterServices{
		Visitors:   registry,
		Tokens:     tokens,
		ProbeWait:  2 * time.Second,
		TemplateFS: os.DirFS(TemplatePathFromTest),
		StaticFS:   os.DirFS("../../frontend/static"),
		Logger:     discardLogger(),
	}
	for _, opt := range opts {
		opt(&services)
	}
	handler, err := NewRouter(services)
	require.NoError(t, err)

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{
		Jar:     jar,
		Timeout: 10 * time.Second,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return &testApp{
		t:        t,
		Bank:     fake,
		Visitors: registry,
		Cookies:  cookies,
		Server:   srv,
		Client:   client,
	}
}

// do sends req and returns the response with its body read.
func (a *testApp) do(req *http.Request) (*http.Response, string) {
	a.t.Helper()
	resp, err := a.Client.Do(req)
	require.NoError(a.t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(a.t, err)
	return resp, string(b)
}

func (a *testApp) get(path string, header ...string) (*http.Response, string) {
	a.t.Helper()
	req, err := http.NewRequest(http.MethodGet, a.Server.URL+path, nil)
	require.NoError(a.t, err)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	return a.do(req)
}

// postForm submits form with the visitor's CSRF token, fetching one first if
// the jar has none.
func (a *testApp) postForm(path string, form url.Values) (*http.Response, string) {
	a.t.Helper()
	token := a.cookie(DefaultCSRFCookieName)
	if token == "" {
		a.get("/healthz")
		token = a.cookie(DefaultCSRFCookieName)
	}
	require.NotEmpty(a.t, token, "csrf cookie")
	if form == nil {
		form = url.Values{}
	}
	form.Set(DefaultCSRFFieldName, token)

	req, err := http.NewRequest(http.MethodPost, a.Server.URL+path, strings.NewReader(form.Encode()))
	require.NoError(a.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.do(req)
}

func (a *testApp) cookie(name string) string {
	u, err := url.Parse(a.Server.URL)
	require.NoError(a.t, err)
	for _, c := range a.Client.Jar.Cookies(u) {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}
