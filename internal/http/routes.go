package httpx

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	banksim "github.com/target/banksim-ui"
	"github.com/target/banksim-ui/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Visitors *service.VisitorRegistry // Required
	Tokens   *service.VisitorTokens   // Required

	// Visitor cookie settings.
	VisitorCookieName string
	VisitorCookieTTL  time.Duration
	CookieDomain      string

	// ProbeWait bounds how long a guarded request waits on a pending probe.
	ProbeWait time.Duration

	Messages    *service.MessageExtractor // Optional: defaults to "message || error"
	CSVMessages *service.MessageExtractor // Optional: defaults to "message"

	// TemplateFS and StaticFS override the embedded assets (tests).
	TemplateFS fs.FS
	StaticFS   fs.FS

	IsDev  bool         // Development mode flag for hot reloading, etc.
	Logger *slog.Logger // Logger for template and HTTP errors (optional)
}

// NewRouter creates and configures a new HTTP router with browser middleware.
// The chain, outermost first, is browser detection, visitor binding, CSRF,
// then the route guard in front of the mux.
func NewRouter(services RouterServices) (http.Handler, error) {
	if services.Visitors == nil || services.Tokens == nil {
		return nil, errors.New("visitor registry and tokens are required")
	}
	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: templateFS(services),
		DevMode:    services.IsDev,
		Logger:     services.Logger,
	})
	if err != nil {
		return nil, err
	}

	ui := &UIHandlers{
		T:           tr,
		Messages:    services.Messages,
		CSVMessages: services.CSVMessages,
		IsDev:       services.IsDev,
		Logger:      services.Logger,
	}
	sessions := &SessionHandlers{Logger: services.Logger}

	mux := http.NewServeMux()
	mux.Handle("GET /healthz", healthHandler(services.Visitors))
	mux.Handle("HEAD /healthz", healthHandler(services.Visitors))
	mux.Handle("GET /static/", staticHandler(services))
	mux.HandleFunc("GET /api/session", sessions.Status)
	mux.HandleFunc("GET /ws/session", sessions.Stream)
	registerAuthRoutes(mux, ui)
	registerUIRoutes(mux, ui)
	mux.HandleFunc("/", ui.NotFound)

	var handler http.Handler = mux
	handler = Guard(GuardConfig{
		ProbeWait: services.ProbeWait,
		Loading:   http.HandlerFunc(ui.Loading),
		Logger:    services.Logger,
	})(handler)
	handler = CSRFProtection(CSRFConfig{CookieDomain: services.CookieDomain})(handler)
	handler = Visitors(VisitorConfig{
		Registry:     services.Visitors,
		Tokens:       services.Tokens,
		CookieName:   services.VisitorCookieName,
		CookieDomain: services.CookieDomain,
		CookieTTL:    services.VisitorCookieTTL,
		Logger:       services.Logger,
	})(handler)

	return BrowserDetection()(handler), nil
}

func registerAuthRoutes(mux *http.ServeMux, h *UIHandlers) {
	mux.HandleFunc("GET /login", h.LoginPage)
	mux.HandleFunc("POST /login", h.Login)
	mux.HandleFunc("GET /signup", h.SignupPage)
	mux.HandleFunc("POST /signup", h.Signup)
	mux.HandleFunc("POST /logout", h.Logout)
}

func registerUIRoutes(mux *http.ServeMux, h *UIHandlers) {
	mux.HandleFunc("GET /{$}", h.Home)

	mux.HandleFunc("GET /accounts", h.Accounts)
	mux.HandleFunc("POST /accounts/open", h.OpenAccount)
	mux.HandleFunc("POST /accounts/close", h.CloseAccount)

	mux.HandleFunc("GET /transactions", h.Transactions)
	mux.HandleFunc("POST /transactions/transfer", h.Transfer)
	mux.HandleFunc("GET /transactions/export", h.ExportCSV)

	mux.HandleFunc("GET /profile", h.Profile)
	mux.HandleFunc("POST /profile", h.UpdateProfile)

	mux.HandleFunc("GET /admin/customers", h.AdminCustomers)
	mux.HandleFunc("POST /admin/customers/update", h.AdminUpdateCustomer)
	mux.HandleFunc("GET /admin/accounts", h.AdminAccounts)
	mux.HandleFunc("POST /admin/accounts/close", h.AdminCloseAccount)
	mux.HandleFunc("GET /admin/transactions", h.AdminTransactions)
	mux.HandleFunc("GET /admin/transactions/export", h.ExportCSV)
}

// templateFS picks the template source: an explicit override, the working
// tree in dev mode, or the embedded copy.
func templateFS(services RouterServices) fs.FS {
	if services.TemplateFS != nil {
		return services.TemplateFS
	}
	if services.IsDev {
		return os.DirFS(TemplatePathFromRoot)
	}
	sub, err := fs.Sub(banksim.TemplateFS, TemplatePathFromRoot)
	if err != nil {
		// Unreachable with a well-formed embed; fall back to disk.
		return os.DirFS(TemplatePathFromRoot)
	}
	return sub
}

// staticHandler serves /static/* from disk in dev mode and from the embedded
// copy otherwise.
func staticHandler(services RouterServices) http.Handler {
	var fsys fs.FS
	switch {
	case services.StaticFS != nil:
		fsys = services.StaticFS
	case services.IsDev:
		fsys = os.DirFS("frontend/static")
	default:
		sub, err := fs.Sub(banksim.StaticFS, "frontend/static")
		if err != nil {
			sub = os.DirFS("frontend/static")
		}
		fsys = sub
	}
	return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.FS(fsys))), services.IsDev)
}

// staticWithCacheHeaders wraps a static file handler to add cache headers.
// Assets are not content-hashed, so production caching is kept short.
func staticWithCacheHeaders(handler http.Handler, isDev bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isDev {
			w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		} else {
			w.Header().Set("Cache-Control", "public, max-age=3600")
		}
		handler.ServeHTTP(w, r)
	})
}
