package httpx

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/target/banksim-ui/internal/service"
)

// DefaultVisitorCookieName names the signed visitor cookie.
const DefaultVisitorCookieName = "banksim_visitor"

// VisitorConfig configures the Visitors middleware.
type VisitorConfig struct {
	Registry     *service.VisitorRegistry // Required
	Tokens       *service.VisitorTokens   // Required
	CookieName   string
	CookieDomain string
	CookieTTL    time.Duration
	Logger       *slog.Logger
}

// Visitors binds every request to a Visitor. A missing or invalid cookie
// starts a new visitor and sets a fresh cookie. Static assets and health
// checks are skipped.
func Visitors(cfg VisitorConfig) func(http.Handler) http.Handler {
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultVisitorCookieName
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skipVisitor(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			id := ""
			if c, err := r.Cookie(cfg.CookieName); err == nil {
				if parsed, perr := cfg.Tokens.Parse(c.Value); perr == nil {
					id = parsed
				}
			}
			if id == "" {
				id = cfg.Registry.NewID()
				token, err := cfg.Tokens.Issue(id)
				if err != nil {
					logger.ErrorContext(r.Context(), "failed to issue visitor token", "error", err)
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
					return
				}
				setVisitorCookie(w, r, cfg, token)
			}

			v, err := cfg.Registry.Get(r.Context(), id)
			if err != nil {
				logger.ErrorContext(r.Context(), "failed to load visitor", "visitor_id", id, "error", err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
			next.ServeHTTP(w, r.WithContext(SetVisitorInContext(r.Context(), v)))
		})
	}
}

func skipVisitor(path string) bool {
	return strings.HasPrefix(path, "/static/") || path == "/healthz" || path == "/favicon.ico"
}

func setVisitorCookie(w http.ResponseWriter, r *http.Request, cfg VisitorConfig, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    token,
		Path:     "/",
		Domain:   cfg.CookieDomain,
		HttpOnly: true,
		Secure:   r.TLS != nil || isForwardedHTTPS(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(cfg.CookieTTL / time.Second),
	})
}
