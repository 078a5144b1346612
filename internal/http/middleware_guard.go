package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	domainauth "github.com/target/banksim-ui/internal/domain/auth"
	"github.com/target/banksim-ui/internal/domain/guard"
)

// GuardConfig configures the route guard middleware.
type GuardConfig struct {
	// ProbeWait bounds how long a request waits for the visitor's identity
	// probe before the loading page is served instead.
	ProbeWait time.Duration
	// Loading renders the neutral loading page.
	Loading http.Handler
	Logger  *slog.Logger
}

// Guard evaluates the route table for every request. Paths outside the table
// pass through untouched.
func Guard(cfg GuardConfig) func(http.Handler) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	loading := cfg.Loading
	if loading == nil {
		loading = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusAccepted)
		})
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route, ok := guard.Lookup(r.URL.Path)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			decision := guard.Evaluate(route, waitForSession(r, cfg.ProbeWait))
			logger.DebugContext(r.Context(), "route guard",
				"path", r.URL.Path,
				"auth", decision.Auth,
				"authz", decision.Authz,
				"outcome", decision.Outcome.String(),
			)

			switch decision.Outcome {
			case guard.Loading:
				w.Header().Set("Cache-Control", "no-store")
				loading.ServeHTTP(w, r)
			case guard.Redirect:
				redirect(w, r, decision.Location)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

// waitForSession returns the visitor's session, giving a pending probe up to
// wait to settle.
func waitForSession(r *http.Request, wait time.Duration) domainauth.Session {
	v, ok := VisitorFromContext(r.Context())
	if !ok {
		return domainauth.Session{}
	}
	snap := v.Session.Snapshot()
	if !snap.Loading || wait <= 0 {
		return snap
	}
	ctx, cancel := context.WithTimeout(r.Context(), wait)
	defer cancel()
	return v.Session.Wait(ctx)
}

// redirect sends the browser to location. htmx requests get an Hx-Redirect
// so the whole page navigates instead of swapping a fragment.
func redirect(w http.ResponseWriter, r *http.Request, location string) {
	if IsHTMX(r) {
		SetHXRedirect(w, location)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, location, http.StatusSeeOther)
}
