package httpx

import (
	"context"
	"html"
	"log/slog"
	"net/http"
	"strings"

	"github.com/target/banksim-ui/internal/http/ui/viewmodel"
	"github.com/target/banksim-ui/internal/ports"
	"github.com/target/banksim-ui/internal/service"
)

// UIHandlers serves browser-facing routes.
type UIHandlers struct {
	T *TemplateRenderer
	// Messages extracts user-facing text from backend failures.
	Messages *service.MessageExtractor
	// CSVMessages does the same for CSV exports, which only honor "message".
	CSVMessages *service.MessageExtractor
	IsDev       bool // Development mode flag for enhanced error reporting
	Logger      *slog.Logger
}

// logger returns the configured logger or falls back to slog.Default().
func (h *UIHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

//nolint:gochecknoglobals // compiled once; read-only
var (
	defaultMessages    = service.MustNewMessageExtractor(service.DefaultMessageExpr)
	defaultCSVMessages = service.MustNewMessageExtractor(service.CSVMessageExpr)
)

func (h *UIHandlers) messages() *service.MessageExtractor {
	if h.Messages == nil {
		return defaultMessages
	}
	return h.Messages
}

func (h *UIHandlers) csvMessages() *service.MessageExtractor {
	if h.CSVMessages == nil {
		return defaultCSVMessages
	}
	return h.CSVMessages
}

// message returns the user-facing text for err.
func (h *UIHandlers) message(err error, fallback string) string {
	return h.messages().Message(err, fallback)
}

// api returns the backend client bound to the requesting visitor. Every UI
// route runs behind the Visitors middleware, so a missing visitor is a wiring
// bug and answered with a 500.
func (h *UIHandlers) api(w http.ResponseWriter, r *http.Request) (ports.VisitorClient, bool) {
	v, ok := VisitorFromContext(r.Context())
	if !ok {
		h.logger().ErrorContext(r.Context(), "no visitor bound to request", "path", r.URL.Path)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return nil, false
	}
	return v.API, true
}

// backendContext detaches backend calls from the browser request. A call
// that was issued finishes even if the visitor navigates away.
func backendContext(r *http.Request) context.Context {
	return context.WithoutCancel(r.Context())
}

// PageMeta contains metadata for page rendering.
type PageMeta struct {
	Title       string
	PageTitle   string
	CurrentPage string
}

// buildLayout constructs shared layout metadata from the request/session context.
func buildLayout(r *http.Request, meta PageMeta) viewmodel.Layout {
	layout := viewmodel.Layout{
		Title:       meta.Title,
		PageTitle:   meta.PageTitle,
		CurrentPage: meta.CurrentPage,
		CSRFToken:   GetCSRFToken(r),
	}

	if id := IdentityFromContext(r.Context()); id != nil {
		layout.User = &viewmodel.User{
			ID:    id.ID,
			Name:  id.Name,
			Email: id.Email,
			Role:  string(id.Role),
		}
		layout.IsAuthenticated = true
		layout.IsAdmin = id.Role.IsAdmin()
	}

	return layout
}

// basePageData constructs the common page data map with user context.
func basePageData(r *http.Request, meta PageMeta) map[string]any {
	layout := buildLayout(r, meta)
	data := map[string]any{
		"Title":           layout.Title,
		"PageTitle":       layout.PageTitle,
		"CurrentPage":     layout.CurrentPage,
		"IsAuthenticated": layout.IsAuthenticated,
		"IsAdmin":         layout.IsAdmin,
	}

	if layout.CSRFToken != "" {
		data["CSRFToken"] = layout.CSRFToken
	}
	if layout.User != nil {
		data["User"] = layout.User
	}

	return data
}

// PageSpec defines metadata and an optional fetch for page-specific data.
type PageSpec struct {
	Meta  PageMeta
	Fetch func(ctx context.Context, data map[string]any) error
}

// Page builds base data, optionally fetches content data, and renders.
func (h *UIHandlers) Page(w http.ResponseWriter, r *http.Request, spec PageSpec) {
	data := basePageData(r, spec.Meta)
	if spec.Fetch != nil {
		if err := spec.Fetch(backendContext(r), data); err != nil {
			markPageError(data)
		}
	}
	h.renderPage(w, r, data)
}

// renderPage renders an application page with htmx partial support.
func (h *UIHandlers) renderPage(w http.ResponseWriter, r *http.Request, data map[string]any) {
	if !WantsPartial(r) {
		if err := h.T.RenderFull(w, r, data); err != nil {
			h.logAndRenderTemplateError(w, r, err, "full page render")
		}
		return
	}

	// For htmx requests, render the content plus out-of-band header updates.
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	SetHXTrigger(w, "nav:activate", map[string]string{"path": r.URL.Path})

	layout := layoutFromMap(data)
	if _, err := w.Write([]byte(`<title>` + html.EscapeString(layout.Title) + `</title>`)); err != nil {
		h.logger().Error("failed to write partial document title", "error", err)
		return
	}
	if _, err := w.Write([]byte(`<h1 id="header-title" class="header-title" hx-swap-oob="outerHTML">` +
		html.EscapeString(layout.PageTitle) + `</h1>`)); err != nil {
		h.logger().Error("failed to write partial header title", "error", err)
		return
	}

	if err := h.T.ExecuteTemplate(w, ContentTemplateFor(layout.CurrentPage), data); err != nil {
		h.logAndRenderTemplateError(w, r, err, "partial content render")
	}
}

// renderAuthPage renders a signed-out page (login, signup).
func (h *UIHandlers) renderAuthPage(w http.ResponseWriter, r *http.Request, data map[string]any) {
	h.renderAuthPageStatus(w, r, http.StatusOK, data)
}

// renderAuthPageStatus is renderAuthPage with an explicit status. htmx does not
// swap error responses, so htmx requests always get 200.
func (h *UIHandlers) renderAuthPageStatus(w http.ResponseWriter, r *http.Request, status int, data map[string]any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if status != http.StatusOK && !IsHTMX(r) {
		w.WriteHeader(status)
	}
	if err := h.T.RenderAuth(w, r, data); err != nil {
		h.logAndRenderTemplateError(w, r, err, "auth page render")
	}
}

func markPageError(data map[string]any) {
	if msg, ok := data["ErrorMessage"].(string); ok && msg != "" {
		return
	}
	data["ErrorMessage"] = service.MsgGenericFailure
}

func layoutFromMap(data map[string]any) viewmodel.Layout {
	layout := viewmodel.Layout{}
	if v, ok := data["Title"].(string); ok {
		layout.Title = v
	}
	if v, ok := data["PageTitle"].(string); ok {
		layout.PageTitle = v
	}
	if v, ok := data["CurrentPage"].(string); ok {
		layout.CurrentPage = v
	}
	return layout
}

// logAndRenderTemplateError logs template errors and renders them in dev mode.
func (h *UIHandlers) logAndRenderTemplateError(w http.ResponseWriter, r *http.Request, err error, context string) {
	h.logger().Error("template rendering failed",
		"error", err,
		"context", context,
		"path", r.URL.Path,
		"method", r.Method,
	)

	if h.IsDev {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		if _, writeErr := w.Write([]byte(`<div class="template-error"><h2>Template Rendering Error</h2>` +
			`<p><strong>Context:</strong> ` + html.EscapeString(context) + `</p>` +
			`<p><strong>Path:</strong> ` + html.EscapeString(r.URL.Path) + `</p>` +
			`<pre>` + html.EscapeString(err.Error()) + `</pre></div>`)); writeErr != nil {
			h.logger().Error("failed to write template error response", "error", writeErr)
		}
		return
	}

	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// triggerToast sends a standardized Hx-Trigger payload for toast notifications.
func triggerToast(w http.ResponseWriter, message, toastType string) {
	if w == nil || strings.TrimSpace(message) == "" {
		return
	}
	HTMX(w).Trigger("showToast", map[string]any{
		"message": message,
		"type":    strings.TrimSpace(toastType),
	})
}

// formValue returns the trimmed form value.
func formValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.FormValue(key))
}
