package httpx

import (
	"errors"
	"net/http"
)

// NotFound handles 404 errors.
// Browser requests get an HTML error page; API requests get a JSON error.
func (h *UIHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	if IsBrowserRequest(r) {
		h.renderBrowserNotFound(w, r)
	} else {
		h.renderAPINotFound(w, r)
	}
}

// renderBrowserNotFound renders an HTML 404 page with auth-aware content.
func (h *UIHandlers) renderBrowserNotFound(w http.ResponseWriter, r *http.Request) {
	data := basePageData(r, PageMeta{Title: "Page Not Found - BankSim", CurrentPage: PageNotFound})
	data["Code"] = "404"
	data["Message"] = "The page you're looking for doesn't exist."

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	if h.T == nil {
		_, _ = w.Write([]byte("Page not found\n"))
		return
	}
	if err := h.T.RenderError(w, r, data); err != nil {
		h.logger().Error("failed to render not found page", "error", err)
	}
}

// renderAPINotFound renders a JSON 404 response.
func (h *UIHandlers) renderAPINotFound(w http.ResponseWriter, _ *http.Request) {
	WriteError(w, ErrorParams{
		Code:    http.StatusNotFound,
		ErrCode: "not_found",
		Err:     errors.New("not found"),
	})
}

// Loading renders the neutral page shown while the visitor's identity probe is
// still running. The page listens on /ws/session and reloads once the session
// settles; it never redirects on its own.
func (h *UIHandlers) Loading(w http.ResponseWriter, r *http.Request) {
	if IsHTMX(r) {
		// A fragment swap cannot host the listener; reload the whole page instead.
		SetHXRefresh(w, true)
		w.WriteHeader(http.StatusOK)
		return
	}
	data := map[string]any{
		"Title":     "Loading - BankSim",
		"ReturnTo":  r.URL.RequestURI(),
		"CSRFToken": GetCSRFToken(r),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.T.RenderLoading(w, r, data); err != nil {
		h.logAndRenderTemplateError(w, r, err, "loading page render")
	}
}
