package httpx

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	domainauth "github.com/target/banksim-ui/internal/domain/auth"
	"github.com/target/banksim-ui/internal/domain/guard"
)

const (
	sessionEvent    = "session"
	wsWriteWait     = 10 * time.Second
	wsPongWait      = 60 * time.Second
	wsPingPeriod    = (wsPongWait * 9) / 10
	wsMaxReadLength = 512
)

// SessionView is the JSON shape of a visitor's session.
type SessionView struct {
	Authenticated bool                 `json:"authenticated"`
	Loading       bool                 `json:"loading"`
	State         guard.AuthState      `json:"state"`
	User          *domainauth.Identity `json:"user,omitempty"`
}

func sessionView(s domainauth.Session) SessionView {
	return SessionView{
		Authenticated: s.Authenticated(),
		Loading:       s.Loading,
		State:         guard.AuthStateOf(s),
		User:          s.Identity,
	}
}

// SessionMessage is one websocket frame.
type SessionMessage struct {
	Event string      `json:"event"`
	Data  SessionView `json:"data"`
}

// SessionHandlers exposes the visitor's session to browser scripts.
type SessionHandlers struct {
	Upgrader *websocket.Upgrader // Optional: defaults to a same-origin upgrader
	Logger   *slog.Logger
}

func (h *SessionHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Status returns the current session snapshot without waiting for a pending probe.
// GET /api/session.
func (h *SessionHandlers) Status(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	WriteJSON(w, http.StatusOK, sessionView(SessionFromContext(r.Context())))
}

// Stream pushes a frame for the current session and then one per change, so
// the page can re-run the guard (leave the loading page, follow a logout in
// another tab) without polling.
// GET /ws/session.
func (h *SessionHandlers) Stream(w http.ResponseWriter, r *http.Request) {
	v, ok := VisitorFromContext(r.Context())
	if !ok {
		http.Error(w, "no visitor", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader().Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		h.logger().DebugContext(r.Context(), "websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	updates, cancel := v.Session.Subscribe()
	defer cancel()

	closed := make(chan struct{})
	go readPump(conn, closed)

	if err := writeSession(conn, v.Session.Snapshot()); err != nil {
		return
	}

	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case snap := <-updates:
			if err := writeSession(conn, snap); err != nil {
				h.logger().DebugContext(r.Context(), "websocket write failed", "visitor_id", v.ID, "error", err)
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
		case <-closed:
			return
		}
	}
}

func (h *SessionHandlers) upgrader() *websocket.Upgrader {
	if h.Upgrader != nil {
		return h.Upgrader
	}
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     sameOrigin,
	}
}

// readPump discards client frames and reports when the peer goes away.
func readPump(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)
	conn.SetReadLimit(wsMaxReadLength)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func writeSession(conn *websocket.Conn, s domainauth.Session) error {
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return conn.WriteJSON(SessionMessage{Event: sessionEvent, Data: sessionView(s)})
}

// sameOrigin accepts upgrades whose Origin host matches the request host.
// Requests without an Origin header are not from a browser and are allowed.
func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	host := r.Host
	if fwd := r.Header.Get("X-Forwarded-Host"); fwd != "" {
		host = strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	return strings.EqualFold(u.Host, host)
}
