package handler

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"flowcanvas/internal/service"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = 30 * time.Second
	wsReadLimit  = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     allowedOrigin,
}

// allowedOrigin accepts same-origin requests and local development hosts.
func allowedOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if u.Host == r.Host {
		return true
	}
	host := u.Hostname()
	return host == "localhost" || host == "127.0.0.1" || strings.HasPrefix(host, "[::1")
}

// WSError is written back when an input message is rejected.
type WSError struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

// ServeWS upgrades to a websocket. Each text message from the client is an
// InputMessage; every service.Event is written to the client.
func (h *DiagramHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("WebSocket upgrade failed", "error", err)
		return
	}

	events := make(chan service.Event, 256)
	rejects := make(chan WSError, 16)
	done := make(chan struct{})
	h.session.Subscribe(events)
	h.logger.Debug("WebSocket client connected", "remote", r.RemoteAddr)

	go h.writePump(conn, events, rejects, done)

	defer func() {
		h.session.Unsubscribe(events)
		close(done)
		h.logger.Debug("WebSocket client disconnected", "remote", r.RemoteAddr)
	}()
	h.readPump(conn, rejects)
}

func (h *DiagramHandler) readPump(conn *websocket.Conn, rejects chan<- WSError) {
	conn.SetReadLimit(wsReadLimit)
	conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(wsPongWait))
		return nil
	})

	for {
		var msg InputMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("WebSocket read failed", "error", err)
			}
			return
		}
		if err := h.dispatch(msg); err != nil {
			select {
			case rejects <- WSError{Type: "error", Error: err.Error()}:
			default:
			}
		}
	}
}

// writePump is the only goroutine writing to conn.
func (h *DiagramHandler) writePump(conn *websocket.Conn, events <-chan service.Event, rejects <-chan WSError, done <-chan struct{}) {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	write := func(v any) bool {
		conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		return conn.WriteJSON(v) == nil
	}

	for {
		select {
		case ev := <-events:
			if !write(ev) {
				return
			}
		case rej := <-rejects:
			if !write(rej) {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
