package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeTimeout = 2 * time.Second

type countPayload struct {
	Count   int       `json:"count"`
	Running bool      `json:"running,omitempty"`
	At      time.Time `json:"at,omitzero"`
}

// hub fans count increments out to connected WebSocket clients.
// Clients that stop reading are dropped; they can re-sync from /count.
type hub struct {
	log      *slog.Logger
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

func newHub(log *slog.Logger) *hub {
	return &hub{
		log:   log,
		conns: make(map[*websocket.Conn]struct{}),
	}
}

func (h *hub) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade", "err", err)
		return
	}

	h.mu.Lock()
	h.conns[conn] = struct{}{}
	n := len(h.conns)
	h.mu.Unlock()
	h.log.Debug("websocket client connected", "clients", n)

	// Reader loop: we never expect client messages, but reading is how
	// we notice the peer going away.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.drop(conn)
				return
			}
		}
	}()
}

func (h *hub) broadcast(count int) {
	payload, err := json.Marshal(countPayload{Count: count, At: time.Now()})
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
			h.removeLocked(conn)
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.removeLocked(conn)
		}
	}
}

func (h *hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(conn)
}

func (h *hub) removeLocked(conn *websocket.Conn) {
	if _, ok := h.conns[conn]; !ok {
		return
	}
	delete(h.conns, conn)
	if cerr := conn.Close(); cerr != nil {
		// Best-effort close.
		_ = cerr
	}
}

func (h *hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		h.removeLocked(conn)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Client went away mid-write; nothing to do.
		_ = err
	}
}
