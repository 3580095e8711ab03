// Package notify fans out node lifecycle events to any connected websocket
// observer. It is ambient and optional: a node that never calls Broadcast
// or never starts a Hub behaves exactly as if this package did not exist.
package notify

import (
	"net/http"
	"sync"

	"github.com/btcsuite/btclog"
	"github.com/btcsuite/websocket"
)

var log btclog.Logger

// UseLogger sets the package-wide logger used by the notify package.
func UseLogger(logger btclog.Logger) {
	log = logger
}

// DisableLog disables all library log output.
func DisableLog() {
	log = btclog.Disabled
}

func init() {
	DisableLog()
}

// Event describes one node lifecycle occurrence worth telling an observer
// about.
type Event struct {
	Type   string `json:"type"`
	NodeID string `json:"node_id"`
	Detail string `json:"detail"`
	Height uint64 `json:"height"`
}

const (
	EventStartupStateChanged = "startup_state_changed"
	EventBestHeadChanged     = "best_head_changed"
	EventBlockMined          = "block_mined"
)

// Hub accepts websocket connections and fans every Broadcast call out to
// all of them. A client that can't keep up is dropped rather than allowed
// to slow down the rest.
type Hub struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]chan Event
}

// NewHub returns an empty Hub ready to accept connections.
func NewHub() *Hub {
	return &Hub{
		clients: map[*websocket.Conn]chan Event{},
	}
}

// ServeHTTP upgrades the request to a websocket connection and registers
// it to receive future Broadcast events until it disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warnf("notify: websocket upgrade failed: %v", err)
		return
	}

	ch := make(chan Event, 32)
	h.mu.Lock()
	h.clients[conn] = ch
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
		conn.Close()
	}()

	for ev := range ch {
		if err := conn.WriteJSON(ev); err != nil {
			return
		}
	}
}

// Broadcast sends ev to every currently connected client, dropping it for
// any client whose outbound queue is already full.
func (h *Hub) Broadcast(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, ch := range h.clients {
		select {
		case ch <- ev:
		default:
			log.Debugf("notify: dropping event for slow client %v", conn.RemoteAddr())
		}
	}
}
