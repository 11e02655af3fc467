package notifications

import (
	"log/slog"
	"sync"

	"chirp/internal/middleware"
)

// feedConn is the slice of a websocket connection the hub needs. The
// concrete type in production is *websocket.Conn; tests substitute stubs.
type feedConn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// textMessage mirrors websocket.TextMessage without importing the
// websocket package here.
const textMessage = 1

// Hub tracks live feed subscribers and pushes broadcast payloads to each
// of them. A connection that fails a write is dropped.
type Hub struct {
	mu    sync.Mutex
	conns map[feedConn]struct{}
	log   *slog.Logger
}

// NewHub returns an empty Hub.
func NewHub() *Hub {
	return &Hub{
		conns: make(map[feedConn]struct{}),
		log:   middleware.Logger,
	}
}

// Register adds a connection to the broadcast set.
func (h *Hub) Register(conn feedConn) {
	h.mu.Lock()
	h.conns[conn] = struct{}{}
	count := len(h.conns)
	h.mu.Unlock()

	middleware.FeedConnections.Set(float64(count))
	h.log.Info("feed subscriber connected", slog.Int("subscribers", count))
}

// Unregister removes a connection from the broadcast set.
func (h *Hub) Unregister(conn feedConn) {
	h.mu.Lock()
	delete(h.conns, conn)
	count := len(h.conns)
	h.mu.Unlock()

	middleware.FeedConnections.Set(float64(count))
	h.log.Info("feed subscriber disconnected", slog.Int("subscribers", count))
}

// Broadcast writes the payload to every registered connection. Connections
// whose write fails are closed and removed.
func (h *Hub) Broadcast(payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.conns {
		if err := conn.WriteMessage(textMessage, payload); err != nil {
			h.log.Warn("dropping feed subscriber", slog.String("error", err.Error()))
			conn.Close()
			delete(h.conns, conn)
		}
	}
	middleware.FeedConnections.Set(float64(len(h.conns)))
}

// Count returns the number of registered connections.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// Shutdown closes every registered connection.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.conns {
		conn.Close()
		delete(h.conns, conn)
	}
	middleware.FeedConnections.Set(0)
}
