package server

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// FeedUpgradeRequired rejects plain HTTP requests to the feed endpoint.
func (s *Server) FeedUpgradeRequired(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// FeedHandler handles WebSocket connections for the live message feed.
// The feed is read-only: clients receive every newly posted message as a
// JSON payload and anything they send is ignored.
func (s *Server) FeedHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		if s.hub == nil {
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"feed unavailable"}`))
			_ = conn.Close()
			return
		}

		s.hub.Register(conn)
		defer s.hub.Unregister(conn)

		// Block on reads to detect disconnects; inbound frames are discarded.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				log.Printf("feed subscriber read ended: %v", err)
				return
			}
		}
	})
}
