// Package notifications fans newly posted messages out to connected
// websocket clients. Publishing goes through a Redis channel so every
// server instance sees every message regardless of which one accepted
// the original POST.
package notifications

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"chirp/internal/middleware"
	"chirp/internal/models"
)

// FeedChannel is the Redis pub/sub channel carrying new messages.
const FeedChannel = "feed:messages"

// Notifier publishes feed events to Redis. A Notifier with a nil client
// is a no-op, so the feed degrades cleanly when Redis is unavailable.
type Notifier struct {
	rdb *redis.Client
	log *slog.Logger
}

// NewNotifier returns a Notifier publishing on the given client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb, log: middleware.Logger}
}

// PublishMessage pushes a newly created message onto the feed channel.
// Failures are logged and swallowed; posting must not fail because the
// live feed is down.
func (n *Notifier) PublishMessage(ctx context.Context, message *models.Message) {
	if n == nil || n.rdb == nil {
		return
	}

	payload, err := json.Marshal(message)
	if err != nil {
		n.log.ErrorContext(ctx, "marshaling feed message", slog.String("error", err.Error()))
		return
	}

	if err := n.rdb.Publish(ctx, FeedChannel, payload).Err(); err != nil {
		n.log.ErrorContext(ctx, "publishing feed message",
			slog.Int("message_id", message.ID),
			slog.String("error", err.Error()),
		)
	}
}

// StartFeedSubscriber subscribes to the feed channel and forwards every
// payload to the hub until ctx is canceled. It runs in its own goroutine.
func StartFeedSubscriber(ctx context.Context, rdb *redis.Client, hub *Hub) {
	if rdb == nil || hub == nil {
		return
	}

	sub := rdb.Subscribe(ctx, FeedChannel)
	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				hub.Broadcast([]byte(msg.Payload))
			}
		}
	}()
}
