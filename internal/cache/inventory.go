package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	MessageKeyPrefix = "message:%d"
	SessionKeyPrefix = "session:%s"
)

const (
	MessageTTL = 5 * time.Minute
)

func MessageKey(messageID int) string {
	return fmt.Sprintf(MessageKeyPrefix, messageID)
}

func SessionKey(sessionID string) string {
	return fmt.Sprintf(SessionKeyPrefix, sessionID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateMessage(ctx context.Context, messageID int) {
	Invalidate(ctx, MessageKey(messageID))
}
