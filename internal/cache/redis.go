// Package cache provides Redis caching utilities for the application.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"chirp/internal/middleware"

	"github.com/redis/go-redis/v9"
)

var client *redis.Client

const (
	dialTimeout = 3 * time.Second
	pingTimeout = 5 * time.Second
	poolSize    = 10
)

// metricsHook feeds command failures into the Redis error counter so a
// degraded cache shows up on the dashboard before it shows up in latency.
type metricsHook struct{}

func (metricsHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (metricsHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		if err != nil && !errors.Is(err, redis.Nil) {
			middleware.RedisErrors.WithLabelValues(cmd.Name()).Inc()
		}
		return err
	}
}

func (metricsHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		if err != nil && !errors.Is(err, redis.Nil) {
			middleware.RedisErrors.WithLabelValues("pipeline").Inc()
		}
		return err
	}
}

// InitRedis initializes the Redis client with the given address. The address
// may be a plain host:port or a redis:// URL. Redis backs the message cache,
// sessions, rate limiting, and the live feed, but none of those are load
// bearing: if the server is unreachable the client is left nil and every
// dependent feature degrades to its no-op path.
func InitRedis(addr string) {
	opts, err := parseAddr(addr)
	if err != nil {
		middleware.Logger.Warn("invalid REDIS_URL, continuing without redis",
			slog.String("addr", addr), slog.String("error", err.Error()))
		client = nil
		return
	}
	opts.DialTimeout = dialTimeout
	opts.PoolSize = poolSize

	c := redis.NewClient(opts)
	c.AddHook(metricsHook{})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := c.Ping(ctx).Err(); err != nil {
		middleware.Logger.Warn("redis unreachable, continuing without redis",
			slog.String("addr", opts.Addr), slog.String("error", err.Error()))
		_ = c.Close()
		client = nil
		return
	}

	middleware.Logger.Info("redis connected", slog.String("addr", opts.Addr))
	client = c
}

func parseAddr(addr string) (*redis.Options, error) {
	if strings.Contains(addr, "://") {
		return redis.ParseURL(addr)
	}
	return &redis.Options{Addr: addr}, nil
}

// GetClient returns the current Redis client instance.
func GetClient() *redis.Client {
	return client
}
