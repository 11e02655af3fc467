package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AccountsRegistered counts successful account registrations.
	AccountsRegistered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chirp_accounts_registered_total",
		Help: "Total number of accounts registered",
	})

	// MessagesCreated counts successfully created messages.
	MessagesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chirp_messages_created_total",
		Help: "Total number of messages created",
	})

	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chirp_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// FeedConnections is the gauge of active feed WebSocket connections.
	FeedConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chirp_feed_connections",
		Help: "Number of active feed WebSocket connections",
	})
)

var (
	promOnce       sync.Once
	promMiddleware *fiberprometheus.FiberPrometheus
)

// InitMetrics returns the HTTP metrics middleware, creating it on first use.
// The singleton avoids duplicate collector registration when multiple servers
// are constructed in one process (tests).
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		promMiddleware = fiberprometheus.New(serviceName)
	})
	return promMiddleware
}
