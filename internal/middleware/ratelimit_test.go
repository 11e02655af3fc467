package middleware

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRateLimitRedis(t *testing.T) *redis.Client {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestCheckRateLimit_EnforcesLimit(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	rdb := setupRateLimitRedis(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := CheckRateLimit(ctx, rdb, "register", "1.2.3.4", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should be within the limit", i+1)
	}

	allowed, err := CheckRateLimit(ctx, rdb, "register", "1.2.3.4", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed, "fourth request should exceed the limit")
}

func TestCheckRateLimit_PerResourceAndID(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	rdb := setupRateLimitRedis(t)
	ctx := context.Background()

	allowed, err := CheckRateLimit(ctx, rdb, "register", "1.2.3.4", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = CheckRateLimit(ctx, rdb, "register", "1.2.3.4", 1, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)

	// Different caller and different resource both keep their own budget.
	allowed, err = CheckRateLimit(ctx, rdb, "register", "5.6.7.8", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = CheckRateLimit(ctx, rdb, "login", "1.2.3.4", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestCheckRateLimit_DisabledOutsideProduction(t *testing.T) {
	for _, env := range []string{"test", "development", ""} {
		t.Run("env="+env, func(t *testing.T) {
			t.Setenv("APP_ENV", env)

			for i := 0; i < 10; i++ {
				allowed, err := CheckRateLimit(context.Background(), nil, "register", "1.2.3.4", 1, time.Minute)
				require.NoError(t, err)
				assert.True(t, allowed)
			}
		})
	}
}

func TestCheckRateLimit_NilClientInProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	_, err := CheckRateLimit(context.Background(), nil, "register", "1.2.3.4", 1, time.Minute)
	assert.Error(t, err)
}
