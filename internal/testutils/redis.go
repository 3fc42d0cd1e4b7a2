package testutils

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// RedisAddrEnv points tests at an already running Redis
const RedisAddrEnv = "TEST_REDIS_ADDR"

// testRedisDB keeps test keys away from a developer's data
const testRedisDB = 15

// CreateTestRedisClient connects to addr, flushes the test database and
// flushes it again when the test ends. The test is skipped when Redis is unreachable.
func CreateTestRedisClient(t *testing.T, addr string) redis.UniversalClient {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   testRedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		t.Skipf("Redis not available at %s: %v", addr, err)
	}

	require.NoError(t, client.FlushDB(ctx).Err(), "Failed to flush test Redis database")

	t.Cleanup(func() {
		_ = client.FlushDB(context.Background()).Err()
		_ = client.Close()
	})

	return client
}

// CreateTestRedisClientOrSkip uses TEST_REDIS_ADDR, or localhost when it is unset
func CreateTestRedisClientOrSkip(t *testing.T) redis.UniversalClient {
	t.Helper()

	addr := os.Getenv(RedisAddrEnv)
	if addr == "" {
		addr = "localhost:6379"
	}
	return CreateTestRedisClient(t, addr)
}
