package coordination_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-go/lending/clock"
	"github.com/AntonStoeckl/library-lending-go/lending/coordination"
)

var now = time.Date(2025, time.March, 3, 10, 0, 0, 0, time.UTC)

func Test_MemoryLocker(t *testing.T) {
	// arrange
	ctx := context.Background()
	manual := clock.NewManual(now)
	locker := coordination.NewMemoryLocker()
	locker.SetNow(manual.Now)

	// act + assert
	unlock, acquired, err := locker.TryLock(ctx, "sweep", time.Minute)
	require.NoError(t, err)
	require.True(t, acquired)

	_, acquired, _ = locker.TryLock(ctx, "sweep", time.Minute)
	assert.False(t, acquired, "held")

	_, acquired, _ = locker.TryLock(ctx, "due-soon", time.Minute)
	assert.True(t, acquired, "other names are independent")

	require.NoError(t, unlock(ctx))
	unlockAgain, acquired, _ := locker.TryLock(ctx, "sweep", time.Minute)
	assert.True(t, acquired, "released")

	require.NoError(t, unlock(ctx), "a stale unlock does not release the new holder")
	_, acquired, _ = locker.TryLock(ctx, "sweep", time.Minute)
	assert.False(t, acquired)

	manual.Advance(2 * time.Minute)
	_, acquired, _ = locker.TryLock(ctx, "sweep", time.Minute)
	assert.True(t, acquired, "expired")
	assert.NotNil(t, unlockAgain)
}

func Test_MemoryDeduper(t *testing.T) {
	// arrange
	ctx := context.Background()
	manual := clock.NewManual(now)
	deduper := coordination.NewMemoryDeduper()
	deduper.SetNow(manual.Now)

	// act
	first, _ := deduper.FirstSeen(ctx, "patron-1/book-1", time.Hour)
	second, _ := deduper.FirstSeen(ctx, "patron-1/book-1", time.Hour)
	manual.Advance(time.Hour)
	afterTTL, _ := deduper.FirstSeen(ctx, "patron-1/book-1", time.Hour)

	// assert
	assert.True(t, first)
	assert.False(t, second)
	assert.True(t, afterTTL)
}

func newRedisClient(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.Ping(context.Background()).Err())

	return client
}

func Test_RedisLocker(t *testing.T) {
	// arrange
	ctx := context.Background()
	locker := coordination.NewRedisLocker(newRedisClient(t))
	name := "test-" + uuid.NewString()

	// act
	unlock, acquired, err := locker.TryLock(ctx, name, time.Minute)
	require.NoError(t, err)
	_, acquiredTwice, err := locker.TryLock(ctx, name, time.Minute)
	require.NoError(t, err)
	require.NoError(t, unlock(ctx))
	_, acquiredAfterRelease, err := locker.TryLock(ctx, name, time.Minute)
	require.NoError(t, err)

	// assert
	assert.True(t, acquired)
	assert.False(t, acquiredTwice)
	assert.True(t, acquiredAfterRelease)
}

func Test_RedisDeduper(t *testing.T) {
	// arrange
	ctx := context.Background()
	deduper := coordination.NewRedisDeduper(newRedisClient(t))
	key := "test-" + uuid.NewString()

	// act
	first, err := deduper.FirstSeen(ctx, key, time.Minute)
	require.NoError(t, err)
	second, err := deduper.FirstSeen(ctx, key, time.Minute)
	require.NoError(t, err)

	// assert
	assert.True(t, first)
	assert.False(t, second)
}
