package coordination

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	lockKeyPrefix  = "lending:lock:"
	dedupKeyPrefix = "lending:seen:"
)

// releaseScript deletes the lock only if it still carries the token of the holder.
var releaseScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

// RedisLocker implements Locker with SET NX PX and a token checked on release.
type RedisLocker struct {
	client redis.UniversalClient
}

// NewRedisLocker creates a RedisLocker.
func NewRedisLocker(client redis.UniversalClient) RedisLocker {
	return RedisLocker{client: client}
}

// TryLock implements Locker.
func (l RedisLocker) TryLock(ctx context.Context, name string, ttl time.Duration) (Unlock, bool, error) {
	key := lockKeyPrefix + name
	token := uuid.NewString()

	acquired, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, false, errors.Join(ErrCoordinationFailed, err)
	}

	if !acquired {
		return nil, false, nil
	}

	unlock := func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
			return errors.Join(ErrCoordinationFailed, err)
		}

		return nil
	}

	return unlock, true, nil
}

// RedisDeduper implements Deduper with SETNX and a TTL.
type RedisDeduper struct {
	client redis.UniversalClient
}

// NewRedisDeduper creates a RedisDeduper.
func NewRedisDeduper(client redis.UniversalClient) RedisDeduper {
	return RedisDeduper{client: client}
}

// FirstSeen implements Deduper.
func (d RedisDeduper) FirstSeen(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	firstSeen, err := d.client.SetNX(ctx, dedupKeyPrefix+key, time.Now().UTC().Format(time.RFC3339), ttl).Result()
	if err != nil {
		return false, errors.Join(ErrCoordinationFailed, err)
	}

	return firstSeen, nil
}
