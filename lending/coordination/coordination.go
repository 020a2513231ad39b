package coordination

import (
	"context"
	"errors"
	"time"
)

// ErrCoordinationFailed is returned when the coordination backend could not be reached.
var ErrCoordinationFailed = errors.New("coordination backend failed")

// Unlock releases a lock taken with TryLock.
type Unlock func(ctx context.Context) error

// Locker hands out short lived named locks.
type Locker interface {
	// TryLock takes the lock if nobody holds it. The lock ends after ttl even if it is never released.
	TryLock(ctx context.Context, name string, ttl time.Duration) (Unlock, bool, error)
}

// Deduper remembers keys for a while.
type Deduper interface {
	// FirstSeen records the key and reports whether it was unknown before. Keys are forgotten after ttl.
	FirstSeen(ctx context.Context, key string, ttl time.Duration) (bool, error)
}
