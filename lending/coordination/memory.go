package coordination

import (
	"context"
	"sync"
	"time"
)

// MemoryLocker implements Locker inside one process.
type MemoryLocker struct {
	mu    sync.Mutex
	locks map[string]lease
	now   func() time.Time
}

type lease struct {
	token   uint64
	expires time.Time
}

// NewMemoryLocker creates a MemoryLocker.
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{locks: make(map[string]lease), now: time.Now}
}

// TryLock implements Locker.
func (l *MemoryLocker) TryLock(_ context.Context, name string, ttl time.Duration) (Unlock, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if current, held := l.locks[name]; held && now.Before(current.expires) {
		return nil, false, nil
	}

	token := l.locks[name].token + 1
	l.locks[name] = lease{token: token, expires: now.Add(ttl)}

	unlock := func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()

		if current, held := l.locks[name]; held && current.token == token {
			l.locks[name] = lease{token: token}
		}

		return nil
	}

	return unlock, true, nil
}

// MemoryDeduper implements Deduper inside one process.
type MemoryDeduper struct {
	mu   sync.Mutex
	seen map[string]time.Time
	now  func() time.Time
}

// NewMemoryDeduper creates a MemoryDeduper.
func NewMemoryDeduper() *MemoryDeduper {
	return &MemoryDeduper{seen: make(map[string]time.Time), now: time.Now}
}

// FirstSeen implements Deduper. Expired keys are pruned on every call.
func (d *MemoryDeduper) FirstSeen(_ context.Context, key string, ttl time.Duration) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()

	for k, expires := range d.seen {
		if !now.Before(expires) {
			delete(d.seen, k)
		}
	}

	if _, known := d.seen[key]; known {
		return false, nil
	}

	d.seen[key] = now.Add(ttl)

	return true, nil
}
