// Package lock provides per-tenant generation locks.
//
// A generation run holds its tenant's lock for the whole unit of work, so a
// second request for the same tenant is rejected instead of racing it. The
// Memory locker covers a single process; the Redis locker covers several
// instances sharing one database.
package lock

import (
	"context"
	"errors"
	"sync"
)

// ErrLocked is returned when the key is already held
var ErrLocked = errors.New("lock already held")

// Locker acquires named locks. Acquire never blocks waiting for a holder;
// it fails with ErrLocked instead. The returned release func is safe to
// call more than once.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// Memory is an in-process Locker
type Memory struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// NewMemory creates an in-process locker
func NewMemory() *Memory {
	return &Memory{held: make(map[string]struct{})}
}

// Acquire takes key or fails with ErrLocked
func (m *Memory) Acquire(ctx context.Context, key string) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.held[key]; ok {
		return nil, ErrLocked
	}
	m.held[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.held, key)
			m.mu.Unlock()
		})
	}, nil
}

// Held reports whether key is currently locked
func (m *Memory) Held(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.held[key]
	return ok
}
