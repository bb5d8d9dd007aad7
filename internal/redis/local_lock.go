package redisclient

import (
	"context"
	"sync"
	"time"
)

type localLocker struct {
	mu   sync.Mutex
	held map[string]chan struct{}
	wait time.Duration
}

// NewLocalLocker returns an in-process Locker for single-instance deployments.
// A caller waits up to wait for a held key before giving up with ErrLockNotAcquired.
func NewLocalLocker(wait time.Duration) Locker {
	return &localLocker{
		held: make(map[string]chan struct{}),
		wait: wait,
	}
}

func (l *localLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	if err := l.acquire(ctx, key); err != nil {
		return err
	}
	defer l.release(key)

	return fn(ctx)
}

func (l *localLocker) acquire(ctx context.Context, key string) error {
	timer := time.NewTimer(l.wait)
	defer timer.Stop()

	for {
		l.mu.Lock()
		done, busy := l.held[key]
		if !busy {
			l.held[key] = make(chan struct{})
			l.mu.Unlock()
			return nil
		}
		l.mu.Unlock()

		select {
		case <-done:
		case <-timer.C:
			return ErrLockNotAcquired
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (l *localLocker) release(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if done, ok := l.held[key]; ok {
		close(done)
		delete(l.held, key)
	}
}
