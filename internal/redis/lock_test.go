package redisclient

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeys(t *testing.T) {
	room := uuid.MustParse("6f1c1a52-3f4e-4c1e-9d55-0c6a3e3c9b01")
	assert.Equal(t, "lock:room:6f1c1a52-3f4e-4c1e-9d55-0c6a3e3c9b01:2024-12-10", RoomDayKey(room, "2024-12-10"))
	assert.Equal(t, "lock:chart:6f1c1a52-3f4e-4c1e-9d55-0c6a3e3c9b01", ChartKey(room))
	assert.Equal(t, "lock:appointment:6f1c1a52-3f4e-4c1e-9d55-0c6a3e3c9b01", AppointmentKey(room))
	assert.Equal(t, "lock:item:6f1c1a52-3f4e-4c1e-9d55-0c6a3e3c9b01", ItemKey(room))
}

func TestLocalLockerSerializes(t *testing.T) {
	l := NewLocalLocker(2 * time.Second)
	ctx := context.Background()

	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := l.WithLock(ctx, "k", func(context.Context) error {
				n := atomic.AddInt32(&inside, 1)
				for {
					m := atomic.LoadInt32(&maxInside)
					if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				atomic.AddInt32(&inside, -1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), maxInside)
}

func TestLocalLockerTimesOut(t *testing.T) {
	l := NewLocalLocker(20 * time.Millisecond)
	ctx := context.Background()

	held := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = l.WithLock(ctx, "room", func(context.Context) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held

	err := l.WithLock(ctx, "room", func(context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrLockNotAcquired)

	require.NoError(t, l.WithLock(ctx, "other", func(context.Context) error { return nil }), "keys are independent")

	close(release)
	assert.Eventually(t, func() bool {
		return l.WithLock(ctx, "room", func(context.Context) error { return nil }) == nil
	}, time.Second, 5*time.Millisecond)
}

func TestLocalLockerHonoursContext(t *testing.T) {
	l := NewLocalLocker(time.Second)

	held := make(chan struct{})
	release := make(chan struct{})
	defer close(release)
	go func() {
		_ = l.WithLock(context.Background(), "k", func(context.Context) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := l.WithLock(ctx, "k", func(context.Context) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}
