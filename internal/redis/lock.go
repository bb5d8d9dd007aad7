package redisclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	ErrLockNotAcquired = errors.New("lock not acquired")
)

// Locker guards read-then-write sections such as a room conflict check followed by an insert.
type Locker interface {
	WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// RoomDayKey serialises bookings of one room on one calendar day.
func RoomDayKey(roomID uuid.UUID, date string) string {
	return fmt.Sprintf("lock:room:%s:%s", roomID, date)
}

// ChartKey serialises tooth chart edits of one patient.
func ChartKey(patientID uuid.UUID) string {
	return fmt.Sprintf("lock:chart:%s", patientID)
}

// AppointmentKey serialises writes to one appointment. It is taken before any RoomDayKey.
func AppointmentKey(id uuid.UUID) string {
	return fmt.Sprintf("lock:appointment:%s", id)
}

// ItemKey serialises stock movements of one inventory item.
func ItemKey(id uuid.UUID) string {
	return fmt.Sprintf("lock:item:%s", id)
}

// StaffContactsKey guards the phone and telegram uniqueness check together with the write that follows it.
const StaffContactsKey = "lock:staff:contacts"

type redisLocker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisLocker creates a locker that holds a token under a Redis key for at most ttl
func NewRedisLocker(client *redis.Client, ttl time.Duration) Locker {
	return &redisLocker{
		client: client,
		ttl:    ttl,
	}
}

func (l *redisLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return fmt.Errorf("acquire lock %s: %w", key, err)
	}
	if !ok {
		return ErrLockNotAcquired
	}

	defer func() {
		_ = l.release(context.WithoutCancel(ctx), key, token)
	}()

	ctxWithTimeout, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()

	return fn(ctxWithTimeout)
}

var unlockScript = redis.NewScript(`
local val = redis.call("GET", KEYS[1])
if val == ARGV[1] then
  return redis.call("DEL", KEYS[1])
else
  return 0
end
`)

func (l *redisLocker) release(ctx context.Context, key, token string) error {
	_, err := unlockScript.Run(ctx, l.client, []string{key}, token).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("release lock %s: %w", key, err)
	}
	return nil
}
