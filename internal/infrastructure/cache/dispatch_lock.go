package cache

import (
	"context"
	"errors"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

// DefaultDispatchLockKey names the lock shared by every outbox dispatcher
const DefaultDispatchLockKey = "posting:outbox:dispatcher"

// RedisDispatchLock lets only one server instance drain the outbox at a time
type RedisDispatchLock struct {
	locker *redislock.Client
	key    string
	ttl    time.Duration
}

// NewRedisDispatchLock creates a dispatch lock. The ttl bounds how long a crashed
// holder can block the others.
func NewRedisDispatchLock(client redis.UniversalClient, key string, ttl time.Duration) *RedisDispatchLock {
	if key == "" {
		key = DefaultDispatchLockKey
	}
	return &RedisDispatchLock{
		locker: redislock.New(client),
		key:    key,
		ttl:    ttl,
	}
}

// TryAcquire obtains the lock without waiting
func (l *RedisDispatchLock) TryAcquire(ctx context.Context) (func(context.Context) error, bool, error) {
	lock, err := l.locker.Obtain(ctx, l.key, l.ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	return func(ctx context.Context) error {
		if err := lock.Release(ctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			return err
		}
		return nil
	}, true, nil
}
