package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/erp/posting/internal/application/notification"
	"github.com/redis/go-redis/v9"
)

const defaultThrottlePrefix = "posting:throttle:"

// RedisThrottle reserves alert keys with SET NX so repeated alerts are dropped
// across every server instance for the length of the window
type RedisThrottle struct {
	client    redis.Cmdable
	keyPrefix string
}

// NewRedisThrottle creates a throttle over an existing redis client
func NewRedisThrottle(client redis.Cmdable, keyPrefix string) *RedisThrottle {
	if keyPrefix == "" {
		keyPrefix = defaultThrottlePrefix
	}
	return &RedisThrottle{client: client, keyPrefix: keyPrefix}
}

// Allow returns true the first time key is seen within window
func (t *RedisThrottle) Allow(ctx context.Context, key string, window time.Duration) (bool, error) {
	ok, err := t.client.SetNX(ctx, t.keyPrefix+key, time.Now().Unix(), window).Result()
	if err != nil {
		return false, fmt.Errorf("failed to reserve throttle key: %w", err)
	}
	return ok, nil
}

// InMemoryThrottle is the single-instance throttle used when redis is disabled
type InMemoryThrottle struct {
	mu      sync.Mutex
	expires map[string]time.Time
	now     func() time.Time
}

// NewInMemoryThrottle creates an empty in-memory throttle
func NewInMemoryThrottle() *InMemoryThrottle {
	return &InMemoryThrottle{
		expires: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Allow returns true the first time key is seen within window.
// Expired keys are pruned on each call.
func (t *InMemoryThrottle) Allow(ctx context.Context, key string, window time.Duration) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	for k, exp := range t.expires {
		if !now.Before(exp) {
			delete(t.expires, k)
		}
	}

	if _, held := t.expires[key]; held {
		return false, nil
	}
	t.expires[key] = now.Add(window)
	return true, nil
}

var (
	_ notification.Throttle = (*RedisThrottle)(nil)
	_ notification.Throttle = (*InMemoryThrottle)(nil)
)
