package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisDispatchLock_SingleHolder(t *testing.T) {
	_, client := newMiniredis(t)
	ctx := context.Background()
	first := NewRedisDispatchLock(client, "", 30*time.Second)
	second := NewRedisDispatchLock(client, "", 30*time.Second)

	release, acquired, err := first.TryAcquire(ctx)
	require.NoError(t, err)
	require.True(t, acquired)

	_, acquired, err = second.TryAcquire(ctx)
	require.NoError(t, err)
	assert.False(t, acquired, "lock is held by the first dispatcher")

	require.NoError(t, release(ctx))

	release2, acquired, err := second.TryAcquire(ctx)
	require.NoError(t, err)
	assert.True(t, acquired)
	require.NoError(t, release2(ctx))
}

func TestRedisDispatchLock_ExpiresAfterTTL(t *testing.T) {
	mr, client := newMiniredis(t)
	ctx := context.Background()
	lock := NewRedisDispatchLock(client, "outbox:test", time.Second)

	release, acquired, err := lock.TryAcquire(ctx)
	require.NoError(t, err)
	require.True(t, acquired)

	mr.FastForward(2 * time.Second)

	_, acquired, err = lock.TryAcquire(ctx)
	require.NoError(t, err)
	assert.True(t, acquired, "a crashed holder does not block forever")

	assert.NoError(t, release(ctx), "releasing an expired lock is not an error")
}

func TestRedisDispatchLock_BackendError(t *testing.T) {
	mr, client := newMiniredis(t)
	lock := NewRedisDispatchLock(client, "", time.Second)
	mr.Close()

	_, acquired, err := lock.TryAcquire(context.Background())

	assert.Error(t, err)
	assert.False(t, acquired)
}
