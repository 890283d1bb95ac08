package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func newRedis(t *testing.T) *redis.Client {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping redis container test in short mode")
	}

	ctx := context.Background()
	ctr, err := tcredis.Run(ctx, "redis:7-alpine")
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	uri, err := ctr.ConnectionString(ctx)
	require.NoError(t, err)

	opt, err := redis.ParseURL(uri)
	require.NoError(t, err)

	client := redis.NewClient(opt)
	t.Cleanup(func() { _ = client.Close() })

	return client
}

func TestDisabledLimitersNeverTouchRedis(t *testing.T) {
	ctx := context.Background()

	cd := NewCooldown(nil, "issue", 0)
	ok, err := cd.Acquire(ctx, "k", "t")
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, cd.Release(ctx, "k", "t"))

	w, err := NewWindow(nil, "hourly", 0, 0)
	require.NoError(t, err)
	ok, _, err = w.Allow(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = NewWindow(nil, "hourly", 3, 0)
	assert.ErrorIs(t, err, ErrInvalidLimit)
	_, err = NewWindow(nil, "hourly", -1, time.Hour)
	assert.ErrorIs(t, err, ErrInvalidLimit)
}

func TestCooldown(t *testing.T) {
	client := newRedis(t)
	ctx := context.Background()
	cd := NewCooldown(client, "issue", time.Minute)

	ok, err := cd.Acquire(ctx, "ana", "t1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = cd.Acquire(ctx, "ana", "t2")
	require.NoError(t, err)
	assert.False(t, ok)

	left, err := cd.Remaining(ctx, "ana")
	require.NoError(t, err)
	assert.Greater(t, left, 50*time.Second)

	require.NoError(t, cd.Release(ctx, "ana", "t2"))
	ok, err = cd.Acquire(ctx, "ana", "t3")
	require.NoError(t, err)
	assert.False(t, ok, "foreign token must not release the slot")

	require.NoError(t, cd.Release(ctx, "ana", "t1"))
	ok, err = cd.Acquire(ctx, "ana", "t4")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestWindow(t *testing.T) {
	client := newRedis(t)
	ctx := context.Background()

	w, err := NewWindow(client, "hourly", 2, time.Hour)
	require.NoError(t, err)

	for i, want := range []bool{true, true, false} {
		ok, n, err := w.Allow(ctx, "ana")
		require.NoError(t, err)
		assert.Equal(t, want, ok)
		assert.Equal(t, int64(i+1), n)
	}

	ttl, err := client.TTL(ctx, defaultPrefix+"hourly:ana").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 59*time.Minute)

	ok, _, err := w.Allow(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, ok)
}
