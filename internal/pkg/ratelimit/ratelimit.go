// Package ratelimit holds redis-backed throttles shared by all replicas.
//
// Cooldown is a single slot per key (SETNX with TTL) that the owner may give
// back early. Window is a fixed-window counter (INCR, EXPIRE on first hit).
package ratelimit

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrInvalidLimit is returned for non-positive limits or durations.
var ErrInvalidLimit = errors.New("ratelimit: limit and duration must be positive")

const defaultPrefix = "ratelimit:"

// releaseScript deletes the key only when it still holds the caller's token,
// so a late release cannot free a slot taken by someone else.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Cooldown allows one acquisition per key until the TTL lapses or the
// holder releases it.
type Cooldown struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

// NewCooldown returns a cooldown named name. A zero ttl disables it.
func NewCooldown(client redis.Cmdable, name string, ttl time.Duration) *Cooldown {
	return &Cooldown{client: client, prefix: defaultPrefix + name + ":", ttl: ttl}
}

// Acquire takes the slot for key using token as the owner marker.
// It returns false when the slot is already held.
func (c *Cooldown) Acquire(ctx context.Context, key, token string) (bool, error) {
	if c.ttl <= 0 {
		return true, nil
	}

	return c.client.SetNX(ctx, c.prefix+key, token, c.ttl).Result()
}

// Release frees the slot if token still owns it.
func (c *Cooldown) Release(ctx context.Context, key, token string) error {
	if c.ttl <= 0 {
		return nil
	}

	return releaseScript.Run(ctx, c.client, []string{c.prefix + key}, token).Err()
}

// Remaining reports how long the slot for key stays held.
func (c *Cooldown) Remaining(ctx context.Context, key string) (time.Duration, error) {
	if c.ttl <= 0 {
		return 0, nil
	}

	d, err := c.client.PTTL(ctx, c.prefix+key).Result()
	if err != nil {
		return 0, err
	}
	return max(d, 0), nil
}

// Window counts hits per key in fixed windows.
type Window struct {
	client redis.Cmdable
	prefix string
	limit  int64
	size   time.Duration
}

// NewWindow allows limit hits per size. A zero limit disables it.
func NewWindow(client redis.Cmdable, name string, limit int64, size time.Duration) (*Window, error) {
	if limit < 0 || (limit > 0 && size <= 0) {
		return nil, ErrInvalidLimit
	}

	return &Window{client: client, prefix: defaultPrefix + name + ":", limit: limit, size: size}, nil
}

// Allow records a hit for key and reports whether it is within the limit,
// along with the hit count in the current window.
func (w *Window) Allow(ctx context.Context, key string) (bool, int64, error) {
	if w.limit == 0 {
		return true, 0, nil
	}

	k := w.prefix + key

	var incr *redis.IntCmd
	_, err := w.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, k)
		p.ExpireNX(ctx, k, w.size)
		return nil
	})
	if err != nil {
		return false, 0, err
	}

	n := incr.Val()
	return n <= w.limit, n, nil
}
