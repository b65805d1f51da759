// Package cache provides a fail-safe Redis cache used for the public feed.
// When Redis is unconfigured or unreachable every operation degrades to a
// cache miss, so the feed keeps working without it.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client wraps redis.Client and swallows connectivity errors.
type Client struct {
	client *redis.Client
}

// New creates a Redis-backed cache client. An empty addr yields a disabled
// client whose operations are all no-ops.
func New(addr, password string, db int) *Client {
	if addr == "" {
		return &Client{}
	}
	return &Client{client: redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})}
}

// Enabled reports whether a Redis backend is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.client != nil
}

// Get returns the cached value or nil on miss or Redis failure.
func (c *Client) Get(ctx context.Context, key string) []byte {
	if !c.Enabled() {
		return nil
	}
	res, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			// fail safe: behave like a cache miss
			return nil
		}
		return nil
	}
	return res
}

// Set stores a value with TTL, ignoring Redis errors.
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if !c.Enabled() {
		return
	}
	_ = c.client.Set(ctx, key, value, ttl).Err()
}

// Delete removes a key, ignoring Redis errors.
func (c *Client) Delete(ctx context.Context, key string) {
	if !c.Enabled() {
		return
	}
	_ = c.client.Del(ctx, key).Err()
}
