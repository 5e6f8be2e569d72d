package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client is a fail-safe read-cache wrapper around redis.Client: connectivity
// errors behave like cache misses so a Redis outage degrades lookups to the
// database instead of failing requests. Do not use it for state that must be
// authoritative (sessions go through the session store, which surfaces
// errors).
type Client struct {
	client *redis.Client
}

// New wraps an existing Redis client. A nil client yields a cache that always
// misses, which keeps tests and cache-less deployments working.
func New(client *redis.Client) *Client {
	return &Client{client: client}
}

// Get returns the value or nil if missing or Redis is unavailable.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}
	res, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		// redis.Nil and connectivity errors both read as a miss
		return nil, nil
	}
	return res, nil
}

// Set stores value with TTL, ignoring Redis errors.
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c == nil || c.client == nil {
		return nil
	}
	_ = c.client.Set(ctx, key, value, ttl).Err()
	return nil
}

// Delete removes a key, ignoring Redis errors.
func (c *Client) Delete(ctx context.Context, key string) error {
	if c == nil || c.client == nil {
		return nil
	}
	_ = c.client.Del(ctx, key).Err()
	return nil
}
