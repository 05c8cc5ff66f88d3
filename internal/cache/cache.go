package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client is a best-effort cache for serialized posts. Every error, including
// an unreachable Redis, degrades to a cache miss: reads fall through to the
// database and writes are dropped. A nil Client behaves like an empty cache,
// which lets tests and cacheless deployments skip Redis entirely.
//
// Staleness is bounded by invalidation: every mutation that touches a post,
// including its like and comment counters, deletes the post's key.
type Client struct {
	client *redis.Client
}

// New connects to Redis at addr.
func New(addr, password string, db int) *Client {
	opts := &redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}
	return &Client{client: redis.NewClient(opts)}
}

// PostKey is the cache key under which a serialized post is stored.
func PostKey(id uint) string {
	return fmt.Sprintf("post:%d", id)
}

func (c *Client) disabled() bool {
	return c == nil || c.client == nil
}

// Get returns the cached value, or nil on a miss or any Redis error.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	if c.disabled() {
		return nil, nil
	}
	res, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		// redis.Nil and transport errors alike read as a miss
		return nil, nil
	}
	return res, nil
}

// Set stores value under key for ttl. Write errors are dropped.
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c.disabled() {
		return nil
	}
	_ = c.client.Set(ctx, key, value, ttl).Err()
	return nil
}

// Delete invalidates key. Errors are dropped; the entry expires by TTL anyway.
func (c *Client) Delete(ctx context.Context, key string) error {
	if c.disabled() {
		return nil
	}
	_ = c.client.Del(ctx, key).Err()
	return nil
}
