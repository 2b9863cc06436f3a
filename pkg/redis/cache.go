package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// CacheOptions represents options for cache operations
type CacheOptions struct {
	// TTL is the time to live for the cached value
	TTL time.Duration
	// CacheName is the name of the cache, used as key prefix and for TTL lookup
	CacheName string
}

// NewCacheOptions creates a new cache options with default values
func NewCacheOptions() *CacheOptions {
	return &CacheOptions{
		TTL:       1 * time.Hour,
		CacheName: "",
	}
}

// WithTTL sets the TTL for cache operations
func (co *CacheOptions) WithTTL(ttl time.Duration) *CacheOptions {
	if ttl < 0 {
		panic(fmt.Sprintf("invalid TTL: %v, must be non-negative", ttl))
	}
	co.TTL = ttl
	return co
}

// WithCacheName sets the cache name for key prefixing and TTL lookup
func (co *CacheOptions) WithCacheName(cacheName string) *CacheOptions {
	co.CacheName = cacheName
	return co
}

// DefaultCacheOptions returns default cache options
func DefaultCacheOptions() *CacheOptions {
	return NewCacheOptions()
}

// Cache provides high-level JSON caching operations
type Cache struct {
	client *Client
	opts   *CacheOptions
}

// NewCache creates a new cache instance
func NewCache(client *Client, opts *CacheOptions) *Cache {
	if opts == nil {
		opts = DefaultCacheOptions()
	}
	return &Cache{
		client: client,
		opts:   opts,
	}
}

// getTTL returns the TTL for the cache, checking client configuration first
func (c *Cache) getTTL() time.Duration {
	if c.opts.CacheName != "" {
		if clientTTL, exists := c.client.config.CacheTTLs[c.opts.CacheName]; exists {
			return clientTTL
		}
		if c.client.config.DefaultCacheTTL > 0 {
			return c.client.config.DefaultCacheTTL
		}
	}
	return c.opts.TTL
}

// buildCacheKey constructs the full cache key using CacheName::cacheKey format
func (c *Cache) buildCacheKey(key string) string {
	if c.opts.CacheName != "" {
		return c.opts.CacheName + "::" + key
	}
	return key
}

// Get retrieves a value from cache and deserializes it into dest. The
// returned bool reports whether the key was present.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	fullKey := c.buildCacheKey(key)
	data, err := c.client.GetBytes(ctx, fullKey)
	if err != nil {
		return false, err
	}
	if len(data) == 0 {
		return false, nil
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to deserialize cached value: %w", err)
	}
	return true, nil
}

// Set stores a value in cache with serialization
func (c *Cache) Set(ctx context.Context, key string, value interface{}) error {
	fullKey := c.buildCacheKey(key)
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to serialize value: %w", err)
	}

	return c.client.Set(ctx, fullKey, data, c.getTTL())
}

// Delete removes one or more values from cache
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	fullKeys := make([]string, 0, len(keys))
	for _, key := range keys {
		fullKeys = append(fullKeys, c.buildCacheKey(key))
	}
	return c.client.Delete(ctx, fullKeys...)
}

// Exists checks if a key exists in cache
func (c *Cache) Exists(ctx context.Context, key string) (bool, error) {
	fullKey := c.buildCacheKey(key)
	count, err := c.client.Exists(ctx, fullKey)
	return count > 0, err
}

// GetOrSet retrieves a value from cache, or loads and stores it on a miss.
// The loaded value is deserialized into dest either way.
func (c *Cache) GetOrSet(ctx context.Context, key string, dest interface{}, loader func() (interface{}, error)) error {
	found, err := c.Get(ctx, key, dest)
	if err != nil {
		return err
	}
	if found {
		return nil
	}

	value, err := loader()
	if err != nil {
		return fmt.Errorf("loader function failed: %w", err)
	}

	if err := c.Set(ctx, key, value); err != nil {
		return fmt.Errorf("failed to set value in cache: %w", err)
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to serialize loaded value: %w", err)
	}
	return json.Unmarshal(data, dest)
}

// Clear removes all keys matching a pattern
func (c *Cache) Clear(ctx context.Context, pattern string) error {
	if c.opts.CacheName != "" {
		pattern = c.opts.CacheName + "::" + pattern
	}

	keys, err := c.client.Keys(ctx, pattern)
	if err != nil {
		return err
	}

	if len(keys) > 0 {
		return c.client.Delete(ctx, keys...)
	}

	return nil
}
