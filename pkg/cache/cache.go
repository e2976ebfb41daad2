// Package cache provides a typed cache on top of the KV storage layer.
//
// Values are serialized with sonic, so any JSON-marshalable type works. The
// catalog uses it for group settings and access decisions, which are read on
// every search but change rarely.
//
// Basic usage:
//
//	c := cache.NewCache(kvStore)
//
//	settings := GroupSettings{SpellCheck: true}
//	err := cache.Set(ctx, c, "grp-settings-1001", settings, time.Hour)
//
//	cached, err := cache.Get[GroupSettings](ctx, c, "grp-settings-1001")
//
//	settings, err := cache.GetOrSet(ctx, c, "grp-settings-1001", func() (GroupSettings, error) {
//	    return loadGroupSettings(ctx, 1001)
//	}, time.Hour)
//
// A cache miss surfaces as the underlying store's not-found error; it is not
// a failure of the cache itself. Thread safety follows the backing KV store.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"

	"github.com/yeisme/mediavault/pkg/internal/storage/kv"
)

// Cache is a KV-backed cache.
type Cache struct {
	kvStore kv.KVStore
}

// NewCache creates a cache over a KV store.
func NewCache(kvStore kv.KVStore) *Cache {
	return &Cache{
		kvStore: kvStore,
	}
}

// Get fetches and deserializes a cached value.
func Get[T any](ctx context.Context, c *Cache, key string) (T, error) {
	var zero T

	data, err := c.kvStore.Get(ctx, key)
	if err != nil {
		return zero, err
	}

	var value T
	if err := sonic.Unmarshal(data, &value); err != nil {
		return zero, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}

	return value, nil
}

// Set serializes and stores a value with the given TTL.
func Set[T any](ctx context.Context, c *Cache, key string, value T, ttl time.Duration) error {
	data, err := sonic.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}

	return c.kvStore.Set(ctx, key, data, ttl)
}

// Delete removes a cached key.
func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.kvStore.Delete(ctx, key)
}

// Exists reports whether a key is cached.
func (c *Cache) Exists(ctx context.Context, key string) (bool, error) {
	return c.kvStore.Exists(ctx, key)
}

// GetOrSet returns the cached value, computing and storing it on a miss.
// A failure to store the freshly computed value is not fatal; the value is
// still returned.
func GetOrSet[T any](ctx context.Context, c *Cache, key string, getter func() (T, error), ttl time.Duration) (T, error) {
	var zero T

	if value, err := Get[T](ctx, c, key); err == nil {
		return value, nil
	}

	value, err := getter()
	if err != nil {
		return zero, err
	}

	if setErr := Set(ctx, c, key, value, ttl); setErr != nil {
		return value, nil
	}

	return value, nil
}

// Clear removes every key the backing store reports.
func (c *Cache) Clear(ctx context.Context) error {
	keys, err := c.kvStore.Keys(ctx, "*")
	if err != nil {
		return err
	}

	for _, key := range keys {
		if delErr := c.kvStore.Delete(ctx, key); delErr != nil {
			return delErr
		}
	}

	return nil
}
