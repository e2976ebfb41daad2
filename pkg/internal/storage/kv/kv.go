// Package kv provides the key/value store interface and its implementations.
//
// The catalog uses KV storage for hot lookups that must not hit the metadata
// databases on every request: group settings, access decisions, and cached
// HTTP responses.
package kv

import (
	"context"
	"fmt"
	"time"

	"github.com/yeisme/mediavault/pkg/configs"
)

type Client struct {
	KVStore
}

// KVStore defines the key/value storage interface.
type KVStore interface {
	// Get returns the value for a key.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores a value with an optional expiry. ttl<=0 means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes a key.
	Delete(ctx context.Context, key string) error
	// Exists reports whether a key is present.
	Exists(ctx context.Context, key string) (bool, error)
	// Keys lists keys matching a pattern (mainly for debugging).
	Keys(ctx context.Context, pattern string) ([]string, error)
	// Close releases the underlying connection.
	Close() error
}

// KVType identifies a key/value backend.
type KVType string

const (
	KVTypeMemory     KVType = "memory"
	KVTypeRedis      KVType = "redis"
	KVTypeNATS       KVType = "nats"
	KVTypeGroupcache KVType = "groupcache"
)

// KVFactory builds a KVStore from a backend-specific config.
type KVFactory func(ctx context.Context, config any) (KVStore, error)

var kvFactories = make(map[KVType]KVFactory)

// RegisterKVFactory registers a KV factory for a backend type.
func RegisterKVFactory(kvType KVType, factory KVFactory) {
	kvFactories[kvType] = factory
}

// GetRegisteredKVTypes returns the registered backend types.
func GetRegisteredKVTypes() []KVType {
	types := make([]KVType, 0, len(kvFactories))
	for kvType := range kvFactories {
		types = append(types, kvType)
	}

	return types
}

// NewKVStore creates a KVStore instance for a backend type.
func NewKVStore(ctx context.Context, kvType KVType, config any) (KVStore, error) {
	factory, exists := kvFactories[kvType]
	if !exists {
		return nil, fmt.Errorf("unsupported KV type: %s", kvType)
	}

	return factory(ctx, config)
}

// NewKVClient creates a KV client from the application configuration.
func NewKVClient(ctx context.Context) (*Client, error) {
	cfg := configs.GetConfig().KV

	var backendCfg any

	switch KVType(cfg.Type) {
	case KVTypeRedis:
		backendCfg = &cfg.Redis
	case KVTypeNATS:
		backendCfg = &cfg.NATS
	case KVTypeGroupcache:
		backendCfg = &cfg.Groupcache
	}

	store, err := NewKVStore(ctx, KVType(cfg.Type), backendCfg)
	if err != nil {
		return nil, err
	}

	return &Client{KVStore: store}, nil
}
