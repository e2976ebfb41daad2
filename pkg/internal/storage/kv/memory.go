package kv

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryKV is an in-process KV implementation backed by sync.Map. Expiry is
// handled by the shared TTL wrapper and checked lazily on read.
type MemoryKV struct {
	data sync.Map
}

// NewMemoryKV creates an in-memory KV instance. It needs no configuration.
func NewMemoryKV(ctx context.Context, config any) (KVStore, error) {
	return &MemoryKV{}, nil
}

// Get returns the value for a key.
func (m *MemoryKV) Get(ctx context.Context, key string) ([]byte, error) {
	value, exists := m.data.Load(key)
	if !exists {
		return nil, fmt.Errorf("key not found: %s", key)
	}

	data, ok := value.([]byte)
	if !ok {
		return nil, fmt.Errorf("invalid value type for key: %s", key)
	}

	val, expired, _, err := decodeWithTTL(data, time.Now())
	if err != nil {
		return nil, err
	}

	if expired {
		m.data.Delete(key)
		return nil, fmt.Errorf("key not found: %s", key)
	}

	result := make([]byte, len(val))
	copy(result, val)

	return result, nil
}

// Set stores a value for a key.
func (m *MemoryKV) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	encoded, _, err := encodeWithTTL(value, ttl)
	if err != nil {
		return err
	}

	data := make([]byte, len(encoded))
	copy(data, encoded)

	m.data.Store(key, data)

	return nil
}

// Delete removes a key.
func (m *MemoryKV) Delete(ctx context.Context, key string) error {
	m.data.Delete(key)
	return nil
}

// Exists reports whether a key is present.
func (m *MemoryKV) Exists(ctx context.Context, key string) (bool, error) {
	value, exists := m.data.Load(key)
	if !exists {
		return false, nil
	}

	data, ok := value.([]byte)
	if !ok {
		return false, nil
	}

	_, expired, _, err := decodeWithTTL(data, time.Now())
	if err != nil {
		return false, err
	}

	if expired {
		m.data.Delete(key)
		return false, nil
	}

	return true, nil
}

// Keys lists stored keys.
func (m *MemoryKV) Keys(ctx context.Context, pattern string) ([]string, error) {
	keys := make([]string, 0)

	m.data.Range(func(key, value any) bool {
		k, ok := key.(string)
		if !ok {
			return true
		}

		if pattern == "" || pattern == "*" || k == pattern {
			keys = append(keys, k)
		}

		return true
	})

	return keys, nil
}

// Close is a no-op for the in-memory implementation.
func (m *MemoryKV) Close() error {
	return nil
}

func init() {
	RegisterKVFactory(KVTypeMemory, NewMemoryKV)
}
