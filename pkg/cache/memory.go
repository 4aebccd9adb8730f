package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/shashiranjanraj/storefront/pkg/metrics"
)

type memoryItem struct {
	raw       []byte
	expiresAt time.Time
}

// Memory is an in-process Store. It is the default driver and the one tests use.
type Memory struct {
	mu    sync.RWMutex
	items map[string]memoryItem
	now   func() time.Time
}

func NewMemory() *Memory {
	return &Memory{items: map[string]memoryItem{}, now: time.Now}
}

func (m *Memory) Name() string { return "memory" }

func (m *Memory) Get(_ context.Context, key string, dest any) (bool, error) {
	m.mu.RLock()
	item, ok := m.items[key]
	m.mu.RUnlock()

	if !ok || (!item.expiresAt.IsZero() && m.now().After(item.expiresAt)) {
		metrics.CacheMisses.WithLabelValues(m.Name()).Inc()
		return false, nil
	}

	if err := json.Unmarshal(item.raw, dest); err != nil {
		return false, fmt.Errorf("cache/memory: decode %s: %w", key, err)
	}
	metrics.CacheHits.WithLabelValues(m.Name()).Inc()
	return true, nil
}

func (m *Memory) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache/memory: encode %s: %w", key, err)
	}

	item := memoryItem{raw: raw}
	if ttl > 0 {
		item.expiresAt = m.now().Add(ttl)
	}

	m.mu.Lock()
	m.items[key] = item
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	for _, k := range keys {
		delete(m.items, k)
	}
	m.mu.Unlock()
	return nil
}
