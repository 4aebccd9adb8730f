// Package cache is the key/value store behind sessions, carts and the
// catalog listing. Values are JSON-encoded so every driver behaves the same.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shashiranjanraj/storefront/config"
	"github.com/shashiranjanraj/storefront/pkg/logger"
)

// ErrUnavailable wraps transport failures so callers can tell a miss from an outage.
var ErrUnavailable = errors.New("cache: store unavailable")

// Store is implemented by every cache driver.
type Store interface {
	// Get decodes the value at key into dest. It reports false on a miss.
	Get(ctx context.Context, key string, dest any) (bool, error)
	// Set stores value under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	// Delete removes keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
	// Name is the driver label used in metrics.
	Name() string
}

// Connect builds the store selected by CACHE_DRIVER. A redis store that
// cannot be reached falls back to memory with a warning.
func Connect(ctx context.Context) Store {
	if config.CacheDriver() != "redis" {
		return NewMemory()
	}

	rs, err := NewRedis(ctx, config.RedisAddr(), config.RedisPassword())
	if err != nil {
		logger.Warn("cache: redis unavailable, using memory store", "error", err)
		return NewMemory()
	}
	return rs
}

// Remember returns the cached value at key, or calls load, caches its result
// and returns it. Cache errors degrade to calling load.
func Remember[T any](ctx context.Context, s Store, key string, ttl time.Duration, load func() (T, error)) (T, error) {
	var out T
	if hit, err := s.Get(ctx, key, &out); err == nil && hit {
		return out, nil
	} else if err != nil {
		logger.WithCtx(ctx).Warn("cache: get failed", "key", key, "error", err)
	}

	out, err := load()
	if err != nil {
		return out, err
	}
	if err := s.Set(ctx, key, out, ttl); err != nil {
		logger.WithCtx(ctx).Warn("cache: set failed", "key", key, "error", err)
	}
	return out, nil
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
}
