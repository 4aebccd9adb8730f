package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/shashiranjanraj/storefront/pkg/cache"
)

// Store persists carts in the cache under "cart:{sessionID}".
type Store struct {
	cache cache.Store
	ttl   time.Duration
}

// NewStore keeps carts for ttl after their last write.
func NewStore(c cache.Store, ttl time.Duration) *Store {
	return &Store{cache: c, ttl: ttl}
}

func key(sessionID string) string { return "cart:" + sessionID }

// Load returns the session's cart. A missing cart is an empty one.
func (s *Store) Load(ctx context.Context, sessionID string) (*Cart, error) {
	c := &Cart{}
	if _, err := s.cache.Get(ctx, key(sessionID), c); err != nil {
		return nil, fmt.Errorf("cart: load: %w", err)
	}
	return c, nil
}

// Save writes c, or deletes the entry when c is empty.
func (s *Store) Save(ctx context.Context, sessionID string, c *Cart) error {
	if c.Empty() {
		return s.Delete(ctx, sessionID)
	}
	if err := s.cache.Set(ctx, key(sessionID), c, s.ttl); err != nil {
		return fmt.Errorf("cart: save: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, sessionID string) error {
	if err := s.cache.Delete(ctx, key(sessionID)); err != nil {
		return fmt.Errorf("cart: delete: %w", err)
	}
	return nil
}
