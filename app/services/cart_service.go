package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/cart"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
)

var (
	ErrProductNotFound = errors.New("cart: product not found")
	ErrInvalidQuantity = errors.New("cart: quantity must be at least 1")
)

// AddResult reports the line after an add and whether its quantity was capped.
type AddResult struct {
	Line    cart.Line
	Clamped bool
}

// CartService mutates session carts. Every mutation runs load, change and
// save under the session's lock.
type CartService struct {
	products *repositories.ProductRepository
	store    *cart.Store
	locks    *cart.Locker
	max      int
}

func NewCartService(products *repositories.ProductRepository, store *cart.Store, locks *cart.Locker, maxPerItem int) *CartService {
	return &CartService{products: products, store: store, locks: locks, max: maxPerItem}
}

// MaxPerItem is the quantity cap for one line.
func (s *CartService) MaxPerItem() int { return s.max }

// Add puts quantity of a product in the session's cart, merging with an
// existing line.
func (s *CartService) Add(ctx context.Context, sessionID string, productID uint, quantity int) (AddResult, error) {
	if quantity < 1 {
		metrics.CartMutations.WithLabelValues("add", "rejected").Inc()
		return AddResult{}, ErrInvalidQuantity
	}

	product, err := s.products.Find(ctx, productID)
	if errors.Is(err, repositories.ErrNotFound) {
		metrics.CartMutations.WithLabelValues("add", "rejected").Inc()
		return AddResult{}, ErrProductNotFound
	}
	if err != nil {
		return AddResult{}, fmt.Errorf("cart: add: %w", err)
	}

	var res AddResult
	err = s.mutate(ctx, sessionID, func(c *cart.Cart) error {
		res.Clamped = c.Add(cart.Line{
			ProductID:    product.ID,
			ProductName:  product.Name,
			ProductImage: product.Image,
			Quantity:     quantity,
			UnitPrice:    product.Price,
		}, s.max)
		for _, l := range c.Lines() {
			if l.ProductID == product.ID {
				res.Line = l
			}
		}
		return nil
	})
	if err != nil {
		return AddResult{}, err
	}

	outcome := "ok"
	if res.Clamped {
		outcome = "clamped"
	}
	metrics.CartMutations.WithLabelValues("add", outcome).Inc()
	return res, nil
}

// Remove drops the line at index and returns it.
func (s *CartService) Remove(ctx context.Context, sessionID string, index int) (cart.Line, error) {
	var removed cart.Line
	err := s.mutate(ctx, sessionID, func(c *cart.Cart) error {
		var err error
		removed, err = c.Remove(index)
		return err
	})
	s.count("remove", err)
	return removed, err
}

// Clear empties the cart. An empty cart yields cart.ErrCartAlreadyEmpty.
func (s *CartService) Clear(ctx context.Context, sessionID string) error {
	err := s.mutate(ctx, sessionID, func(c *cart.Cart) error { return c.Clear() })
	s.count("clear", err)
	return err
}

// View returns the session's cart. An absent cart is empty.
func (s *CartService) View(ctx context.Context, sessionID string) (*cart.Cart, error) {
	return s.store.Load(ctx, sessionID)
}

// Discard deletes the cart whatever its state, used on logout.
func (s *CartService) Discard(ctx context.Context, sessionID string) error {
	unlock := s.locks.Lock(sessionID)
	defer unlock()
	return s.store.Delete(ctx, sessionID)
}

func (s *CartService) mutate(ctx context.Context, sessionID string, fn func(*cart.Cart) error) error {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := fn(c); err != nil {
		return err
	}
	return s.store.Save(ctx, sessionID, c)
}

func (s *CartService) count(op string, err error) {
	outcome := "ok"
	switch {
	case errors.Is(err, cart.ErrLineOutOfRange), errors.Is(err, cart.ErrCartAlreadyEmpty):
		outcome = "rejected"
	case err != nil:
		return
	}
	metrics.CartMutations.WithLabelValues(op, outcome).Inc()
}
