package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/cart"
	"github.com/shashiranjanraj/storefront/pkg/event"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
)

var (
	ErrEmptyCart        = errors.New("orders: cart is empty")
	ErrCustomerNotFound = errors.New("orders: no customer record for user")
)

// Shipping is the free-text delivery block of an order.
type Shipping struct {
	FirstName string
	LastName  string
	Phone     string
	Email     string
	Address   string
	City      string
	State     string
	Zip       string
}

// OrderPlaced is the payload of event.OrderPlaced.
type OrderPlaced struct {
	OrderID    uint
	CustomerID uint
	Lines      int
}

// OrderService turns a session cart into a persisted order.
type OrderService struct {
	db        *gorm.DB
	orders    *repositories.OrderRepository
	customers *repositories.CustomerRepository
	carts     *cart.Store
	locks     *cart.Locker
	events    *event.Dispatcher
	now       func() time.Time
}

func NewOrderService(
	db *gorm.DB,
	orders *repositories.OrderRepository,
	customers *repositories.CustomerRepository,
	carts *cart.Store,
	locks *cart.Locker,
	events *event.Dispatcher,
) *OrderService {
	return &OrderService{
		db:        db,
		orders:    orders,
		customers: customers,
		carts:     carts,
		locks:     locks,
		events:    events,
		now:       time.Now,
	}
}

// Checkout writes the session's cart as one order header plus one line per
// cart line, all in a single transaction. The cart is deleted only after the
// commit; on any failure it is left as it was.
func (s *OrderService) Checkout(ctx context.Context, sessionID string, userID uint, ship Shipping) (models.StoreOrder, error) {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	c, err := s.carts.Load(ctx, sessionID)
	if err != nil {
		return models.StoreOrder{}, err
	}
	if c.Empty() {
		return models.StoreOrder{}, ErrEmptyCart
	}

	var order models.StoreOrder
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		customer, err := s.customers.WithTx(tx).FindByUserID(ctx, userID)
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrCustomerNotFound
		}
		if err != nil {
			return err
		}

		order = models.StoreOrder{
			CustomerID:  customer.ID,
			FirstName:   ship.FirstName,
			LastName:    ship.LastName,
			PhoneNumber: ship.Phone,
			Email:       ship.Email,
			Address:     ship.Address,
			City:        ship.City,
			State:       ship.State,
			Zip:         ship.Zip,
			OrderDate:   s.now(),
		}
		orders := s.orders.WithTx(tx)
		if err := orders.CreateHeader(ctx, &order); err != nil {
			return fmt.Errorf("create header: %w", err)
		}

		for _, line := range c.Lines() {
			item := models.OrderItem{OrderID: order.ID, ProductID: line.ProductID, Quantity: line.Quantity}
			if err := orders.CreateItem(ctx, &item); err != nil {
				return fmt.Errorf("create line for product %d: %w", line.ProductID, err)
			}
			order.Items = append(order.Items, item)
		}
		return nil
	})
	if err != nil {
		metrics.OrdersSubmitted.WithLabelValues("failed").Inc()
		if errors.Is(err, ErrCustomerNotFound) {
			return models.StoreOrder{}, err
		}
		return models.StoreOrder{}, fmt.Errorf("orders: checkout: %w", err)
	}

	if err := s.carts.Delete(ctx, sessionID); err != nil {
		logger.WithCtx(ctx).Warn("orders: cart not cleared after checkout", "order_id", order.ID, "error", err)
	}

	metrics.OrdersSubmitted.WithLabelValues("success").Inc()
	metrics.OrderLines.Observe(float64(len(order.Items)))
	s.events.Fire(event.OrderPlaced, OrderPlaced{OrderID: order.ID, CustomerID: order.CustomerID, Lines: len(order.Items)})
	return order, nil
}

// Summary returns the cart as it would be checked out.
func (s *OrderService) Summary(ctx context.Context, sessionID string) (*cart.Cart, error) {
	return s.carts.Load(ctx, sessionID)
}
