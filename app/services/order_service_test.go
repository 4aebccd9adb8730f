package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/event"
)

var ship = Shipping{
	FirstName: "Olive",
	LastName:  "Oyl",
	Phone:     "555-0101",
	Email:     "olive@example.com",
	Address:   "1 Spinach Way",
	City:      "Sweethaven",
	State:     "MD",
	Zip:       "21201",
}

// orderRows returns the number of order headers and order lines.
func orderRows(t *testing.T, f *fixture) (headers, lines int64) {
	t.Helper()
	repo := repositories.NewOrderRepository(f.db)
	headers, err := repo.Count(context.Background())
	require.NoError(t, err)
	lines, err = repo.CountItems(context.Background())
	require.NoError(t, err)
	return headers, lines
}

func fillCart(t *testing.T, f *fixture, sid string) (a, b models.Product) {
	t.Helper()
	ctx := context.Background()
	a = f.product(t, "A", "10.00")
	b = f.product(t, "B", "5.00")
	_, err := f.cart.Add(ctx, sid, a.ID, 2)
	require.NoError(t, err)
	_, err = f.cart.Add(ctx, sid, b.ID, 1)
	require.NoError(t, err)
	return a, b
}

func TestCheckoutWritesHeaderAndLines(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, b := fillCart(t, f, "sid")
	olive := f.user(t, "olive")

	var placed []OrderPlaced
	f.events.Listen(event.OrderPlaced, func(p any) { placed = append(placed, p.(OrderPlaced)) })

	when := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	f.orders.now = func() time.Time { return when }

	order, err := f.orders.Checkout(ctx, "sid", olive.ID, ship)
	require.NoError(t, err)

	headers, lines := orderRows(t, f)
	assert.EqualValues(t, 1, headers)
	assert.EqualValues(t, 2, lines)

	stored, err := repositories.NewOrderRepository(f.db).Find(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "MD", stored.State)
	assert.Equal(t, "555-0101", stored.PhoneNumber)
	assert.True(t, stored.OrderDate.Equal(when))
	require.Len(t, stored.Items, 2)
	assert.Equal(t, a.ID, stored.Items[0].ProductID)
	assert.Equal(t, 2, stored.Items[0].Quantity)
	assert.Equal(t, b.ID, stored.Items[1].ProductID)
	assert.Equal(t, 1, stored.Items[1].Quantity)

	c, err := f.cart.View(ctx, "sid")
	require.NoError(t, err)
	assert.True(t, c.Empty())

	require.Len(t, placed, 1)
	assert.Equal(t, OrderPlaced{OrderID: order.ID, CustomerID: stored.CustomerID, Lines: 2}, placed[0])
}

func TestCheckoutFailureOnSecondLineRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	fillCart(t, f, "sid")
	olive := f.user(t, "olive")

	inserts := 0
	boom := errors.New("disk full")
	require.NoError(t, f.db.Callback().Create().Before("gorm:create").Register("test:fail_second_line", func(tx *gorm.DB) {
		if tx.Statement.Table != "order_items" {
			return
		}
		inserts++
		if inserts == 2 {
			tx.AddError(boom)
		}
	}))

	_, err := f.orders.Checkout(ctx, "sid", olive.ID, ship)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 2, inserts)

	headers, lines := orderRows(t, f)
	assert.Zero(t, headers)
	assert.Zero(t, lines)

	c, err := f.cart.View(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, 2, c.Count(), "cart survives a failed checkout")
}

func TestCheckoutEmptyCart(t *testing.T) {
	f := newFixture(t)
	olive := f.user(t, "olive")

	_, err := f.orders.Checkout(context.Background(), "sid", olive.ID, ship)
	assert.ErrorIs(t, err, ErrEmptyCart)
	headers, _ := orderRows(t, f)
	assert.Zero(t, headers)
}

func TestCheckoutWithoutCustomerRecord(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	fillCart(t, f, "sid")
	admin := f.user(t, "admin")

	_, err := f.orders.Checkout(ctx, "sid", admin.ID, ship)
	assert.ErrorIs(t, err, ErrCustomerNotFound)
	headers, _ := orderRows(t, f)
	assert.Zero(t, headers)

	c, err := f.cart.View(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, 2, c.Count())
}
