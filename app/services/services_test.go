package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/cache"
	"github.com/shashiranjanraj/storefront/pkg/cart"
	"github.com/shashiranjanraj/storefront/pkg/event"
	"github.com/shashiranjanraj/storefront/pkg/storage"
	"github.com/shashiranjanraj/storefront/pkg/testkit"
	"github.com/shashiranjanraj/storefront/pkg/workerpool"
)

// fixture is a fully wired service set over a seeded database.
type fixture struct {
	db        *gorm.DB
	cache     *cache.Memory
	disk      *storage.Local
	events    *event.Dispatcher
	carts     *cart.Store
	auth      *AuthService
	catalog   *CatalogService
	cart      *CartService
	orders    *OrderService
	analytics *AnalyticsService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		db:     testkit.DB(t),
		cache:  cache.NewMemory(),
		disk:   storage.NewLocal(t.TempDir(), "http://test/storage"),
		events: event.New(),
	}

	pool := workerpool.New(4)
	t.Cleanup(pool.Shutdown)

	products := repositories.NewProductRepository(f.db)
	locks := cart.NewLocker()
	f.carts = cart.NewStore(f.cache, time.Hour)

	f.auth = NewAuthService(repositories.NewUserRepository(f.db))
	f.catalog = NewCatalogService(products, repositories.NewCategoryRepository(f.db),
		f.cache, time.Minute, f.disk, "products", f.events)
	f.cart = NewCartService(products, f.carts, locks, 99)
	f.orders = NewOrderService(f.db, repositories.NewOrderRepository(f.db),
		repositories.NewCustomerRepository(f.db), f.carts, locks, f.events)
	f.analytics = NewAnalyticsService(repositories.NewAnalyticsRepository(f.db), pool)
	return f
}

func (f *fixture) product(t *testing.T, name, price string) models.Product {
	t.Helper()
	p, err := f.catalog.Create(context.Background(), ProductInput{
		Name:       name,
		CategoryID: 1,
		Code:       "T-" + name,
		Price:      decimal.RequireFromString(price),
	}, nil)
	require.NoError(t, err)
	return p
}

func (f *fixture) user(t *testing.T, username string) models.User {
	t.Helper()
	u, err := repositories.NewUserRepository(f.db).FindByUsername(context.Background(), username)
	require.NoError(t, err)
	return u
}
