// Package kernel assembles the storefront: it builds repositories, services
// and controllers from their infrastructure and wraps the routes in the
// global middleware stack.
package kernel

import (
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/controllers"
	"github.com/shashiranjanraj/storefront/app/listeners"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/app/routes"
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/auth"
	"github.com/shashiranjanraj/storefront/pkg/cache"
	"github.com/shashiranjanraj/storefront/pkg/cart"
	"github.com/shashiranjanraj/storefront/pkg/event"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
	"github.com/shashiranjanraj/storefront/pkg/middleware"
	"github.com/shashiranjanraj/storefront/pkg/reqid"
	"github.com/shashiranjanraj/storefront/pkg/response"
	"github.com/shashiranjanraj/storefront/pkg/router"
	"github.com/shashiranjanraj/storefront/pkg/session"
	"github.com/shashiranjanraj/storefront/pkg/storage"
	"github.com/shashiranjanraj/storefront/pkg/workerpool"
)

// Deps is the infrastructure the kernel runs on.
type Deps struct {
	DB    *gorm.DB
	Cache cache.Store
	Disk  storage.Disk
	Pool  *workerpool.Pool

	AppKey        string
	SessionCookie string
	SessionTTL    time.Duration
	SecureCookies bool

	MaxPerItem      int
	UploadPath      string
	CatalogCacheTTL time.Duration
	LoginRateLimit  int // per minute per client IP; 0 disables
}

// Services exposes the wired services, mainly for tests.
type Services struct {
	Auth      *services.AuthService
	Catalog   *services.CatalogService
	Cart      *services.CartService
	Orders    *services.OrderService
	Analytics *services.AnalyticsService
}

// Kernel is a fully wired application.
type Kernel struct {
	Router   *router.Router
	Events   *event.Dispatcher
	Services Services
	limiter  *middleware.RateLimiter
}

// New wires the application.
//
// Global middleware, outermost first: metrics, recovery, request ID,
// access log, session, identity.
func New(d Deps) *Kernel {
	events := event.New()
	listeners.Register(events)

	users := repositories.NewUserRepository(d.DB)
	products := repositories.NewProductRepository(d.DB)
	carts := cart.NewStore(d.Cache, d.SessionTTL)
	locks := cart.NewLocker()

	svc := Services{
		Auth: services.NewAuthService(users),
		Catalog: services.NewCatalogService(products, repositories.NewCategoryRepository(d.DB),
			d.Cache, d.CatalogCacheTTL, d.Disk, d.UploadPath, events),
		Cart: services.NewCartService(products, carts, locks, d.MaxPerItem),
		Orders: services.NewOrderService(d.DB, repositories.NewOrderRepository(d.DB),
			repositories.NewCustomerRepository(d.DB), carts, locks, events),
		Analytics: services.NewAnalyticsService(repositories.NewAnalyticsRepository(d.DB), d.Pool),
	}

	opts := session.DefaultOptions()
	if d.SessionCookie != "" {
		opts.CookieName = d.SessionCookie
	}
	if d.SessionTTL > 0 {
		opts.TTL = d.SessionTTL
	}
	opts.Secure = d.SecureCookies
	sessions := session.NewManager(d.Cache, auth.NewSigner(d.AppKey), opts)

	r := router.New()
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(session.Middleware(sessions))
	r.Use(middleware.Identify(svc.Auth.Identity))

	r.Handle("/metrics", metrics.Handler())
	if local, ok := d.Disk.(*storage.Local); ok {
		r.Handle("/storage/*", http.StripPrefix("/storage", local.Handler()))
	}
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w)
	})

	k := &Kernel{Router: r, Events: events, Services: svc}
	if d.LoginRateLimit > 0 {
		k.limiter = middleware.NewRateLimiter(d.LoginRateLimit, time.Minute)
	}

	routes.RegisterWeb(r, routes.Controllers{
		Auth:      controllers.NewAuthController(svc.Auth, svc.Cart),
		Store:     controllers.NewStoreController(svc.Catalog),
		Cart:      controllers.NewCartController(svc.Cart, svc.Catalog),
		Checkout:  controllers.NewCheckoutController(svc.Orders, svc.Catalog),
		Product:   controllers.NewProductController(svc.Catalog),
		Analytics: controllers.NewAnalyticsController(svc.Analytics),
	}, k.limiter)

	return k
}

func (k *Kernel) Handler() http.Handler { return k.Router.Handler() }

// Close stops background work owned by the kernel.
func (k *Kernel) Close() {
	if k.limiter != nil {
		k.limiter.Stop()
	}
}

// RouteList returns the route table without any infrastructure.
func RouteList() []router.RouteInfo {
	r := router.New()
	routes.RegisterWeb(r, routes.Controllers{}, nil)
	return r.Routes()
}
