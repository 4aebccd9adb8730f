// Package routes maps the storefront's URLs to controllers.
package routes

import (
	"github.com/shashiranjanraj/storefront/app/controllers"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
	"github.com/shashiranjanraj/storefront/pkg/middleware"
	"github.com/shashiranjanraj/storefront/pkg/rbac"
	"github.com/shashiranjanraj/storefront/pkg/router"
)

// Controllers is everything RegisterWeb mounts.
type Controllers struct {
	Auth      *controllers.AuthController
	Store     *controllers.StoreController
	Cart      *controllers.CartController
	Checkout  *controllers.CheckoutController
	Product   *controllers.ProductController
	Analytics *controllers.AnalyticsController
}

// RegisterWeb mounts every page route. loginLimit throttles /login and may
// be nil.
func RegisterWeb(r *router.Router, c Controllers, loginLimit *middleware.RateLimiter) {
	var throttle []router.Middleware
	if loginLimit != nil {
		throttle = append(throttle, loginLimit.Middleware)
	}

	r.Match("/login", "auth.login", ctx.Wrap(c.Auth.Login), throttle...)
	r.Get("/", "home", ctx.Wrap(c.Store.Home))
	r.Get("/product/{id}", "product.show", ctx.Wrap(c.Store.Show))

	user := r.Group("", middleware.RequireLogin)
	user.Get("/logout", "auth.logout", ctx.Wrap(c.Auth.Logout))
	user.Get("/cart/clear", "cart.clear", ctx.Wrap(c.Cart.Clear))
	user.Match("/cart/add/{id}", "cart.add", ctx.Wrap(c.Cart.Add))
	user.Get("/cart/remove/{index}", "cart.remove", ctx.Wrap(c.Cart.Remove))
	user.Match("/cart/view", "cart.view", ctx.Wrap(c.Cart.View))
	user.Get("/checkout", "checkout.show", ctx.Wrap(c.Checkout.Show))
	user.Match("/process-order", "checkout.process", ctx.Wrap(c.Checkout.Process))

	admin := user.Group("", rbac.HasRole(rbac.RoleAdmin))
	admin.Get("/product/view_all", "product.index", ctx.Wrap(c.Product.Index))
	admin.Match("/product/create", "product.create", ctx.Wrap(c.Product.Create))
	admin.Match("/product/update/{id}", "product.update", ctx.Wrap(c.Product.Update))
	admin.Get("/product/delete/{id}", "product.delete", ctx.Wrap(c.Product.Delete))
	admin.Get("/analytics-dashboard", "analytics.dashboard", ctx.Wrap(c.Analytics.Dashboard))
}

