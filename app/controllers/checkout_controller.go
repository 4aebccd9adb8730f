package controllers

import (
	"errors"

	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
	"github.com/shashiranjanraj/storefront/pkg/session"
)

const msgEmptyCart = "Your cart is empty"

type CheckoutController struct {
	orders  *services.OrderService
	catalog *services.CatalogService
}

func NewCheckoutController(orders *services.OrderService, catalog *services.CatalogService) *CheckoutController {
	return &CheckoutController{orders: orders, catalog: catalog}
}

type shippingForm struct {
	FirstName string `form:"first_name"`
	LastName  string `form:"last_name"`
	Phone     string `form:"phone"`
	Email     string `form:"email"`
	Address   string `form:"address"`
	City      string `form:"city"`
	State     string `form:"state"`
	Zip       string `form:"zip"`
}

// Show returns the cart summary for the checkout form.
func (h *CheckoutController) Show(c *ctx.Context) {
	cur, err := h.orders.Summary(c.Context(), c.Session().ID())
	if err != nil {
		c.ServerError("checkout: load cart", err)
		return
	}
	if cur.Empty() {
		c.Flash(session.FlashError, msgEmptyCart)
		c.RedirectTo("/cart/view")
		return
	}
	c.Render("checkout", cartView(cur, h.catalog.ImageURL))
}

// Process places the order. Only POST submits; GET goes home.
func (h *CheckoutController) Process(c *ctx.Context) {
	if !c.IsPost() {
		c.RedirectTo("/")
		return
	}

	var form shippingForm
	if !c.BindForm(&form) {
		return
	}
	id, _ := c.Identity()

	order, err := h.orders.Checkout(c.Context(), c.Session().ID(), id.UserID, services.Shipping(form))
	switch {
	case errors.Is(err, services.ErrEmptyCart):
		c.Flash(session.FlashError, msgEmptyCart)
		c.RedirectTo("/cart/view")
		return
	case errors.Is(err, services.ErrCustomerNotFound):
		c.Flash(session.FlashError, "Only customer accounts can place orders.")
		c.RedirectTo("/cart/view")
		return
	case err != nil:
		c.ServerError("checkout: place order", err)
		return
	}

	c.Render("thank_you", map[string]any{"order_number": order.ID})
}
