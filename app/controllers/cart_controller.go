package controllers

import (
	"errors"
	"fmt"

	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/cart"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
	"github.com/shashiranjanraj/storefront/pkg/session"
)

type CartController struct {
	carts   *services.CartService
	catalog *services.CatalogService
}

func NewCartController(carts *services.CartService, catalog *services.CatalogService) *CartController {
	return &CartController{carts: carts, catalog: catalog}
}

type addToCartForm struct {
	Quantity int `form:"product_quantity" validate:"min=1"`
}

// Add puts a product in the cart. GET adds one; POST adds product_quantity.
func (h *CartController) Add(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		h.productMissing(c)
		return
	}

	form := addToCartForm{Quantity: 1}
	if c.IsPost() && !c.BindForm(&form) {
		return
	}

	res, err := h.carts.Add(c.Context(), c.Session().ID(), id, form.Quantity)
	switch {
	case errors.Is(err, services.ErrProductNotFound):
		h.productMissing(c)
		return
	case errors.Is(err, services.ErrInvalidQuantity):
		c.ValidationError(map[string]string{"product_quantity": "The product_quantity must be at least 1."})
		return
	case err != nil:
		c.ServerError("cart: add", err)
		return
	}

	if res.Clamped {
		c.Flash(session.FlashWarning, fmt.Sprintf("You cannot exceed more than %d of the same item.", h.carts.MaxPerItem()))
	}
	c.Flash(session.FlashSuccess, fmt.Sprintf("%s has been successfully added to your cart.", res.Line.ProductName))
	c.RedirectTo("/cart/view")
}

func (h *CartController) Remove(c *ctx.Context) {
	idx, ok := c.ParamInt("index")
	if !ok {
		idx = -1
	}

	line, err := h.carts.Remove(c.Context(), c.Session().ID(), idx)
	switch {
	case errors.Is(err, cart.ErrLineOutOfRange):
		c.Flash(session.FlashError, "Product is not in the cart and could not be removed.")
	case err != nil:
		c.ServerError("cart: remove", err)
		return
	default:
		c.Flash(session.FlashSuccess, fmt.Sprintf("%s has been successfully removed from your cart.", line.ProductName))
	}
	c.RedirectTo("/cart/view")
}

func (h *CartController) Clear(c *ctx.Context) {
	err := h.carts.Clear(c.Context(), c.Session().ID())
	switch {
	case errors.Is(err, cart.ErrCartAlreadyEmpty):
		c.Flash(session.FlashError, "Cart already empty")
	case err != nil:
		c.ServerError("cart: clear", err)
		return
	default:
		c.Flash(session.FlashSuccess, "Cart Cleared")
	}
	c.RedirectTo("/")
}

func (h *CartController) View(c *ctx.Context) {
	cur, err := h.carts.View(c.Context(), c.Session().ID())
	if err != nil {
		c.ServerError("cart: view", err)
		return
	}
	c.Render("cart_view", cartView(cur, h.catalog.ImageURL))
}

func (h *CartController) productMissing(c *ctx.Context) {
	c.Flash(session.FlashError, "Product could not be found. Please contact support if this problem persists.")
	c.RedirectTo("/")
}
