package controllers

import (
	"errors"

	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
	"github.com/shashiranjanraj/storefront/pkg/session"
)

// StoreController serves the public catalog pages.
type StoreController struct {
	catalog *services.CatalogService
}

func NewStoreController(catalog *services.CatalogService) *StoreController {
	return &StoreController{catalog: catalog}
}

func (h *StoreController) Home(c *ctx.Context) {
	products, err := h.catalog.List(c.Context())
	if err != nil {
		c.ServerError("store: list products", err)
		return
	}
	c.Render("home", map[string]any{"products": productViews(products, h.catalog.ImageURL)})
}

func (h *StoreController) Show(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		h.missing(c)
		return
	}

	p, err := h.catalog.Find(c.Context(), id)
	if errors.Is(err, repositories.ErrNotFound) {
		h.missing(c)
		return
	}
	if err != nil {
		c.ServerError("store: find product", err)
		return
	}
	c.Render("product_view", map[string]any{"product": productView(p, h.catalog.ImageURL)})
}

func (h *StoreController) missing(c *ctx.Context) {
	c.Flash(session.FlashError, "Product attempting to be viewed could not be found! Please contact support for assistance")
	c.RedirectTo("/")
}
