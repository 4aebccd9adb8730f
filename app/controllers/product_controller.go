package controllers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
	"github.com/shashiranjanraj/storefront/pkg/session"
)

// ProductController is the admin product screen.
type ProductController struct {
	catalog *services.CatalogService
}

func NewProductController(catalog *services.CatalogService) *ProductController {
	return &ProductController{catalog: catalog}
}

type productForm struct {
	Name        string `form:"product_name"          validate:"required,max=255"`
	CategoryID  uint   `form:"product_category_id"   validate:"required"`
	Code        string `form:"product_code"          validate:"required,max=50"`
	Description string `form:"product_description"`
	Price       string `form:"product_price"         validate:"required,money"`
	DeleteImage bool   `form:"delete_product_image"`
}

func (f productForm) input() services.ProductInput {
	return services.ProductInput{
		Name:        f.Name,
		CategoryID:  f.CategoryID,
		Code:        f.Code,
		Description: f.Description,
		Price:       decimal.RequireFromString(f.Price),
	}
}

func (h *ProductController) Index(c *ctx.Context) {
	products, err := h.catalog.List(c.Context())
	if err != nil {
		c.ServerError("product: list", err)
		return
	}
	c.Render("product_view_all", map[string]any{"products": productViews(products, h.catalog.ImageURL)})
}

func (h *ProductController) Create(c *ctx.Context) {
	if !c.IsPost() {
		h.entry(c, "create", nil)
		return
	}

	var form productForm
	if !c.BindForm(&form) {
		return
	}
	img, cleanup := upload(c)
	defer cleanup()

	p, err := h.catalog.Create(c.Context(), form.input(), img)
	if errors.Is(err, services.ErrUnknownCategory) {
		c.ValidationError(map[string]string{"product_category_id": "The selected product_category_id is invalid."})
		return
	}
	if err != nil {
		c.ServerError("product: create", err)
		return
	}

	c.Flash(session.FlashSuccess, fmt.Sprintf("%s was successfully added!", p.Name))
	c.RedirectTo("/product/view_all")
}

func (h *ProductController) Update(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		h.editMissing(c)
		return
	}

	if !c.IsPost() {
		p, err := h.catalog.Find(c.Context(), id)
		if errors.Is(err, repositories.ErrNotFound) {
			h.editMissing(c)
			return
		}
		if err != nil {
			c.ServerError("product: find", err)
			return
		}
		view := productView(p, h.catalog.ImageURL)
		h.entry(c, "update", &view)
		return
	}

	var form productForm
	if !c.BindForm(&form) {
		return
	}
	img, cleanup := upload(c)
	defer cleanup()

	p, err := h.catalog.Update(c.Context(), id, form.input(), img, form.DeleteImage)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		h.editMissing(c)
		return
	case errors.Is(err, services.ErrUnknownCategory):
		c.ValidationError(map[string]string{"product_category_id": "The selected product_category_id is invalid."})
		return
	case err != nil:
		c.ServerError("product: update", err)
		return
	}

	c.Flash(session.FlashSuccess, fmt.Sprintf("%s was successfully updated!", p.Name))
	c.RedirectTo("/product/view_all")
}

func (h *ProductController) Delete(c *ctx.Context) {
	id, _ := c.ParamUint("id")

	p, err := h.catalog.Delete(c.Context(), id)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		c.Flash(session.FlashError, "Delete failed! Product could not be found.")
	case err != nil:
		c.ServerError("product: delete", err)
		return
	default:
		c.Flash(session.FlashSuccess, fmt.Sprintf("%s was successfully deleted!", p.Name))
	}
	c.RedirectTo("/product/view_all")
}

func (h *ProductController) entry(c *ctx.Context, action string, product *ProductView) {
	cats, err := h.catalog.Categories(c.Context())
	if err != nil {
		c.ServerError("product: categories", err)
		return
	}
	data := map[string]any{"action": action, "product_categories": cats}
	if product != nil {
		data["product"] = product
	}
	c.Render("product_entry", data)
}

func (h *ProductController) editMissing(c *ctx.Context) {
	c.Flash(session.FlashError, "Product attempting to be edited could not be found!")
	c.RedirectTo("/product/view_all")
}

// upload returns the product_image part of a multipart form, if one was sent.
func upload(c *ctx.Context) (*services.Upload, func()) {
	file, header, err := c.R.FormFile("product_image")
	if err != nil {
		if !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
			c.Logger().Warn("product: unreadable image upload", "error", err)
		}
		return nil, func() {}
	}
	if header.Filename == "" {
		file.Close()
		return nil, func() {}
	}
	return &services.Upload{Filename: header.Filename, Body: file}, closer(file)
}

func closer(f multipart.File) func() {
	return func() { f.Close() }
}
