package controllers

import (
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/cart"
)

// ProductView is a product as the templates see it.
type ProductView struct {
	ID           uint            `json:"id"`
	Name         string          `json:"name"`
	CategoryID   uint            `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Code         string          `json:"code"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Image        string          `json:"image"`
	ImageURL     string          `json:"image_url"`
}

func productView(p models.Product, imageURL func(string) string) ProductView {
	return ProductView{
		ID:           p.ID,
		Name:         p.Name,
		CategoryID:   p.CategoryID,
		CategoryName: p.Category.Name,
		Code:         p.Code,
		Description:  p.Description,
		Price:        p.Price,
		Image:        p.Image,
		ImageURL:     imageURL(p.Image),
	}
}

func productViews(ps []models.Product, imageURL func(string) string) []ProductView {
	out := make([]ProductView, 0, len(ps))
	for _, p := range ps {
		out = append(out, productView(p, imageURL))
	}
	return out
}

// CartLineView is one cart line with its position, used by /cart/remove.
type CartLineView struct {
	Index        int             `json:"index"`
	ProductID    uint            `json:"product_id"`
	ProductName  string          `json:"product_name"`
	ProductImage string          `json:"product_image"`
	ImageURL     string          `json:"image_url"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Subtotal     decimal.Decimal `json:"subtotal"`
}

// CartView is the cart page and checkout summary.
type CartView struct {
	Products []CartLineView  `json:"products"`
	Count    int             `json:"cart_count"`
	Total    decimal.Decimal `json:"cart_total"`
}

func cartView(c *cart.Cart, imageURL func(string) string) CartView {
	lines := c.Lines()
	v := CartView{Products: make([]CartLineView, 0, len(lines)), Count: c.Count(), Total: c.Total()}
	for i, l := range lines {
		v.Products = append(v.Products, CartLineView{
			Index:        i,
			ProductID:    l.ProductID,
			ProductName:  l.ProductName,
			ProductImage: l.ProductImage,
			ImageURL:     imageURL(l.ProductImage),
			Quantity:     l.Quantity,
			UnitPrice:    l.UnitPrice,
			Subtotal:     l.Subtotal(),
		})
	}
	return v
}

// localPath returns target when it is a path on this site, else "".
func localPath(target string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.Contains(target, `\`) {
		return ""
	}
	u, err := url.Parse(target)
	if err != nil || u.IsAbs() || u.Host != "" {
		return ""
	}
	return target
}
