package seeders

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/auth"
)

func init() {
	Register("users", SeedUsers)
	Register("product_categories", SeedCategories)
	Register("products", SeedProducts)
}

type seedUser struct {
	username, password, role string
	first, last, email       string
	customer                 bool
}

var users = []seedUser{
	{username: "olive", password: "olive", role: models.RoleCustomer, first: "Olive", last: "Oyl", email: "olive@example.com", customer: true},
	{username: "admin", password: "adminpw", role: models.RoleAdmin, first: "Store", last: "Admin", email: "admin@example.com"},
}

// SeedUsers creates the demo customer and administrator. Existing usernames
// are left alone.
func SeedUsers(db *gorm.DB) error {
	for _, su := range users {
		var u models.User
		err := db.Where("username = ?", su.username).First(&u).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hash, err := auth.HashPassword(su.password)
		if err != nil {
			return err
		}
		u = models.User{
			Username:  su.username,
			Email:     su.email,
			FirstName: su.first,
			LastName:  su.last,
			Password:  hash,
			Role:      su.role,
		}
		if err := db.Create(&u).Error; err != nil {
			return fmt.Errorf("create user %s: %w", su.username, err)
		}
		if su.customer {
			if err := db.Omit(clause.Associations).Create(&models.Customer{UserID: u.ID}).Error; err != nil {
				return fmt.Errorf("create customer for %s: %w", su.username, err)
			}
		}
	}
	return nil
}

// Categories is the fixed category list, in ID order.
var Categories = []string{
	"Clothing",
	"Graduation",
	"Accessories",
	"Home & Office",
	"Outdoor & Recreation",
	"Textbooks",
}

func SeedCategories(db *gorm.DB) error {
	for i, name := range Categories {
		c := models.ProductCategory{ID: uint(i + 1), Name: name}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&c).Error; err != nil {
			return fmt.Errorf("create category %s: %w", name, err)
		}
	}
	return nil
}

var products = []models.Product{
	{
		Name:        "Hat",
		CategoryID:  1,
		Code:        "PROD-0555",
		Description: "Embroidered cotton twill cap with an adjustable strap.",
		Price:       decimal.RequireFromString("14.95"),
		Image:       "PROD-0555-hat.png",
	},
	{
		Name:        "Men's Pullover Jacket",
		CategoryID:  1,
		Code:        "PROD-0123",
		Description: "Quarter-zip fleece pullover with the school crest.",
		Price:       decimal.RequireFromString("39.99"),
	},
	{
		Name:        "Prep School Ringspun T-Shirt",
		CategoryID:  1,
		Code:        "PROD-0987",
		Description: "Soft ringspun cotton tee.",
		Price:       decimal.RequireFromString("31.48"),
	},
	{
		Name:        "Framing Success Classic Diploma Frame",
		CategoryID:  2,
		Code:        "PROD-0407",
		Description: "Hardwood diploma frame with a gold-embossed mat.",
		Price:       decimal.RequireFromString("235.00"),
	},
}

// SeedProducts inserts the starter catalog once; products are matched by code.
func SeedProducts(db *gorm.DB) error {
	for _, p := range products {
		var n int64
		if err := db.Model(&models.Product{}).Where("code = ?", p.Code).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			continue
		}
		if err := db.Omit(clause.Associations).Create(&p).Error; err != nil {
			return fmt.Errorf("create product %s: %w", p.Code, err)
		}
	}
	return nil
}
