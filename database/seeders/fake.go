package seeders

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shashiranjanraj/storefront/app/models"
)

// FakeStates are the shipping states synthetic orders are spread across.
var FakeStates = []string{"MD", "DC", "VA", "TX", "FL", "NY", "CA", "DE"}

// FakeOptions controls Fake.
type FakeOptions struct {
	Orders   int
	Products int
	Now      time.Time
	Rand     *rand.Rand
}

// Fake adds synthetic products and orders for the analytics dashboard.
// Orders belong to the first customer, carry one to three lines, and are
// dated within the 366 days before opts.Now.
func Fake(db *gorm.DB, opts FakeOptions) error {
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	rng := opts.Rand

	return db.Transaction(func(tx *gorm.DB) error {
		var cats []models.ProductCategory
		if err := tx.Order("id").Find(&cats).Error; err != nil {
			return err
		}
		if len(cats) == 0 && opts.Products > 0 {
			return fmt.Errorf("fake products: no categories, run the base seeders first")
		}

		for i := 0; i < opts.Products; i++ {
			cents := 100 + rng.Int63n(25000)
			p := models.Product{
				Name:        fmt.Sprintf("Sample Product %03d", i+1),
				CategoryID:  cats[rng.Intn(len(cats))].ID,
				Code:        fmt.Sprintf("FAKE-%04d", i+1),
				Description: "Generated for demo data.",
				Price:       decimal.New(cents, -2),
			}
			if err := tx.Omit(clause.Associations).Create(&p).Error; err != nil {
				return fmt.Errorf("fake product %d: %w", i+1, err)
			}
		}

		if opts.Orders == 0 {
			return nil
		}

		var customer models.Customer
		if err := tx.Order("id").First(&customer).Error; err != nil {
			return fmt.Errorf("fake orders: no customer: %w", err)
		}
		var productIDs []uint
		if err := tx.Model(&models.Product{}).Order("id").Pluck("id", &productIDs).Error; err != nil {
			return err
		}
		if len(productIDs) == 0 {
			return fmt.Errorf("fake orders: no products")
		}

		for i := 0; i < opts.Orders; i++ {
			o := models.StoreOrder{
				CustomerID:  customer.ID,
				FirstName:   "Demo",
				LastName:    fmt.Sprintf("Buyer %d", i+1),
				PhoneNumber: "555-0100",
				Email:       "demo@example.com",
				Address:     fmt.Sprintf("%d Market St", 100+i),
				City:        "Springfield",
				State:       FakeStates[rng.Intn(len(FakeStates))],
				Zip:         "20001",
				OrderDate:   opts.Now.Add(-time.Duration(rng.Int63n(int64(366 * 24 * time.Hour)))),
			}
			if err := tx.Omit(clause.Associations).Create(&o).Error; err != nil {
				return fmt.Errorf("fake order %d: %w", i+1, err)
			}

			lines := 1 + rng.Intn(3)
			for j := 0; j < lines; j++ {
				item := models.OrderItem{
					OrderID:   o.ID,
					ProductID: productIDs[rng.Intn(len(productIDs))],
					Quantity:  1 + rng.Intn(5),
				}
				if err := tx.Omit(clause.Associations).Create(&item).Error; err != nil {
					return fmt.Errorf("fake order %d line: %w", i+1, err)
				}
			}
		}
		return nil
	})
}
