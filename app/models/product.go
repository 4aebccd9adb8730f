package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductCategory groups products. Read-only outside the seeder.
type ProductCategory struct {
	ID   uint   `gorm:"primaryKey"                   json:"id"`
	Name string `gorm:"uniqueIndex;size:100;not null" json:"name"`
}

// Product is a catalog entry. Deleting one is a soft delete so order lines
// keep pointing at a real row.
type Product struct {
	gorm.Model
	Name        string          `gorm:"size:255;not null;index"    json:"name"`
	CategoryID  uint            `gorm:"not null;index"             json:"category_id"`
	Category    ProductCategory `gorm:"constraint:OnDelete:RESTRICT" json:"category"`
	Code        string          `gorm:"size:50;not null"           json:"code"`
	Description string          `gorm:"type:text"                  json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Image       string          `gorm:"size:255"                   json:"image"`
}
