package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/database"
)

// Bucket is one labelled count in a data series.
type Bucket struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// AnalyticsRepository runs the read-only aggregate queries.
type AnalyticsRepository struct {
	db *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// ProductsPerCategory counts live products per category, by category name.
// Categories without products are omitted.
func (r *AnalyticsRepository) ProductsPerCategory(ctx context.Context) ([]Bucket, error) {
	var out []Bucket
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Select("product_categories.name AS label, COUNT(products.id) AS count").
		Joins("JOIN product_categories ON product_categories.id = products.category_id").
		Group("product_categories.name").
		Order("product_categories.name").
		Scan(&out).Error
	return out, err
}

// OrdersSince counts orders placed at or after since.
func (r *AnalyticsRepository) OrdersSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.StoreOrder{}).Where("order_date >= ?", since).Count(&n).Error
	return n, err
}

// OrdersPerState counts orders by shipping state.
func (r *AnalyticsRepository) OrdersPerState(ctx context.Context) ([]Bucket, error) {
	var out []Bucket
	err := r.db.WithContext(ctx).
		Model(&models.StoreOrder{}).
		Select("state AS label, COUNT(id) AS count").
		Group("state").
		Order("state").
		Scan(&out).Error
	return out, err
}

// OrdersPerMonth counts orders by YYYY-MM of their order date.
func (r *AnalyticsRepository) OrdersPerMonth(ctx context.Context) ([]Bucket, error) {
	month := database.MonthExpr(r.db, "order_date")
	var out []Bucket
	err := r.db.WithContext(ctx).
		Model(&models.StoreOrder{}).
		Select(month + " AS label, COUNT(id) AS count").
		Group(month).
		Order(month).
		Scan(&out).Error
	return out, err
}
