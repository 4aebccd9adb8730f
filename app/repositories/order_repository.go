package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shashiranjanraj/storefront/app/models"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) WithTx(tx *gorm.DB) *OrderRepository {
	return &OrderRepository{db: tx}
}

// CreateHeader inserts the order header and fills in its ID.
func (r *OrderRepository) CreateHeader(ctx context.Context, o *models.StoreOrder) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(o).Error
}

// CreateItem inserts one order line.
func (r *OrderRepository) CreateItem(ctx context.Context, item *models.OrderItem) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(item).Error
}

// Find returns an order with its lines.
func (r *OrderRepository) Find(ctx context.Context, id uint) (models.StoreOrder, error) {
	var o models.StoreOrder
	err := r.db.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("id")
	}).First(&o, id).Error
	if err != nil {
		return o, fmt.Errorf("orders: find %d: %w", id, notFound(err))
	}
	return o, nil
}

func (r *OrderRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.StoreOrder{}).Count(&n).Error
	return n, err
}

func (r *OrderRepository) CountItems(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.OrderItem{}).Count(&n).Error
	return n, err
}
