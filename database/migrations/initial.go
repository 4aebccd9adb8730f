package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/migration"
)

func init() {
	migration.Register("20260101000000_create_users_table", &CreateUsersTable{})
	migration.Register("20260101000001_create_customers_table", &CreateCustomersTable{})
	migration.Register("20260101000002_create_product_categories_table", &CreateProductCategoriesTable{})
	migration.Register("20260101000003_create_products_table", &CreateProductsTable{})
	migration.Register("20260101000004_create_store_orders_table", &CreateStoreOrdersTable{})
	migration.Register("20260101000005_create_order_items_table", &CreateOrderItemsTable{})
}

type CreateUsersTable struct{}

func (m *CreateUsersTable) Up(db *gorm.DB) error   { return db.AutoMigrate(&models.User{}) }
func (m *CreateUsersTable) Down(db *gorm.DB) error { return db.Migrator().DropTable("users") }

type CreateCustomersTable struct{}

func (m *CreateCustomersTable) Up(db *gorm.DB) error   { return db.AutoMigrate(&models.Customer{}) }
func (m *CreateCustomersTable) Down(db *gorm.DB) error { return db.Migrator().DropTable("customers") }

type CreateProductCategoriesTable struct{}

func (m *CreateProductCategoriesTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.ProductCategory{})
}

func (m *CreateProductCategoriesTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("product_categories")
}

type CreateProductsTable struct{}

func (m *CreateProductsTable) Up(db *gorm.DB) error   { return db.AutoMigrate(&models.Product{}) }
func (m *CreateProductsTable) Down(db *gorm.DB) error { return db.Migrator().DropTable("products") }

type CreateStoreOrdersTable struct{}

func (m *CreateStoreOrdersTable) Up(db *gorm.DB) error { return db.AutoMigrate(&models.StoreOrder{}) }

func (m *CreateStoreOrdersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("store_orders")
}

type CreateOrderItemsTable struct{}

func (m *CreateOrderItemsTable) Up(db *gorm.DB) error { return db.AutoMigrate(&models.OrderItem{}) }

func (m *CreateOrderItemsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("order_items")
}
