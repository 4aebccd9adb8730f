package models

import "time"

// StoreOrder is an order header. Shipping fields are free text.
type StoreOrder struct {
	ID          uint        `gorm:"primaryKey"                json:"id"`
	CustomerID  uint        `gorm:"not null;index"            json:"customer_id"`
	Customer    Customer    `gorm:"constraint:OnDelete:RESTRICT" json:"-"`
	FirstName   string      `gorm:"size:100"                  json:"first_name"`
	LastName    string      `gorm:"size:100"                  json:"last_name"`
	PhoneNumber string      `gorm:"size:50"                   json:"phone_number"`
	Email       string      `gorm:"size:255"                  json:"email"`
	Address     string      `gorm:"size:255"                  json:"address"`
	City        string      `gorm:"size:100"                  json:"city"`
	State       string      `gorm:"size:50;index"             json:"state"`
	Zip         string      `gorm:"size:20"                   json:"zip"`
	OrderDate   time.Time   `gorm:"not null;index;autoCreateTime" json:"order_date"`
	Items       []OrderItem `gorm:"foreignKey:OrderID"        json:"items,omitempty"`
}

// OrderItem is one line of an order. It carries no price: an order's value
// is derived from the current product price.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey"                   json:"id"`
	OrderID   uint    `gorm:"not null;index"               json:"order_id"`
	ProductID uint    `gorm:"not null;index"               json:"product_id"`
	Product   Product `gorm:"constraint:OnDelete:RESTRICT" json:"-"`
	Quantity  int     `gorm:"not null"                     json:"quantity"`
}
