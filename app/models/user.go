package models

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/pkg/rbac"
)

// Roles a User can hold.
const (
	RoleAdmin    = rbac.RoleAdmin
	RoleCustomer = rbac.RoleCustomer
)

// User is an account that can log in. Users are created by the seeder only.
type User struct {
	gorm.Model
	Username  string `gorm:"uniqueIndex;size:100;not null" json:"username"`
	Email     string `gorm:"size:255"                      json:"email"`
	FirstName string `gorm:"size:100"                      json:"first_name"`
	LastName  string `gorm:"size:100"                      json:"last_name"`
	Password  string `gorm:"size:255;not null"             json:"-"` // bcrypt hash
	Role      string `gorm:"size:20;not null;index"        json:"role"`
}

// Customer links a User to the orders they place.
type Customer struct {
	ID     uint `gorm:"primaryKey"               json:"id"`
	UserID uint `gorm:"uniqueIndex;not null"     json:"user_id"`
	User   User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
