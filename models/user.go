package models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the local profile for an identity-provider account, keyed by its uid.
type User struct {
	ID        string          `gorm:"primaryKey;type:varchar(128)" json:"id"`
	Email     string          `gorm:"index" json:"email"`
	Name      string          `json:"name"`
	Phone     string          `json:"phone"`
	Role      string          `gorm:"type:varchar(20);default:'user'" json:"role"`
	Address   ShippingAddress `gorm:"embedded;embeddedPrefix:addr_" json:"address"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}
