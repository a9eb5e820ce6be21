package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Favorite struct {
	ID        string          `gorm:"primaryKey;type:varchar(64)" json:"id"`
	UserID    string          `gorm:"index;not null;type:varchar(128)" json:"userId"`
	ProductID string          `gorm:"index;not null;type:varchar(64)" json:"productId"`
	Name      string          `json:"name"`
	ImageURL  string          `json:"imageUrl"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2)" json:"price"`
	Category  string          `json:"category"`
	AddedAt   time.Time       `json:"addedAt"`
}
