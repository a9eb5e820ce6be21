package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem lives under users/{uid}/cart. Price is captured when the item is added and is not
// re-validated against the live product.
type CartItem struct {
	ID        string          `gorm:"primaryKey;type:varchar(64)" json:"id"`
	UserID    string          `gorm:"index;not null;type:varchar(128)" json:"-"`
	ProductID string          `gorm:"index;not null;type:varchar(64)" json:"productId"`
	Name      string          `json:"name"`
	ImageURL  string          `json:"imageUrl"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	AddedAt   time.Time       `json:"addedAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func (i CartItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is a read model over a user's cart items.
type Cart struct {
	UserID string     `json:"userId"`
	Items  []CartItem `json:"items"`
}

func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Count is the number of units, not lines.
func (c Cart) Count() int {
	n := 0
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}
