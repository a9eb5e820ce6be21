package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type ProductStatus string

const (
	ProductInStock    ProductStatus = "In Stock"
	ProductLowStock   ProductStatus = "Low Stock"
	ProductOutOfStock ProductStatus = "Out of Stock"
)

var ErrInvalidProductStatus = errors.New("invalid product status")

// ParseProductStatus accepts the display form ("Low Stock") or a snake/kebab form ("low_stock").
func ParseProductStatus(s string) (ProductStatus, error) {
	norm := strings.ToLower(strings.NewReplacer("_", " ", "-", " ").Replace(strings.TrimSpace(s)))
	switch norm {
	case "in stock":
		return ProductInStock, nil
	case "low stock":
		return ProductLowStock, nil
	case "out of stock":
		return ProductOutOfStock, nil
	}
	return "", ErrInvalidProductStatus
}

// Product status is set by the admin and is not derived from Quantity.
type Product struct {
	ID              string          `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Name            string          `gorm:"not null" json:"name"`
	Description     string          `json:"description"`
	OriginalPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"originalPrice"`
	DiscountedPrice decimal.Decimal `gorm:"type:decimal(12,2)" json:"discountedPrice"`
	Category        string          `json:"category"`
	CategorySlug    string          `gorm:"index" json:"categorySlug"`
	Quantity        int             `json:"quantity"`
	Status          ProductStatus   `gorm:"type:varchar(20);default:'In Stock'" json:"status"`
	ImageURL        string          `json:"imageUrl"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// EffectivePrice is what a shopper pays: the discounted price when one is set.
func (p Product) EffectivePrice() decimal.Decimal {
	if p.DiscountedPrice.IsPositive() {
		return p.DiscountedPrice
	}
	return p.OriginalPrice
}

type ProductSort string

const (
	SortNewest    ProductSort = "newest"
	SortPriceAsc  ProductSort = "price_asc"
	SortPriceDesc ProductSort = "price_desc"
	SortName      ProductSort = "name"
)

type ProductFilter struct {
	CategorySlug string
	Search       string
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	Sort         ProductSort
	Page
}

// Category is a distinct category label with its slug and product count.
type Category struct {
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Count int64  `json:"count"`
}
