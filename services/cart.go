package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/junaidrashid-git/beauty-api/models"
	"github.com/junaidrashid-git/beauty-api/store"
)

type CartService struct {
	carts    store.CartStore
	products store.ProductStore
}

func NewCartService(carts store.CartStore, products store.ProductStore) *CartService {
	return &CartService{carts: carts, products: products}
}

func (s *CartService) Cart(ctx context.Context, uid string) (models.Cart, error) {
	items, err := s.carts.CartItems(ctx, uid)
	if err != nil {
		return models.Cart{}, fmt.Errorf("load cart: %w", err)
	}
	return models.Cart{UserID: uid, Items: items}, nil
}

// AddItem snapshots the product's current price into the cart, or bumps the line that
// already holds it. Stock is not checked here; PlaceOrder enforces it.
func (s *CartService) AddItem(ctx context.Context, uid, productID string, qty int) (*models.CartItem, error) {
	if productID == "" {
		return nil, invalid("productId is required")
	}
	if qty <= 0 {
		qty = 1
	}
	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("product %s: %w", productID, err)
	}

	existing, err := s.carts.FindCartItemByProduct(ctx, uid, productID)
	switch {
	case err == nil:
		next, err := grow(existing.Quantity, qty)
		if err != nil {
			return existing, err
		}
		return s.carts.SetCartQuantity(ctx, uid, existing.ID, next)
	case !errors.Is(err, store.ErrNotFound):
		return nil, err
	}

	item := &models.CartItem{
		ProductID: product.ID,
		Name:      product.Name,
		ImageURL:  product.ImageURL,
		Price:     product.EffectivePrice(),
		Quantity:  qty,
	}
	if err := s.carts.AddCartItem(ctx, uid, item); err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateQuantity applies delta to an item. A result below 1 is refused with ErrBelowMinimum
// and the stored item is returned untouched.
func (s *CartService) UpdateQuantity(ctx context.Context, uid, itemID string, delta int) (*models.CartItem, error) {
	item, err := s.carts.GetCartItem(ctx, uid, itemID)
	if err != nil {
		return nil, err
	}
	if delta == 0 {
		return item, nil
	}
	if delta < 0 {
		if item.Quantity+delta < 1 {
			return item, ErrBelowMinimum
		}
		return s.carts.SetCartQuantity(ctx, uid, itemID, item.Quantity+delta)
	}
	next, err := grow(item.Quantity, delta)
	if err != nil {
		return item, err
	}
	return s.carts.SetCartQuantity(ctx, uid, itemID, next)
}

// grow adds more to have, refusing sums that do not fit in an int.
func grow(have, more int) (int, error) {
	if more > math.MaxInt-have {
		return have, invalid("quantity %d is too large", more)
	}
	return have + more, nil
}

// SetQuantity writes an absolute quantity, with the same lower bound as UpdateQuantity.
func (s *CartService) SetQuantity(ctx context.Context, uid, itemID string, qty int) (*models.CartItem, error) {
	item, err := s.carts.GetCartItem(ctx, uid, itemID)
	if err != nil {
		return nil, err
	}
	if qty < 1 {
		return item, ErrBelowMinimum
	}
	if qty == item.Quantity {
		return item, nil
	}
	return s.carts.SetCartQuantity(ctx, uid, itemID, qty)
}

func (s *CartService) RemoveItem(ctx context.Context, uid, itemID string) error {
	return s.carts.RemoveCartItem(ctx, uid, itemID)
}

func (s *CartService) Clear(ctx context.Context, uid string) error {
	return s.carts.ClearCart(ctx, uid)
}
