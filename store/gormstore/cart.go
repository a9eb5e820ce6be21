package gormstore

import (
	"context"

	"github.com/google/uuid"
	"github.com/junaidrashid-git/beauty-api/models"
	"github.com/junaidrashid-git/beauty-api/store"
)

func (s *Store) CartItems(ctx context.Context, uid string) ([]models.CartItem, error) {
	items := []models.CartItem{}
	err := s.db.WithContext(ctx).
		Where("user_id = ?", uid).
		Order("added_at ASC, id ASC").
		Find(&items).Error
	return items, err
}

func (s *Store) GetCartItem(ctx context.Context, uid, itemID string) (*models.CartItem, error) {
	var item models.CartItem
	if err := s.db.WithContext(ctx).First(&item, "user_id = ? AND id = ?", uid, itemID).Error; err != nil {
		return nil, notFound(err)
	}
	return &item, nil
}

func (s *Store) FindCartItemByProduct(ctx context.Context, uid, productID string) (*models.CartItem, error) {
	var item models.CartItem
	if err := s.db.WithContext(ctx).First(&item, "user_id = ? AND product_id = ?", uid, productID).Error; err != nil {
		return nil, notFound(err)
	}
	return &item, nil
}

func (s *Store) AddCartItem(ctx context.Context, uid string, item *models.CartItem) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	item.UserID = uid
	if item.AddedAt.IsZero() {
		item.AddedAt = s.now()
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) SetCartQuantity(ctx context.Context, uid, itemID string, qty int) (*models.CartItem, error) {
	res := s.db.WithContext(ctx).Model(&models.CartItem{}).
		Where("user_id = ? AND id = ?", uid, itemID).
		Updates(map[string]any{"quantity": qty, "updated_at": s.now()})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, store.ErrNotFound
	}
	return s.GetCartItem(ctx, uid, itemID)
}

func (s *Store) RemoveCartItem(ctx context.Context, uid, itemID string) error {
	res := s.db.WithContext(ctx).Where("user_id = ? AND id = ?", uid, itemID).Delete(&models.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ClearCart(ctx context.Context, uid string) error {
	return s.db.WithContext(ctx).Where("user_id = ?", uid).Delete(&models.CartItem{}).Error
}
