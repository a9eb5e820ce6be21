package gormstore

import (
	"context"

	"github.com/google/uuid"
	"github.com/junaidrashid-git/beauty-api/models"
)

func (s *Store) Favorites(ctx context.Context, uid string) ([]models.Favorite, error) {
	favs := []models.Favorite{}
	err := s.db.WithContext(ctx).Where("user_id = ?", uid).Order("added_at DESC").Find(&favs).Error
	return favs, err
}

func (s *Store) FindFavoriteByProduct(ctx context.Context, uid, productID string) (*models.Favorite, error) {
	var fav models.Favorite
	if err := s.db.WithContext(ctx).First(&fav, "user_id = ? AND product_id = ?", uid, productID).Error; err != nil {
		return nil, notFound(err)
	}
	return &fav, nil
}

func (s *Store) AddFavorite(ctx context.Context, f *models.Favorite) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	if f.AddedAt.IsZero() {
		f.AddedAt = s.now()
	}
	return s.db.WithContext(ctx).Create(f).Error
}

func (s *Store) RemoveFavorite(ctx context.Context, uid, favoriteID string) (bool, error) {
	res := s.db.WithContext(ctx).Where("user_id = ? AND id = ?", uid, favoriteID).Delete(&models.Favorite{})
	return res.RowsAffected > 0, res.Error
}
