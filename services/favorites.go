package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/junaidrashid-git/beauty-api/models"
	"github.com/junaidrashid-git/beauty-api/store"
)

type FavoriteService struct {
	favorites store.FavoriteStore
	products  store.ProductStore
}

func NewFavoriteService(favorites store.FavoriteStore, products store.ProductStore) *FavoriteService {
	return &FavoriteService{favorites: favorites, products: products}
}

func (s *FavoriteService) List(ctx context.Context, uid string) ([]models.Favorite, error) {
	return s.favorites.Favorites(ctx, uid)
}

// Add returns the existing favorite when the product is already saved.
func (s *FavoriteService) Add(ctx context.Context, uid, productID string) (*models.Favorite, error) {
	if productID == "" {
		return nil, invalid("productId is required")
	}
	existing, err := s.favorites.FindFavoriteByProduct(ctx, uid, productID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	p, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("product %s: %w", productID, err)
	}
	f := &models.Favorite{
		UserID:    uid,
		ProductID: p.ID,
		Name:      p.Name,
		ImageURL:  p.ImageURL,
		Price:     p.EffectivePrice(),
		Category:  p.Category,
	}
	if err := s.favorites.AddFavorite(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// Remove is idempotent; it reports whether anything was deleted.
func (s *FavoriteService) Remove(ctx context.Context, uid, favoriteID string) (bool, error) {
	return s.favorites.RemoveFavorite(ctx, uid, favoriteID)
}
