package gormstore

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/junaidrashid-git/beauty-api/models"
	"github.com/junaidrashid-git/beauty-api/store"
	"gorm.io/gorm"
)

const effectivePrice = "CASE WHEN discounted_price > 0 THEN discounted_price ELSE original_price END"

func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return s.db.WithContext(ctx).Create(p).Error
}

func (s *Store) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	if err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (s *Store) UpdateProduct(ctx context.Context, p *models.Product) error {
	res := s.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", p.ID).Updates(map[string]any{
		"name":             p.Name,
		"description":      p.Description,
		"original_price":   p.OriginalPrice,
		"discounted_price": p.DiscountedPrice,
		"category":         p.Category,
		"category_slug":    p.CategorySlug,
		"quantity":         p.Quantity,
		"status":           p.Status,
		"image_url":        p.ImageURL,
		"updated_at":       s.now(),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return s.db.WithContext(ctx).First(p, "id = ?", p.ID).Error
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ListProducts(ctx context.Context, f models.ProductFilter) (models.PageResult[models.Product], error) {
	page := f.Page.Normalize()
	result := models.PageResult[models.Product]{Items: []models.Product{}, Page: page.Page, Limit: page.Limit}

	query := s.db.WithContext(ctx).Model(&models.Product{})
	if f.CategorySlug != "" {
		query = query.Where("category_slug = ?", f.CategorySlug)
	}
	if search := strings.ToLower(strings.TrimSpace(f.Search)); search != "" {
		like := "%" + search + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(category) LIKE ?", like, like, like)
	}
	if f.MinPrice != nil {
		query = query.Where(effectivePrice+" >= ?", f.MinPrice.InexactFloat64())
	}
	if f.MaxPrice != nil {
		query = query.Where(effectivePrice+" <= ?", f.MaxPrice.InexactFloat64())
	}

	if err := query.Count(&result.Total).Error; err != nil {
		return result, err
	}

	err := query.Order(productOrder(f.Sort)).
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&result.Items).Error
	return result, err
}

func productOrder(sort models.ProductSort) string {
	switch sort {
	case models.SortPriceAsc:
		return effectivePrice + " ASC, name ASC"
	case models.SortPriceDesc:
		return effectivePrice + " DESC, name ASC"
	case models.SortName:
		return "name ASC"
	default:
		return "created_at DESC, id ASC"
	}
}

func (s *Store) Categories(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	err := s.db.WithContext(ctx).Model(&models.Product{}).
		Select("category AS name, category_slug AS slug, COUNT(*) AS count").
		Where("category_slug <> ''").
		Group("category_slug, category").
		Order("category ASC").
		Scan(&categories).Error
	return categories, err
}

// adjustStock is used inside PlaceOrder; callers hold the row lock.
func adjustStock(tx *gorm.DB, productID string, delta int, at any) error {
	return tx.Model(&models.Product{}).Where("id = ?", productID).Updates(map[string]any{
		"quantity":   gorm.Expr("quantity + ?", delta),
		"updated_at": at,
	}).Error
}
