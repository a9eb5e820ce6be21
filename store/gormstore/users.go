package gormstore

import (
	"context"

	"github.com/junaidrashid-git/beauty-api/models"
	"gorm.io/gorm/clause"
)

// UpsertUser refreshes identity fields on login and leaves profile edits alone.
func (s *Store) UpsertUser(ctx context.Context, u *models.User) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "role", "updated_at"}),
	}).Create(u).Error
}

func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (s *Store) UpdateUser(ctx context.Context, u *models.User) error {
	return s.db.WithContext(ctx).Save(u).Error
}

func (s *Store) ListUsers(ctx context.Context, page models.Page) (models.PageResult[models.User], error) {
	page = page.Normalize()
	result := models.PageResult[models.User]{Items: []models.User{}, Page: page.Page, Limit: page.Limit}
	query := s.db.WithContext(ctx).Model(&models.User{})
	if err := query.Count(&result.Total).Error; err != nil {
		return result, err
	}
	err := query.Order("created_at DESC").Offset(page.Offset()).Limit(page.Limit).Find(&result.Items).Error
	return result, err
}
