package services

import (
	"context"
	"strings"

	"github.com/junaidrashid-git/beauty-api/models"
	"github.com/junaidrashid-git/beauty-api/store"
)

type ProfileInput struct {
	Name    string                 `json:"name"`
	Phone   string                 `json:"phone"`
	Address models.ShippingAddress `json:"address"`
}

type UserService struct {
	users store.UserStore
}

func NewUserService(users store.UserStore) *UserService {
	return &UserService{users: users}
}

// Sync records an identity seen at login. Profile fields the user edited are left alone.
func (s *UserService) Sync(ctx context.Context, uid, email, role string) (*models.User, error) {
	if role == "" {
		role = models.RoleUser
	}
	if err := s.users.UpsertUser(ctx, &models.User{ID: uid, Email: email, Role: role}); err != nil {
		return nil, err
	}
	return s.users.GetUser(ctx, uid)
}

func (s *UserService) Profile(ctx context.Context, uid string) (*models.User, error) {
	return s.users.GetUser(ctx, uid)
}

func (s *UserService) UpdateProfile(ctx context.Context, uid string, in ProfileInput) (*models.User, error) {
	u, err := s.users.GetUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	u.Name = strings.TrimSpace(in.Name)
	u.Phone = strings.TrimSpace(in.Phone)
	u.Address = in.Address
	if err := s.users.UpdateUser(ctx, u); err != nil {
		return nil, err
	}
	return s.users.GetUser(ctx, uid)
}

func (s *UserService) List(ctx context.Context, page models.Page) (models.PageResult[models.User], error) {
	return s.users.ListUsers(ctx, page)
}
