package gormstore

import (
	"context"

	"github.com/google/uuid"
	"github.com/junaidrashid-git/beauty-api/models"
	"github.com/junaidrashid-git/beauty-api/store"
)

func (s *Store) CreateBooking(ctx context.Context, b *models.Booking) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return s.db.WithContext(ctx).Create(b).Error
}

func (s *Store) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	var b models.Booking
	if err := s.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

func (s *Store) ListBookings(ctx context.Context, uid string) ([]models.Booking, error) {
	bookings := []models.Booking{}
	query := s.db.WithContext(ctx).Order("date DESC, time DESC")
	if uid != "" {
		query = query.Where("user_id = ?", uid)
	}
	err := query.Find(&bookings).Error
	return bookings, err
}

func (s *Store) UpdateBookingStatus(ctx context.Context, id string, from, to models.BookingStatus) (*models.Booking, error) {
	res := s.db.WithContext(ctx).Model(&models.Booking{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{"status": to, "updated_at": s.now()})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := s.GetBooking(ctx, id); err != nil {
			return nil, err
		}
		return nil, store.ErrConflict
	}
	return s.GetBooking(ctx, id)
}

func (s *Store) DeleteBooking(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Booking{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}
