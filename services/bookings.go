package services

import (
	"context"
	"strings"
	"time"

	"github.com/junaidrashid-git/beauty-api/models"
	"github.com/junaidrashid-git/beauty-api/store"
	"github.com/shopspring/decimal"
)

type BookingRequest struct {
	Plan   string          `json:"plan"`
	Date   string          `json:"date"`
	Time   string          `json:"time"`
	Amount decimal.Decimal `json:"amount"`
	Notes  string          `json:"notes"`
}

type BookingService struct {
	bookings store.BookingStore
}

func NewBookingService(bookings store.BookingStore) *BookingService {
	return &BookingService{bookings: bookings}
}

func (s *BookingService) Create(ctx context.Context, uid string, req BookingRequest) (*models.Booking, error) {
	plan := strings.TrimSpace(req.Plan)
	if plan == "" {
		return nil, invalid("plan is required")
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		return nil, invalid("date must be YYYY-MM-DD")
	}
	if _, err := time.Parse("15:04", req.Time); err != nil {
		return nil, invalid("time must be HH:MM")
	}
	if req.Amount.IsNegative() {
		return nil, invalid("amount cannot be negative")
	}
	b := &models.Booking{
		UserID: uid,
		Plan:   plan,
		Date:   req.Date,
		Time:   req.Time,
		Amount: req.Amount,
		Status: models.BookingPending,
		Notes:  strings.TrimSpace(req.Notes),
	}
	if err := s.bookings.CreateBooking(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *BookingService) ListForUser(ctx context.Context, uid string) ([]models.Booking, error) {
	return s.bookings.ListBookings(ctx, uid)
}

func (s *BookingService) ListAll(ctx context.Context) ([]models.Booking, error) {
	return s.bookings.ListBookings(ctx, "")
}

func (s *BookingService) Get(ctx context.Context, id string) (*models.Booking, error) {
	return s.bookings.GetBooking(ctx, id)
}

// CancelForUser lets a shopper cancel their own open booking.
func (s *BookingService) CancelForUser(ctx context.Context, uid, id string) (*models.Booking, error) {
	b, err := s.bookings.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.UserID != uid {
		return nil, store.ErrNotFound
	}
	return s.SetStatus(ctx, id, models.BookingCancelled)
}

func (s *BookingService) SetStatus(ctx context.Context, id string, to models.BookingStatus) (*models.Booking, error) {
	b, err := s.bookings.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if !b.Status.CanTransition(to) {
		return b, ErrInvalidTransition
	}
	return s.bookings.UpdateBookingStatus(ctx, id, b.Status, to)
}

func (s *BookingService) Delete(ctx context.Context, id string) error {
	return s.bookings.DeleteBooking(ctx, id)
}
