package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

var ErrInvalidBookingStatus = errors.New("invalid booking status")

func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(strings.ToLower(strings.TrimSpace(s)))
	switch status {
	case BookingPending, BookingConfirmed, BookingCompleted, BookingCancelled:
		return status, nil
	}
	return "", ErrInvalidBookingStatus
}

// CanTransition allows pending → confirmed → completed and cancelling an open booking.
func (s BookingStatus) CanTransition(to BookingStatus) bool {
	switch {
	case s == BookingPending && to == BookingConfirmed:
		return true
	case s == BookingConfirmed && to == BookingCompleted:
		return true
	case to == BookingCancelled:
		return s == BookingPending || s == BookingConfirmed
	}
	return false
}

// Booking is a consultation slot; it does not go through checkout.
type Booking struct {
	ID        string          `gorm:"primaryKey;type:varchar(64)" json:"id"`
	UserID    string          `gorm:"index;not null;type:varchar(128)" json:"userId"`
	Plan      string          `gorm:"not null" json:"plan"`
	Date      string          `gorm:"type:varchar(10);not null" json:"date"`
	Time      string          `gorm:"type:varchar(5);not null" json:"time"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2)" json:"amount"`
	Status    BookingStatus   `gorm:"type:varchar(20);default:'pending'" json:"status"`
	Notes     string          `json:"notes,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}
