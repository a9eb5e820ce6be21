// Package events carries order lifecycle notifications to the admin dashboard and to Kafka.
package events

import (
	"context"
	"errors"
	"time"

	"github.com/junaidrashid-git/beauty-api/models"
)

type Type string

const (
	OrderCreated        Type = "order.created"
	OrderStatusChanged  Type = "order.status_changed"
	OrderPaymentChanged Type = "order.payment_changed"
	OrderDeleted        Type = "order.deleted"
)

type Event struct {
	Type          Type                 `json:"type"`
	OrderID       string               `json:"orderId"`
	OrderNumber   string               `json:"orderNumber,omitempty"`
	Status        models.OrderStatus   `json:"status,omitempty"`
	PaymentStatus models.PaymentStatus `json:"paymentStatus,omitempty"`
	UserID        string               `json:"userId,omitempty"`
	At            time.Time            `json:"at"`
}

// ForOrder builds an event of type t describing o as it is now.
func ForOrder(t Type, o *models.Order) Event {
	return Event{
		Type:          t,
		OrderID:       o.ID,
		OrderNumber:   o.OrderNumber,
		Status:        o.Status,
		PaymentStatus: o.PaymentStatus,
		UserID:        o.UserID,
		At:            o.UpdatedAt,
	}
}

//go:generate mockgen -destination=../mocks/mock_publisher.go -package=mocks github.com/junaidrashid-git/beauty-api/events Publisher

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Multi fans an event out to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, e Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop discards events.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
