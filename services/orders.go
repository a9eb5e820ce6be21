package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/junaidrashid-git/beauty-api/events"
	"github.com/junaidrashid-git/beauty-api/models"
	"github.com/junaidrashid-git/beauty-api/store"
	"github.com/rs/zerolog/log"
)

// OrderTracker is the admin surface over orders. Status only moves one step forward along
// pending → processing → shipped → delivered, or to cancelled from a non-terminal state.
type OrderTracker struct {
	orders    store.OrderStore
	publisher events.Publisher
}

func NewOrderTracker(orders store.OrderStore, publisher events.Publisher) *OrderTracker {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &OrderTracker{orders: orders, publisher: publisher}
}

func (t *OrderTracker) List(ctx context.Context, f models.OrderFilter) (models.PageResult[models.Order], error) {
	f.Query = strings.TrimSpace(f.Query)
	return t.orders.ListOrders(ctx, f)
}

func (t *OrderTracker) Get(ctx context.Context, id string) (*models.Order, error) {
	return t.orders.GetOrder(ctx, id)
}

func (t *OrderTracker) ListForUser(ctx context.Context, uid string) ([]models.Order, error) {
	return t.orders.ListUserOrders(ctx, uid)
}

// GetForUser returns the order only if uid owns it.
func (t *OrderTracker) GetForUser(ctx context.Context, uid, id string) (*models.Order, error) {
	o, err := t.orders.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.UserID != uid {
		return nil, store.ErrNotFound
	}
	return o, nil
}

func (t *OrderTracker) Delete(ctx context.Context, id string) error {
	o, err := t.orders.GetOrder(ctx, id)
	if err != nil {
		return err
	}
	if err := t.orders.DeleteOrder(ctx, id); err != nil {
		return err
	}
	t.publish(ctx, events.ForOrder(events.OrderDeleted, o))
	return nil
}

// Advance moves the order exactly one step forward.
func (t *OrderTracker) Advance(ctx context.Context, id string) (*models.Order, error) {
	o, err := t.orders.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	next, ok := o.Status.Next()
	if !ok {
		return o, fmt.Errorf("%w: %s order cannot advance", ErrInvalidTransition, o.Status)
	}
	return t.transition(ctx, o, next)
}

func (t *OrderTracker) Cancel(ctx context.Context, id string) (*models.Order, error) {
	o, err := t.orders.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if !o.Status.CanCancel() {
		return o, fmt.Errorf("%w: %s order cannot be cancelled", ErrInvalidTransition, o.Status)
	}
	return t.transition(ctx, o, models.OrderStatusCancelled)
}

// Apply runs an admin action by name.
func (t *OrderTracker) Apply(ctx context.Context, id string, action models.OrderAction) (*models.Order, error) {
	switch action {
	case models.ActionAdvance:
		return t.Advance(ctx, id)
	case models.ActionCancel:
		return t.Cancel(ctx, id)
	}
	return nil, invalid("unknown action %q", action)
}

func (t *OrderTracker) transition(ctx context.Context, o *models.Order, to models.OrderStatus) (*models.Order, error) {
	updated, err := t.orders.UpdateOrderStatus(ctx, o.ID, o.Status, to)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			log.Info().Str("order_id", o.ID).Str("from", string(o.Status)).Str("to", string(to)).
				Msg("order status changed concurrently")
		}
		return nil, err
	}
	log.Info().Str("order_id", o.ID).Str("order_number", o.OrderNumber).
		Str("from", string(o.Status)).Str("to", string(to)).Msg("order status updated")
	t.publish(ctx, events.ForOrder(events.OrderStatusChanged, updated))
	return updated, nil
}

func (t *OrderTracker) SetPaymentStatus(ctx context.Context, id string, status models.PaymentStatus) (*models.Order, error) {
	if _, err := models.ParsePaymentStatus(string(status)); err != nil {
		return nil, invalid("%v", err)
	}
	o, err := t.orders.UpdatePaymentStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	t.publish(ctx, events.ForOrder(events.OrderPaymentChanged, o))
	return o, nil
}

func (t *OrderTracker) SetTracking(ctx context.Context, id, trackingNumber string) (*models.Order, error) {
	trackingNumber = strings.TrimSpace(trackingNumber)
	if trackingNumber == "" {
		return nil, invalid("trackingNumber is required")
	}
	return t.orders.UpdateTracking(ctx, id, trackingNumber)
}

// TotalMismatch is one order whose stored total disagrees with its items.
type TotalMismatch struct {
	OrderID     string `json:"orderId"`
	OrderNumber string `json:"orderNumber"`
	TotalAmount string `json:"totalAmount"`
	ItemsTotal  string `json:"itemsTotal"`
}

// AuditTotals reports every order whose totalAmount is not the sum of its item subtotals.
func (t *OrderTracker) AuditTotals(ctx context.Context) ([]TotalMismatch, error) {
	mismatches := []TotalMismatch{}
	err := t.orders.AllOrders(ctx, func(o models.Order) error {
		if o.VerifyTotal() != nil {
			mismatches = append(mismatches, TotalMismatch{
				OrderID:     o.ID,
				OrderNumber: o.OrderNumber,
				TotalAmount: o.TotalAmount.StringFixed(2),
				ItemsTotal:  o.ItemsTotal().StringFixed(2),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(mismatches) > 0 {
		log.Warn().Int("orders", len(mismatches)).Msg("orders with inconsistent totals")
	}
	return mismatches, nil
}

func (t *OrderTracker) Stats(ctx context.Context) (models.OrderStats, error) {
	return t.orders.OrderStats(ctx)
}

func (t *OrderTracker) publish(ctx context.Context, e events.Event) {
	if err := t.publisher.Publish(ctx, e); err != nil {
		log.Warn().Err(err).Str("event", string(e.Type)).Str("order_id", e.OrderID).Msg("publish order event")
	}
}
