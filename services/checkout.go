package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/junaidrashid-git/beauty-api/events"
	"github.com/junaidrashid-git/beauty-api/models"
	"github.com/junaidrashid-git/beauty-api/payment"
	"github.com/junaidrashid-git/beauty-api/store"
	"github.com/rs/zerolog/log"
)

const (
	PaymentCOD  = "cod"
	PaymentCard = "card"

	cartIDSep = "~"
)

type CheckoutRequest struct {
	UserID          string
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	ShippingAddress models.ShippingAddress
	PaymentMethod   string
	ShippingMethod  string
	// Payment is nil for cash on delivery.
	Payment *payment.Confirmation
}

// stockInvalidator is satisfied by the catalog cache.
type stockInvalidator interface {
	Invalidate(ctx context.Context, ids ...string)
}

type CheckoutService struct {
	carts     store.CartStore
	orders    store.OrderStore
	gateway   payment.Gateway
	publisher events.Publisher
	currency  string
	now       func() time.Time
	catalog   stockInvalidator
}

type CheckoutOption func(*CheckoutService)

func WithClock(now func() time.Time) CheckoutOption {
	return func(s *CheckoutService) { s.now = now }
}

// WithStockInvalidator registers a catalog cache to drop products whose stock an order changed.
func WithStockInvalidator(inv stockInvalidator) CheckoutOption {
	return func(s *CheckoutService) { s.catalog = inv }
}

func NewCheckoutService(carts store.CartStore, orders store.OrderStore, gateway payment.Gateway, publisher events.Publisher, currency string, opts ...CheckoutOption) *CheckoutService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	s := &CheckoutService{
		carts:     carts,
		orders:    orders,
		gateway:   gateway,
		publisher: publisher,
		currency:  currency,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *CheckoutService) orderNumber() string {
	return s.now().UTC().Format("20060102150405") + "-" + strings.ToUpper(uuid.NewString()[:8])
}

// PlaceOrder turns the user's cart into an order. A rejected payment creates nothing.
// An already-used payment reference returns the order it produced the first time.
func (s *CheckoutService) PlaceOrder(ctx context.Context, req CheckoutRequest) (*models.Order, error) {
	if req.UserID == "" {
		return nil, invalid("user is required")
	}
	if missing := req.ShippingAddress.Missing(); len(missing) > 0 {
		return nil, invalid("shipping address missing %s", strings.Join(missing, ", "))
	}

	paymentStatus := models.PaymentStatusPending
	method := req.PaymentMethod
	if method == "" {
		method = PaymentCOD
	}
	var ref *string
	if req.Payment != nil {
		if req.Payment.Status != models.PaymentStatusPaid {
			return nil, ErrPaymentRejected
		}
		paymentStatus = models.PaymentStatusPaid
		if req.Payment.Method != "" {
			method = req.Payment.Method
		}
		if req.Payment.Ref != "" {
			r := req.Payment.Ref
			ref = &r
		}
	}

	items, err := s.carts.CartItems(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if len(items) == 0 {
		if ref != nil {
			prev, err := s.orders.GetOrderByPaymentRef(ctx, *ref)
			if err == nil {
				return prev, nil
			}
			if !errors.Is(err, store.ErrNotFound) {
				return nil, err
			}
		}
		return nil, ErrEmptyCart
	}

	status := models.OrderStatusPending
	if paymentStatus == models.PaymentStatusPaid {
		status = models.OrderStatusProcessing
	}
	name := strings.TrimSpace(req.CustomerName)
	if name == "" {
		name = req.ShippingAddress.FullName()
	}
	email := req.CustomerEmail
	if email == "" {
		email = req.ShippingAddress.Email
	}
	phone := req.CustomerPhone
	if phone == "" {
		phone = req.ShippingAddress.Phone
	}

	order := &models.Order{
		OrderNumber:     s.orderNumber(),
		UserID:          req.UserID,
		CustomerName:    name,
		CustomerEmail:   email,
		CustomerPhone:   phone,
		ShippingAddress: req.ShippingAddress,
		Status:          status,
		PaymentStatus:   paymentStatus,
		PaymentMethod:   method,
		PaymentRef:      ref,
		ShippingMethod:  req.ShippingMethod,
	}
	ids := make([]string, 0, len(items))
	for _, it := range items {
		order.Items = append(order.Items, models.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Quantity,
			ImageURL:  it.ImageURL,
		})
		ids = append(ids, it.ProductID)
	}
	order.TotalAmount = order.ItemsTotal()

	if req.Payment != nil && !req.Payment.Amount.IsZero() && !req.Payment.Amount.Equal(order.TotalAmount) {
		log.Warn().Str("user_id", req.UserID).Str("payment_ref", req.Payment.Ref).
			Str("paid", req.Payment.Amount.StringFixed(2)).Str("total", order.TotalAmount.StringFixed(2)).
			Msg("paid amount differs from cart total")
	}

	placed, err := s.orders.PlaceOrder(ctx, order)
	if errors.Is(err, store.ErrDuplicatePayment) {
		return placed, nil
	}
	if err != nil && paymentStatus == models.PaymentStatusPaid && unfulfillable(err) {
		return s.recordUnfulfilled(ctx, order, err)
	}
	if err != nil {
		if paymentStatus == models.PaymentStatusPaid {
			log.Error().Err(err).Str("user_id", req.UserID).Str("payment_ref", deref(ref)).
				Msg("payment captured but order was not stored")
		}
		return nil, fmt.Errorf("place order: %w", err)
	}

	if s.catalog != nil {
		s.catalog.Invalidate(ctx, ids...)
	}
	s.publish(ctx, events.ForOrder(events.OrderCreated, placed))
	return placed, nil
}

// unfulfillable reports failures that no redelivery can fix.
func unfulfillable(err error) bool {
	return errors.Is(err, store.ErrInsufficientStock) || errors.Is(err, store.ErrNotFound)
}

// recordUnfulfilled keeps a paid order that cannot be fulfilled as cancelled with payment
// status paid, so the capture is on record for a refund. Stock and the cart are untouched.
func (s *CheckoutService) recordUnfulfilled(ctx context.Context, order *models.Order, cause error) (*models.Order, error) {
	order.Status = models.OrderStatusCancelled
	recorded, err := s.orders.RecordOrder(ctx, order)
	if errors.Is(err, store.ErrDuplicatePayment) {
		return recorded, nil
	}
	if err != nil {
		log.Error().Err(err).AnErr("cause", cause).Str("user_id", order.UserID).Str("payment_ref", deref(order.PaymentRef)).
			Msg("payment captured but order was not stored")
		return nil, fmt.Errorf("record order: %w", err)
	}
	log.Error().Err(cause).Str("order_id", recorded.ID).Str("order_number", recorded.OrderNumber).
		Str("user_id", order.UserID).Str("payment_ref", deref(order.PaymentRef)).
		Msg("paid order cannot be fulfilled, recorded as cancelled for refund")
	s.publish(ctx, events.ForOrder(events.OrderCreated, recorded))
	return recorded, nil
}

func (s *CheckoutService) publish(ctx context.Context, e events.Event) {
	if err := s.publisher.Publish(ctx, e); err != nil {
		log.Warn().Err(err).Str("event", string(e.Type)).Str("order_id", e.OrderID).Msg("publish order event")
	}
}

// CartID encodes the owner into the cart id handed to the gateway; the payment advice echoes
// it back.
func CartID(uid string) string {
	return uid + cartIDSep + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

func UserFromCartID(cartID string) (string, bool) {
	i := strings.LastIndex(cartID, cartIDSep)
	if i <= 0 {
		return "", false
	}
	return cartID[:i], true
}

type PaymentStart struct {
	CartID  string          `json:"cartId"`
	Session payment.Session `json:"session"`
	Amount  string          `json:"amount"`
}

// StartPayment opens a hosted payment page for the current cart total.
func (s *CheckoutService) StartPayment(ctx context.Context, uid string, customer payment.Customer, address models.ShippingAddress) (*PaymentStart, error) {
	if s.gateway == nil {
		return nil, payment.ErrNotConfigured
	}
	if missing := address.Missing(); len(missing) > 0 {
		return nil, invalid("shipping address missing %s", strings.Join(missing, ", "))
	}
	items, err := s.carts.CartItems(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	cart := models.Cart{UserID: uid, Items: items}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	if customer.Name == "" {
		customer.Name = address.FullName()
	}
	if customer.Email == "" {
		customer.Email = address.Email
	}
	if customer.Phone == "" {
		customer.Phone = address.Phone
	}

	cartID := CartID(uid)
	session, err := s.gateway.CreatePayment(ctx, payment.Request{
		CartID:      cartID,
		Amount:      cart.Total(),
		Currency:    s.currency,
		Description: fmt.Sprintf("Order of %d items", cart.Count()),
		Customer:    customer,
		Address:     address,
	})
	if err != nil {
		return nil, err
	}
	return &PaymentStart{CartID: cartID, Session: session, Amount: cart.Total().StringFixed(2)}, nil
}

// HandlePaymentWebhook places the order for an approved payment advice. Declined advices
// create nothing and are not an error. A failure after an approved payment is returned so the
// gateway redelivers; the payment reference keeps redelivery from creating a second order.
func (s *CheckoutService) HandlePaymentWebhook(ctx context.Context, w payment.Webhook) (*models.Order, error) {
	uid, ok := UserFromCartID(w.CartID)
	if !ok {
		return nil, invalid("cart id %q does not identify a user", w.CartID)
	}
	if !w.Approved {
		log.Info().Str("user_id", uid).Str("cart_id", w.CartID).Str("status", w.Status).Str("message", w.Message).
			Msg("payment not approved, no order created")
		return nil, nil
	}
	conf := w.Confirmation()
	return s.PlaceOrder(ctx, CheckoutRequest{
		UserID:          uid,
		CustomerName:    w.Customer.Name,
		CustomerEmail:   w.Customer.Email,
		CustomerPhone:   w.Customer.Phone,
		ShippingAddress: w.Address,
		PaymentMethod:   PaymentCard,
		ShippingMethod:  "standard",
		Payment:         &conf,
	})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
