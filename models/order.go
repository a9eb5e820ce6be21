package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string
type PaymentStatus string
type OrderAction string

const (
	// Order statuses. The forward path is pending → processing → shipped → delivered;
	// cancelled is absorbing and reachable from any non-terminal state.
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"

	// Payment statuses
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"

	ActionAdvance OrderAction = "advance"
	ActionCancel  OrderAction = "cancel"
)

var (
	ErrInvalidOrderStatus   = errors.New("invalid order status")
	ErrInvalidPaymentStatus = errors.New("invalid payment status")
	ErrTotalMismatch        = errors.New("order total does not match its items")
)

var orderProgression = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(strings.ToLower(strings.TrimSpace(s)))
	switch status {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return status, nil
	}
	return "", ErrInvalidOrderStatus
}

// ParsePaymentStatus treats "completed" as paid.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return PaymentStatusPending, nil
	case "paid", "completed":
		return PaymentStatusPaid, nil
	case "failed":
		return PaymentStatusFailed, nil
	}
	return "", ErrInvalidPaymentStatus
}

// Next returns the single forward step from s.
func (s OrderStatus) Next() (OrderStatus, bool) {
	for i, st := range orderProgression {
		if st == s && i+1 < len(orderProgression) {
			return orderProgression[i+1], true
		}
	}
	return "", false
}

func (s OrderStatus) CanCancel() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped:
		return true
	}
	return false
}

func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// Actions lists what an admin may do with an order in status s.
func (s OrderStatus) Actions() []OrderAction {
	actions := []OrderAction{}
	if _, ok := s.Next(); ok {
		actions = append(actions, ActionAdvance)
	}
	if s.CanCancel() {
		actions = append(actions, ActionCancel)
	}
	return actions
}

type ShippingAddress struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Address   string `json:"address"`
	City      string `json:"city"`
	Region    string `json:"region"`
	Locality  string `json:"locality"`
	Country   string `json:"country"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

func (a ShippingAddress) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// Missing returns the json names of required fields that are blank.
func (a ShippingAddress) Missing() []string {
	var missing []string
	check := func(name, v string) {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	check("firstName", a.FirstName)
	check("lastName", a.LastName)
	check("address", a.Address)
	check("city", a.City)
	check("country", a.Country)
	check("phone", a.Phone)
	check("email", a.Email)
	return missing
}

type Order struct {
	ID              string          `gorm:"primaryKey;type:varchar(64)" json:"id"`
	OrderNumber     string          `gorm:"uniqueIndex;not null;type:varchar(64)" json:"orderNumber"`
	UserID          string          `gorm:"index;not null;type:varchar(128)" json:"userId"`
	CustomerName    string          `json:"customerName"`
	CustomerEmail   string          `gorm:"index" json:"customerEmail"`
	CustomerPhone   string          `json:"customerPhone"`
	ShippingAddress ShippingAddress `gorm:"embedded;embeddedPrefix:ship_" json:"shippingAddress"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"totalAmount"`
	Status          OrderStatus     `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	PaymentStatus   PaymentStatus   `gorm:"type:varchar(20);default:'pending'" json:"paymentStatus"`
	PaymentMethod   string          `json:"paymentMethod"`
	PaymentRef      *string         `gorm:"uniqueIndex;type:varchar(128)" json:"paymentRef,omitempty"`
	ShippingMethod  string          `json:"shippingMethod"`
	TrackingNumber  string          `json:"trackingNumber,omitempty"`
	CreatedAt       time.Time       `gorm:"index" json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// OrderItem is a snapshot of the product at checkout time.
type OrderItem struct {
	ID        uint            `gorm:"primaryKey" json:"-"`
	OrderID   string          `gorm:"index;type:varchar(64)" json:"-"`
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Quantity  int             `json:"quantity"`
	ImageURL  string          `json:"imageUrl"`
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func (o Order) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

func (o Order) VerifyTotal() error {
	if sum := o.ItemsTotal(); !sum.Equal(o.TotalAmount) {
		return fmt.Errorf("%w: order %s total %s, items sum %s", ErrTotalMismatch, o.OrderNumber, o.TotalAmount.StringFixed(2), sum.StringFixed(2))
	}
	return nil
}

type OrderFilter struct {
	// Query matches order number, customer name, email or phone.
	Query  string
	Status OrderStatus
	Page
}

type OrderStats struct {
	Total    int64                 `json:"total"`
	ByStatus map[OrderStatus]int64 `json:"byStatus"`
	Revenue  decimal.Decimal       `json:"revenue"`
}
