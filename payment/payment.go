// Package payment is the boundary to the hosted payment page provider.
package payment

import (
	"context"
	"errors"

	"github.com/junaidrashid-git/beauty-api/models"
	"github.com/shopspring/decimal"
)

var (
	ErrNotConfigured = errors.New("payment gateway is not configured")
	ErrGateway       = errors.New("payment gateway error")
)

type Customer struct {
	Name  string
	Email string
	Phone string
}

type Request struct {
	CartID      string
	Amount      decimal.Decimal
	Currency    string
	Description string
	Customer    Customer
	Address     models.ShippingAddress
}

// Session is a hosted payment page the shopper is redirected to.
type Session struct {
	Ref string `json:"ref"`
	URL string `json:"url"`
}

//go:generate mockgen -destination=../mocks/mock_gateway.go -package=mocks github.com/junaidrashid-git/beauty-api/payment Gateway

type Gateway interface {
	CreatePayment(ctx context.Context, req Request) (Session, error)
}

// Confirmation is what order creation consumes once the shopper has paid, or chosen to pay
// on delivery.
type Confirmation struct {
	Ref    string
	Status models.PaymentStatus
	Amount decimal.Decimal
	Method string
}
