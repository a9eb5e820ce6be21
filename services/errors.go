// Package services holds the storefront's business rules on top of the store contracts.
package services

import (
	"errors"
	"fmt"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrBelowMinimum      = errors.New("quantity cannot go below 1")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrPaymentRejected   = errors.New("payment was not approved")
	ErrInvalidTransition = errors.New("status transition not allowed")
	ErrForbidden         = errors.New("not allowed for this user")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
