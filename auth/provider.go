// Package auth verifies identity-provider tokens and issues the API's own session tokens.
package auth

import (
	"context"
	"errors"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrEmailTaken   = errors.New("email is already registered")
	ErrUnknownUser  = errors.New("no account for this email")
	ErrWeakPassword = errors.New("password must be at least 6 characters")
)

// Identity is what the provider vouches for. Role comes from the "role" custom claim.
type Identity struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role"`
}

//go:generate mockgen -destination=../mocks/authmock/mock_provider.go -package=authmock github.com/junaidrashid-git/beauty-api/auth Provider

type Provider interface {
	VerifyIDToken(ctx context.Context, idToken string) (Identity, error)
	SignUp(ctx context.Context, email, password, name string) (Identity, error)
	PasswordResetLink(ctx context.Context, email string) (string, error)
	SetRole(ctx context.Context, uid, role string) error
}
