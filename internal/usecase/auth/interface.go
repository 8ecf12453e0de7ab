package auth

import (
	"context"

	domain "book-catalog-service/internal/domain/user"
)

// Usecase defines the user directory operations.
type Usecase interface {
	SignUp(ctx context.Context, in SignUpRequest) (*TokenResponse, error)
	SignIn(ctx context.Context, in SignInRequest) (*TokenResponse, error)
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}
