package auth

import (
	"context"

	"github.com/google/uuid"
	"github.com/ivanquesadapalmero/planazo-backend/internal/database/models"
)

// Authenticator defines the interface for user authentication operations.
type Authenticator interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	Login(ctx context.Context, input LoginInput) (*AuthResult, error)
}

// PasswordResetter defines the single-use password reset flow.
type PasswordResetter interface {
	RequestReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// TokenService defines the interface for JWT token operations.
type TokenService interface {
	GenerateToken(userID uuid.UUID, email string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

// ResetNotifier delivers a freshly issued reset token to its owner.
type ResetNotifier interface {
	NotifyPasswordReset(ctx context.Context, notice ResetNotice) error
}

// Compile-time interface satisfaction checks
var (
	_ Authenticator    = (*Service)(nil)
	_ PasswordResetter = (*PasswordReset)(nil)
	_ TokenService     = (*JWTService)(nil)
	_ ResetNotifier    = (*LogNotifier)(nil)
)
