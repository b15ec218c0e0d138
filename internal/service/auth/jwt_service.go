package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/DusanM998/ToDoApplication/internal/domain"
)

// JWTService defines operations for managing JWT access tokens.
type JWTService interface {
	// GenerateToken creates a signed JWT access token containing the user's
	// identity and profile claims. Returns the token string or an error if
	// token generation fails.
	GenerateToken(ctx context.Context, user *domain.User) (string, error)

	// ValidateToken validates the provided access token string and extracts
	// the claims. Returns an error if validation fails (expired, invalid
	// signature, etc.).
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the custom claims structure carried by access tokens.
// It extends standard JWT registered claims with application-specific fields.
type Claims struct {
	// UserID is the unique identifier of the user the token was issued for.
	UserID uuid.UUID `json:"id,omitempty"`

	// Name is the user's display name.
	Name string `json:"name,omitempty"`

	// Email is the user's email address (also their username).
	Email string `json:"email,omitempty"`

	// Role is the user's authorization role.
	Role domain.Role `json:"role,omitempty"`

	// PhoneNumber is the user's contact number, if set.
	PhoneNumber string `json:"phoneNumber,omitempty"`

	// Standard registered JWT claims
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
