package auth

import (
	"context"

	"github.com/georgemunganga/medexpress-backend/internal/modules/user"
	"github.com/google/uuid"
)

// Service defines the interface for authentication-related business logic.
type Service interface {
	// Register creates a customer account and signs it in.
	Register(ctx context.Context, req user.RegisterRequest) (*Session, error)
	Login(ctx context.Context, email, password string) (*Session, error)
}

// Session is returned by register and login.
type Session struct {
	ID    uuid.UUID `json:"_id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  user.Role `json:"role"`
	Token string    `json:"token"`
}
