// Package auth turns bearer tokens into caller identities.
package auth

import (
	"context"
	"errors"

	"github.com/SAP-F-2025/practice-service/internal/models"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Identity is the authenticated caller attached to a request.
type Identity struct {
	UserID   string
	Email    string
	FullName string
	Role     models.UserRole
}

func (i *Identity) IsAdmin() bool {
	return i.Role == models.RoleAdmin
}

// TokenVerifier validates a bearer token and returns the identity it carries.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}
