package repositories

import (
	"context"
	"time"

	"github.com/SAP-F-2025/practice-service/internal/models"
)

// UserRepository interface for user operations. Lookups return ErrNotFound
// for unknown users.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Upsert inserts the user or refreshes profile fields of an existing row.
	// Used for identities issued by an external provider.
	Upsert(ctx context.Context, user *models.User) error
	UpdateLastLogin(ctx context.Context, id string, loginTime time.Time) error
}
