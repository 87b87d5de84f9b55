package auth

import (
	"context"
	"time"

	"github.com/SAP-F-2025/practice-service/internal/config"
	"github.com/SAP-F-2025/practice-service/internal/models"
	"github.com/SAP-F-2025/practice-service/internal/repositories"
	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
)

// CasdoorVerifier accepts tokens issued by a Casdoor server.
type CasdoorVerifier struct {
	client *casdoorsdk.Client
}

func NewCasdoorVerifier(cfg config.CasdoorConfig) *CasdoorVerifier {
	return &CasdoorVerifier{
		client: casdoorsdk.NewClient(
			cfg.Endpoint,
			cfg.ClientID,
			cfg.ClientSecret,
			cfg.Certificate,
			cfg.OrganizationName,
			cfg.ApplicationName,
		),
	}
}

func (v *CasdoorVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	claims, err := v.client.ParseJwtToken(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.Id == "" {
		return nil, ErrInvalidToken
	}

	role := models.RoleStudent
	if claims.IsAdmin {
		role = models.RoleAdmin
	}

	fullName := claims.DisplayName
	if fullName == "" {
		fullName = claims.Name
	}

	return &Identity{
		UserID:   claims.Id,
		Email:    claims.Email,
		FullName: fullName,
		Role:     role,
	}, nil
}

// UserSyncVerifier mirrors externally managed identities into the users
// table so submissions can reference them.
type UserSyncVerifier struct {
	inner TokenVerifier
	users repositories.UserRepository
}

func NewUserSyncVerifier(inner TokenVerifier, users repositories.UserRepository) *UserSyncVerifier {
	return &UserSyncVerifier{inner: inner, users: users}
}

func (v *UserSyncVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	identity, err := v.inner.Verify(ctx, token)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	err = v.users.Upsert(ctx, &models.User{
		ID:          identity.UserID,
		Email:       identity.Email,
		FullName:    identity.FullName,
		Role:        identity.Role,
		IsActive:    true,
		LastLoginAt: &now,
	})
	if err != nil {
		return nil, err
	}
	return identity, nil
}
