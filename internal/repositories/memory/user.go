package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/SAP-F-2025/practice-service/internal/models"
	"github.com/SAP-F-2025/practice-service/internal/repositories"
)

type UserRepository struct {
	store *store
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.users[user.ID]; ok {
		return fmt.Errorf("failed to create user: id %s: %w", user.ID, repositories.ErrDuplicateKey)
	}
	for _, u := range r.store.users {
		if u.Email == user.Email {
			return fmt.Errorf("failed to create user: email %s: %w", user.Email, repositories.ErrDuplicateKey)
		}
	}

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.store.users[user.ID] = cloneUser(user)
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	u, ok := r.store.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, u := range r.store.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	if repositories.IsNotFoundError(err) {
		return false, nil
	}
	return err == nil, err
}

func (r *UserRepository) Upsert(ctx context.Context, user *models.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := time.Now()
	if existing, ok := r.store.users[user.ID]; ok {
		updated := cloneUser(existing)
		updated.Email = user.Email
		updated.FullName = user.FullName
		updated.Role = user.Role
		updated.LastLoginAt = user.LastLoginAt
		updated.UpdatedAt = now
		r.store.users[user.ID] = updated
		return nil
	}

	user.CreatedAt = now
	user.UpdatedAt = now
	r.store.users[user.ID] = cloneUser(user)
	return nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, id string, loginTime time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	u, ok := r.store.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	updated := cloneUser(u)
	updated.LastLoginAt = &loginTime
	r.store.users[id] = updated
	return nil
}
