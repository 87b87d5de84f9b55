package services

import (
	"context"
	"testing"
	"time"

	"github.com/SAP-F-2025/practice-service/internal/auth"
	"github.com/SAP-F-2025/practice-service/internal/models"
	"github.com/SAP-F-2025/practice-service/internal/repositories"
	"github.com/SAP-F-2025/practice-service/internal/repositories/memory"
	"github.com/SAP-F-2025/practice-service/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthService(adminEmails ...string) AuthService {
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	return NewAuthService(memory.NewRepository(), jwtManager, jwtManager, adminEmails, testLogger(), validator.New())
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	service := newTestAuthService()

	user, err := service.Register(ctx, &RegisterRequest{
		Email:    "Student@Example.com",
		Password: "secret123",
		FullName: "Test Student",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "student@example.com", user.Email)
	assert.Equal(t, models.RoleStudent, user.Role)
	assert.True(t, user.IsActive)

	token, err := service.Login(ctx, &LoginRequest{Email: "student@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", token.TokenType)
	assert.NotEmpty(t, token.AccessToken)
	assert.True(t, token.ExpiresAt.After(time.Now()))

	identity, err := service.Verifier().Verify(ctx, token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, identity.UserID)

	me, err := service.GetUser(ctx, identity.UserID)
	require.NoError(t, err)
	assert.Equal(t, "Test Student", me.FullName)
}

func TestAuthService_RegisterErrors(t *testing.T) {
	ctx := context.Background()
	service := newTestAuthService()

	_, err := service.Register(ctx, &RegisterRequest{Email: "a@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = service.Register(ctx, &RegisterRequest{Email: "A@example.com", Password: "another1"})
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.True(t, IsConflict(err))

	_, err = service.Register(ctx, &RegisterRequest{Email: "not-an-email", Password: "secret123"})
	assert.True(t, IsValidation(err))

	_, err = service.Register(ctx, &RegisterRequest{Email: "b@example.com", Password: "123"})
	assert.True(t, IsValidation(err))
}

// staleEmailCheck reports every email as free, as a concurrent request
// would see it before the other registration commits.
type staleEmailCheck struct {
	repositories.UserRepository
}

func (staleEmailCheck) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return false, nil
}

type staleEmailRepository struct {
	*memory.Repository
}

func (r staleEmailRepository) User() repositories.UserRepository {
	return staleEmailCheck{r.Repository.User()}
}

func TestAuthService_RegisterDuplicateKey(t *testing.T) {
	ctx := context.Background()
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	repo := staleEmailRepository{memory.NewRepository()}
	service := NewAuthService(repo, jwtManager, jwtManager, nil, testLogger(), validator.New())

	_, err := service.Register(ctx, &RegisterRequest{Email: "race@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = service.Register(ctx, &RegisterRequest{Email: "race@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthService_LoginErrors(t *testing.T) {
	ctx := context.Background()
	service := newTestAuthService()

	_, err := service.Register(ctx, &RegisterRequest{Email: "a@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = service.Login(ctx, &LoginRequest{Email: "a@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = service.Login(ctx, &LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_AdminEmails(t *testing.T) {
	service := newTestAuthService("Admin@Example.com")

	user, err := service.Register(context.Background(), &RegisterRequest{Email: "admin@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)
}

func TestAuthService_GetUnknownUser(t *testing.T) {
	_, err := newTestAuthService().GetUser(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthService_LocalAuthDisabled(t *testing.T) {
	verifier := auth.NewJWTManager("external", time.Hour)
	service := NewAuthService(memory.NewRepository(), nil, verifier, nil, testLogger(), validator.New())

	_, err := service.Register(context.Background(), &RegisterRequest{Email: "a@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrLocalAuthDisabled)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = service.Login(context.Background(), &LoginRequest{Email: "a@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrLocalAuthDisabled)

	assert.Same(t, verifier, service.Verifier())
}
