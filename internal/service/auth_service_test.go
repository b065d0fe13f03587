package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parking_manager/internal/domain"
	"parking_manager/internal/repository/memory"
)

const testSecret = "test-secret"

func newAuthService() *AuthService {
	return NewAuthService(memory.NewInMemoryUserRepository(), testSecret, time.Hour)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	user, err := svc.Register(ctx, domain.RegisterUserDTO{
		Email:    "alice@example.com",
		Username: "alice",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.True(t, user.IsActive)
	assert.Empty(t, user.Password)

	resp, err := svc.Login(ctx, domain.LoginUserDTO{
		Email:    "alice@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, user.ID, resp.UserID)
	assert.Equal(t, "alice", resp.Username)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	dto := domain.RegisterUserDTO{
		Email:    "bob@example.com",
		Username: "bob",
		Password: "secret123",
	}
	_, err := svc.Register(ctx, dto)
	require.NoError(t, err)

	_, err = svc.Register(ctx, dto)
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, domain.RegisterUserDTO{
		Email:    "carol@example.com",
		Username: "carol",
		Password: "secret123",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, domain.LoginUserDTO{
		Email:    "carol@example.com",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, domain.LoginUserDTO{
		Email:    "nobody@example.com",
		Password: "secret123",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateTokenRoundTrip(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, domain.RegisterUserDTO{
		Email:    "dave@example.com",
		Username: "dave",
		Password: "secret123",
	})
	require.NoError(t, err)

	resp, err := svc.Login(ctx, domain.LoginUserDTO{
		Email:    "dave@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	_, claims, err := svc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, claims["role"])
	assert.Equal(t, "dave", claims["username"])
}

// Registration must never mint an admin, no matter what the request
// carries; admin accounts are provisioned directly in the store.
func TestRegisterAlwaysAssignsUserRole(t *testing.T) {
	userRepo := memory.NewInMemoryUserRepository()
	svc := NewAuthService(userRepo, testSecret, time.Hour)
	ctx := context.Background()

	user, err := svc.Register(ctx, domain.RegisterUserDTO{
		Email:    "mallory@example.com",
		Username: "mallory",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, user.Role)

	stored, err := userRepo.FindByEmail(ctx, "mallory@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, stored.Role)
	assert.NotEqual(t, domain.RoleAdmin, stored.Role)
}

func TestValidateTokenGarbage(t *testing.T) {
	svc := newAuthService()

	_, _, err := svc.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	svc := newAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, domain.RegisterUserDTO{
		Email:    "eve@example.com",
		Username: "eve",
		Password: "secret123",
	})
	require.NoError(t, err)

	resp, err := svc.Login(ctx, domain.LoginUserDTO{
		Email:    "eve@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	other := NewAuthService(memory.NewInMemoryUserRepository(), "different-secret", time.Hour)
	_, _, err = other.ValidateToken(resp.Token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
