package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/noirparfum/noir-backend/internal/app/model"
	"github.com/noirparfum/noir-backend/internal/app/repository"
	"github.com/noirparfum/noir-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-jwt-secret"

// memoryBlacklist keeps revoked token ids in a map
type memoryBlacklist struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
}

func (b *memoryBlacklist) BlacklistToken(ctx context.Context, tokenID string, expiry time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.revoked == nil {
		b.revoked = make(map[string]time.Duration)
	}
	b.revoked[tokenID] = expiry
	return nil
}

func (b *memoryBlacklist) IsTokenBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.revoked[tokenID]
	return ok, nil
}

func setupAuthServiceTest(t *testing.T) (AuthService, repository.UserRepository, *memoryBlacklist) {
	testDB := setupTestDB(t)

	userRepo := repository.NewUserRepository(testDB)
	blacklist := &memoryBlacklist{}
	authService := NewAuthService(
		userRepo,
		blacklist,
		testJWTSecret,
		15*time.Minute,
		7*24*time.Hour,
	)
	return authService, userRepo, blacklist
}

func registerRequest(email string) model.RegisterRequest {
	return model.RegisterRequest{
		Email:    email,
		Password: "Secret123",
		Name:     "Test User",
		Phone:    "+33600000000",
	}
}

func TestAuthService_Register(t *testing.T) {
	authService, _, _ := setupAuthServiceTest(t)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{
			name:     "Valid registration",
			email:    "Test@Example.com",
			password: "Secret123",
			wantErr:  nil,
		},
		{
			name:     "Duplicate email",
			email:    "test@example.com",
			password: "Secret456",
			wantErr:  ErrEmailAlreadyExists,
		},
		{
			name:     "Weak password",
			email:    "weak@example.com",
			password: "password",
			wantErr:  util.ErrWeakPassword,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := registerRequest(tt.email)
			req.Password = tt.password
			user, tokens, err := authService.Register(req)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				assert.Nil(t, tokens)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, tokens)
			assert.Equal(t, "test@example.com", user.Email)
			assert.Equal(t, model.RoleUser, user.Role)
			assert.NotEqual(t, tt.password, user.PasswordHash)
			assert.NotEmpty(t, tokens.AccessToken)
			assert.NotEmpty(t, tokens.RefreshToken)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	authService, _, _ := setupAuthServiceTest(t)
	_, _, err := authService.Register(registerRequest("login@example.com"))
	require.NoError(t, err)

	t.Run("Valid credentials", func(t *testing.T) {
		user, tokens, err := authService.Login(" LOGIN@example.com ", "Secret123")
		require.NoError(t, err)
		assert.NotNil(t, user.LastLoginAt)

		claims, err := util.ValidateToken(tokens.AccessToken, testJWTSecret)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
		assert.Equal(t, util.TokenTypeAccess, claims.TokenType)
		assert.Equal(t, string(model.RoleUser), claims.Role)
	})

	t.Run("Wrong password", func(t *testing.T) {
		_, _, err := authService.Login("login@example.com", "Wrong1234")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Unknown email", func(t *testing.T) {
		_, _, err := authService.Login("nobody@example.com", "Secret123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAuthService_Refresh(t *testing.T) {
	authService, _, blacklist := setupAuthServiceTest(t)
	_, tokens, err := authService.Register(registerRequest("refresh@example.com"))
	require.NoError(t, err)

	_, err = authService.Refresh(context.Background(), tokens.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken, "access tokens cannot refresh")

	rotated, err := authService.Refresh(context.Background(), tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, tokens.RefreshToken, rotated.RefreshToken)
	assert.Len(t, blacklist.revoked, 1)

	_, err = authService.Refresh(context.Background(), tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestAuthService_Logout(t *testing.T) {
	authService, _, blacklist := setupAuthServiceTest(t)
	_, tokens, err := authService.Register(registerRequest("logout@example.com"))
	require.NoError(t, err)

	claims, err := util.ValidateToken(tokens.AccessToken, testJWTSecret)
	require.NoError(t, err)

	require.NoError(t, authService.Logout(context.Background(), claims))
	revoked, err := blacklist.IsTokenBlacklisted(context.Background(), claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)

	assert.NoError(t, authService.Logout(context.Background(), nil))
}

func TestAuthService_UpdateProfile(t *testing.T) {
	authService, _, _ := setupAuthServiceTest(t)
	user, _, err := authService.Register(registerRequest("profile@example.com"))
	require.NoError(t, err)

	name := "  Renamed User "
	city := "Paris"
	updated, err := authService.UpdateProfile(user.ID, model.UpdateProfileRequest{Name: &name, City: &city})
	require.NoError(t, err)
	assert.Equal(t, "Renamed User", updated.Name)
	assert.Equal(t, "Paris", updated.City)
	assert.Equal(t, "+33600000000", updated.Phone)

	_, err = authService.UpdateProfile(9999, model.UpdateProfileRequest{Name: &name})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthService_AdminUserManagement(t *testing.T) {
	authService, _, _ := setupAuthServiceTest(t)
	admin, _, err := authService.Register(registerRequest("admin@example.com"))
	require.NoError(t, err)
	customer, _, err := authService.Register(registerRequest("customer@example.com"))
	require.NoError(t, err)

	_, err = authService.UpdateRole(admin.ID, admin.ID, model.RoleUser)
	assert.ErrorIs(t, err, ErrCannotModifySelf)

	promoted, err := authService.UpdateRole(admin.ID, customer.ID, model.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, promoted.IsAdmin())

	assert.ErrorIs(t, authService.DeleteUser(admin.ID, admin.ID), ErrCannotModifySelf)
	require.NoError(t, authService.DeleteUser(admin.ID, customer.ID))
	assert.ErrorIs(t, authService.DeleteUser(admin.ID, customer.ID), ErrUserNotFound)

	_, err = authService.GetUserByID(customer.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
