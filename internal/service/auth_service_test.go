package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/bigsteppa/backend/internal/config"
	"github.com/bigsteppa/backend/internal/models"
	"github.com/bigsteppa/backend/internal/repository"
	"github.com/bigsteppa/backend/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAuthService(t *testing.T, db *gorm.DB, expireSeconds int) *service.AuthService {
	t.Helper()
	userRepo := repository.NewUserRepository(db)
	blacklist := service.NewTokenBlacklist(nil)
	return service.NewAuthService(userRepo, blacklist, config.JWTConfig{
		Secret:        "test-secret",
		ExpireSeconds: expireSeconds,
	})
}

func TestRegisterIssuesTokenAndSanitizedUser(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(t, db, 1800)

	result, err := svc.Register(&service.RegisterRequest{
		Email:    "Stepper@Example.COM ",
		Username: "bigsteppa",
		Password: "Str0ng!Pass",
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)

	// Email canonicalized at the single write path
	assert.Equal(t, "stepper@example.com", result.User.Email)
	assert.Equal(t, "bigsteppa", result.User.Username)
	assert.NotEmpty(t, result.User.ID)

	// Claims round-trip to the new user's identity
	claims, err := svc.ValidateToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, claims.UserID)
	assert.Equal(t, "stepper@example.com", claims.Email)

	// One user row, one credential row, hash never the plaintext
	var creds []models.Credential
	require.NoError(t, db.Find(&creds).Error)
	require.Len(t, creds, 1)
	assert.Equal(t, result.User.ID, creds[0].UserID)
	assert.NotEqual(t, "Str0ng!Pass", creds[0].PasswordHash)
}

func TestRegisterDuplicateIdentity(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(t, db, 1800)

	_, err := svc.Register(&service.RegisterRequest{
		Email: "stepper@example.com", Username: "bigsteppa", Password: "Str0ng!Pass",
	})
	require.NoError(t, err)

	// Same email
	_, err = svc.Register(&service.RegisterRequest{
		Email: "stepper@example.com", Username: "another", Password: "Str0ng!Pass",
	})
	assert.ErrorIs(t, err, service.ErrDuplicateIdentity)

	// Same username
	_, err = svc.Register(&service.RegisterRequest{
		Email: "other@example.com", Username: "bigsteppa", Password: "Str0ng!Pass",
	})
	assert.ErrorIs(t, err, service.ErrDuplicateIdentity)

	// No second user row was created
	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestLogin(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(t, db, 1800)

	registered, err := svc.Register(&service.RegisterRequest{
		Email: "stepper@example.com", Username: "bigsteppa", Password: "Str0ng!Pass",
	})
	require.NoError(t, err)

	t.Run("success with normalization", func(t *testing.T) {
		result, err := svc.Login(&service.LoginRequest{
			Email: "  STEPPER@example.com ", Password: "Str0ng!Pass",
		})
		require.NoError(t, err)
		assert.Equal(t, registered.User.ID, result.User.ID)

		claims, err := svc.ValidateToken(result.Token)
		require.NoError(t, err)
		assert.Equal(t, registered.User.ID, claims.UserID)
	})

	t.Run("missing email", func(t *testing.T) {
		_, err := svc.Login(&service.LoginRequest{Email: "   ", Password: "Str0ng!Pass"})
		assert.ErrorIs(t, err, service.ErrMissingEmail)
	})

	t.Run("unknown account and wrong password collapse", func(t *testing.T) {
		_, unknownErr := svc.Login(&service.LoginRequest{
			Email: "nobody@example.com", Password: "Str0ng!Pass",
		})
		_, wrongErr := svc.Login(&service.LoginRequest{
			Email: "stepper@example.com", Password: "Wr0ng!Pass!",
		})
		assert.ErrorIs(t, unknownErr, service.ErrInvalidCredentials)
		assert.ErrorIs(t, wrongErr, service.ErrInvalidCredentials)
	})

	t.Run("user without credential", func(t *testing.T) {
		require.NoError(t, db.Create(&models.User{
			Email: "ghost@example.com", Username: "ghost",
		}).Error)
		_, err := svc.Login(&service.LoginRequest{
			Email: "ghost@example.com", Password: "Str0ng!Pass",
		})
		assert.ErrorIs(t, err, service.ErrNoCredential)
	})
}

func TestValidateTokenTaxonomy(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(t, db, 1800)

	registered, err := svc.Register(&service.RegisterRequest{
		Email: "stepper@example.com", Username: "bigsteppa", Password: "Str0ng!Pass",
	})
	require.NoError(t, err)

	t.Run("malformed", func(t *testing.T) {
		_, err := svc.ValidateToken("definitely-not-a-jwt")
		assert.ErrorIs(t, err, service.ErrTokenMalformed)
	})

	t.Run("wrong signing key", func(t *testing.T) {
		other := service.NewAuthService(
			repository.NewUserRepository(db),
			service.NewTokenBlacklist(nil),
			config.JWTConfig{Secret: "different-secret", ExpireSeconds: 1800},
		)
		_, err := other.ValidateToken(registered.Token)
		assert.ErrorIs(t, err, service.ErrTokenSignatureInvalid)
	})

	t.Run("expired", func(t *testing.T) {
		shortLived := newAuthService(t, db, -10)
		result, err := shortLived.Login(&service.LoginRequest{
			Email: "stepper@example.com", Password: "Str0ng!Pass",
		})
		require.NoError(t, err)

		_, err = shortLived.ValidateToken(result.Token)
		assert.ErrorIs(t, err, service.ErrTokenExpired)
	})
}

func TestRevokeToken(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(t, db, 1800)
	ctx := context.Background()

	registered, err := svc.Register(&service.RegisterRequest{
		Email: "stepper@example.com", Username: "bigsteppa", Password: "Str0ng!Pass",
	})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(registered.Token)
	require.NoError(t, err)
	assert.False(t, svc.IsTokenRevoked(ctx, claims.ID))

	require.NoError(t, svc.RevokeToken(ctx, claims.ID, claims.ExpiresAt.Time))
	assert.True(t, svc.IsTokenRevoked(ctx, claims.ID))

	// A fresh login issues a distinct, unrevoked token
	result, err := svc.Login(&service.LoginRequest{
		Email: "stepper@example.com", Password: "Str0ng!Pass",
	})
	require.NoError(t, err)
	fresh, err := svc.ValidateToken(result.Token)
	require.NoError(t, err)
	assert.NotEqual(t, claims.ID, fresh.ID)
	assert.False(t, svc.IsTokenRevoked(ctx, fresh.ID))
}

func TestTokenBlacklistExpiry(t *testing.T) {
	blacklist := service.NewTokenBlacklist(nil)
	ctx := context.Background()

	// Already expired tokens are not stored
	require.NoError(t, blacklist.Revoke(ctx, "stale", time.Now().Add(-time.Minute)))
	assert.False(t, blacklist.IsRevoked(ctx, "stale"))

	require.NoError(t, blacklist.Revoke(ctx, "live", time.Now().Add(time.Hour)))
	assert.True(t, blacklist.IsRevoked(ctx, "live"))
	assert.False(t, blacklist.IsRevoked(ctx, "unknown"))
}
