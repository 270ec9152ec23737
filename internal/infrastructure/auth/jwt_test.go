package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/inkhouse/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(expiration time.Duration) *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:     "test-secret-key",
		Issuer:     "inkhouse-test",
		Expiration: expiration,
	})
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := newTestService(time.Hour)
	tenantID, userID := uuid.New(), uuid.New()

	token, err := svc.GenerateToken(GenerateTokenInput{
		TenantID:    tenantID,
		UserID:      userID,
		Username:    "finance-ops",
		Permissions: []string{"royalty:run", "royalty:view"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, tenantID.String(), claims.TenantID)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "finance-ops", claims.Username)
	assert.Equal(t, "inkhouse-test", claims.Issuer)
	assert.True(t, claims.HasPermission("royalty:run"))
	assert.False(t, claims.HasPermission("royalty:resend"))
}

func TestValidateToken(t *testing.T) {
	t.Run("rejects an expired token", func(t *testing.T) {
		svc := newTestService(-time.Minute)
		token, err := svc.GenerateToken(GenerateTokenInput{TenantID: uuid.New(), UserID: uuid.New()})
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("rejects a token signed with another secret", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{Secret: "different-secret", Issuer: "x", Expiration: time.Hour})
		token, err := other.GenerateToken(GenerateTokenInput{TenantID: uuid.New(), UserID: uuid.New()})
		require.NoError(t, err)

		_, err = newTestService(time.Hour).ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := newTestService(time.Hour).ValidateToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestContextPermissionGate(t *testing.T) {
	gate := NewContextPermissionGate()
	tenantID, userID := uuid.New(), uuid.New()
	claims := &Claims{
		TenantID:    tenantID.String(),
		UserID:      userID.String(),
		Permissions: []string{"royalty:run"},
	}

	t.Run("allows the acting user with the permission", func(t *testing.T) {
		ctx := WithClaims(context.Background(), claims)

		allowed, err := gate.Allow(ctx, tenantID, userID, "royalty:run")
		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("denies a missing permission", func(t *testing.T) {
		ctx := WithClaims(context.Background(), claims)

		allowed, err := gate.Allow(ctx, tenantID, userID, "royalty:resend")
		require.NoError(t, err)
		assert.False(t, allowed)
	})

	t.Run("denies a different tenant", func(t *testing.T) {
		ctx := WithClaims(context.Background(), claims)

		allowed, err := gate.Allow(ctx, uuid.New(), userID, "royalty:run")
		require.NoError(t, err)
		assert.False(t, allowed)
	})

	t.Run("denies a different user", func(t *testing.T) {
		ctx := WithClaims(context.Background(), claims)

		allowed, err := gate.Allow(ctx, tenantID, uuid.New(), "royalty:run")
		require.NoError(t, err)
		assert.False(t, allowed)
	})

	t.Run("denies a context without claims", func(t *testing.T) {
		allowed, err := gate.Allow(context.Background(), tenantID, userID, "royalty:run")
		require.NoError(t, err)
		assert.False(t, allowed)
	})
}
