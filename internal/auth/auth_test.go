package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret")
	userID := uuid.New()

	access, err := svc.GenerateAccessToken(userID, "a@x.com")
	require.NoError(t, err)
	claims, err := svc.ValidateToken(access)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, KindAccess, claims.Kind)
	assert.NotEmpty(t, claims.ID)
	assert.Greater(t, claims.RemainingTTL().Minutes(), 14.0)

	_, err = svc.ValidateRefreshToken(access)
	assert.Error(t, err)

	id, refresh, err := svc.GenerateRefreshToken(userID, "a@x.com")
	require.NoError(t, err)
	rc, err := svc.ValidateRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, id, rc.ID)

	_, err = NewJWTService("other-secret").ValidateToken(access)
	assert.Error(t, err)
}

func TestTokenStore_NilCacheFailsSafe(t *testing.T) {
	store := NewTokenStore(nil)
	ctx := context.Background()

	require.NoError(t, store.StoreRefreshToken(ctx, "id", uuid.New(), "a@x.com", RefreshTokenExpiry))
	_, _, err := store.GetRefreshToken(ctx, "id")
	assert.ErrorIs(t, err, ErrRefreshTokenNotFound)

	blacklisted, err := store.IsAccessTokenBlacklisted(ctx, "id")
	require.NoError(t, err)
	assert.False(t, blacklisted)
}

func TestBcryptHasher(t *testing.T) {
	h := &BcryptHasher{Cost: bcrypt.MinCost}
	hash, err := h.Hash("password123")
	require.NoError(t, err)
	assert.True(t, h.Verify(hash, "password123"))
	assert.False(t, h.Verify(hash, "wrong"))
}
