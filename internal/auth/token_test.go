package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/dashboard-gateway/internal/domain"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 5, 60)

	token, exp, err := tm.GenerateAccessToken("user-1", domain.RoleAdmin)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), exp, 5*time.Second)

	claims, err := tm.ParseAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
	assert.Equal(t, TokenAccess, claims.Kind)
	assert.NotEmpty(t, claims.ID)
}

func TestTokenKindsAreNotInterchangeable(t *testing.T) {
	tm := NewTokenManager("secret", 5, 60)
	access, _, err := tm.GenerateAccessToken("user-1", domain.RoleStaff)
	require.NoError(t, err)
	refresh, _, err := tm.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	_, err = tm.ParseAccessToken(refresh)
	assert.Error(t, err)
	_, err = tm.ParseRefreshToken(access)
	assert.Error(t, err)

	claims, err := tm.ParseRefreshToken(refresh)
	require.NoError(t, err)
	assert.Empty(t, claims.Role)
}

func TestExpiredTokenIsRejected(t *testing.T) {
	tm := NewTokenManager("secret", 1, 60)
	tm.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := tm.GenerateAccessToken("user-1", domain.RoleStaff)
	require.NoError(t, err)

	tm.now = time.Now
	_, err = tm.ParseAccessToken(token)
	assert.Error(t, err)
}

func TestForeignSecretIsRejected(t *testing.T) {
	token, _, err := NewTokenManager("a", 5, 60).GenerateAccessToken("user-1", domain.RoleStaff)
	require.NoError(t, err)

	_, err = NewTokenManager("b", 5, 60).ParseAccessToken(token)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret", 1)
	require.NoError(t, err)
	assert.NoError(t, ComparePassword(hash, "s3cret"))
	assert.Error(t, ComparePassword(hash, "other"))
}
