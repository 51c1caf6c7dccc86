package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "foo@bar.com", NormalizeEmail("Foo@Bar.com"))
	assert.Equal(t, "foo@bar.com", NormalizeEmail("  foo@bar.com  "))
	assert.Equal(t, "", NormalizeEmail("   "))
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("TestPass123!")
	require.NoError(t, err)
	require.NotEqual(t, "TestPass123!", hash)

	assert.NoError(t, CheckPassword(hash, "TestPass123!"))
	assert.ErrorIs(t, CheckPassword(hash, "wrong"), ErrInvalidCredentials)
}

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewTokens("test-secret", time.Hour)

	token, err := tokens.Issue("user-123", time.Now())
	require.NoError(t, err)

	userID, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestExpiredTokenRejected(t *testing.T) {
	tokens := NewTokens("test-secret", time.Minute)

	token, err := tokens.Issue("user-123", time.Now().Add(-time.Hour))
	require.NoError(t, err)

	_, err = tokens.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestWrongSecretRejected(t *testing.T) {
	token, err := NewTokens("secret-a", time.Hour).Issue("user-123", time.Now())
	require.NoError(t, err)

	_, err = NewTokens("secret-b", time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGarbageTokenRejected(t *testing.T) {
	_, err := NewTokens("test-secret", time.Hour).Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
