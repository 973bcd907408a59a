package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-at-least-16-chars!!"

func TestIssueAndVerify(t *testing.T) {
	m := NewJWTManager(testSecret, 4*24*time.Hour)

	token, exp, err := m.Issue("user-123", "alice@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(4*24*time.Hour), exp, 5*time.Second)

	claims, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
}

func TestVerifyExpired(t *testing.T) {
	// Negative TTL mints a token that is already past its expiry
	m := NewJWTManager(testSecret, -time.Minute)

	token, _, err := m.Issue("user-123", "alice@example.com")
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyWrongSecret(t *testing.T) {
	m := NewJWTManager(testSecret, time.Hour)
	other := NewJWTManager("another-secret-16-chars-long!!!", time.Hour)

	token, _, err := m.Issue("user-123", "alice@example.com")
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyMalformed(t *testing.T) {
	m := NewJWTManager(testSecret, time.Hour)

	_, err := m.Verify("definitely-not-a-jwt")
	assert.ErrorIs(t, err, ErrTokenMalformed)

	_, err = m.Verify("")
	assert.ErrorIs(t, err, ErrTokenMalformed)
}
