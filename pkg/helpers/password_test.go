package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndComparePassword(t *testing.T) {
	hash, err := HashPassword("secret1")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "secret1", hash)

	assert.True(t, CompareHashAndPassword(hash, "secret1"))
	assert.False(t, CompareHashAndPassword(hash, "secret2"))
	assert.False(t, CompareHashAndPassword(hash, ""))
}

func TestHashPasswordSalted(t *testing.T) {
	h1, err := HashPassword("secret1")
	require.NoError(t, err)
	h2, err := HashPassword("secret1")
	require.NoError(t, err)

	// bcrypt embeds a random salt, so equal inputs hash differently
	assert.NotEqual(t, h1, h2)
}

func TestGeneratePlaceholderHash(t *testing.T) {
	h1, err := GeneratePlaceholderHash()
	require.NoError(t, err)
	h2, err := GeneratePlaceholderHash()
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)

	// Nothing guessable should ever verify against a placeholder
	for _, guess := range []string{"", "password", "123456", h1} {
		assert.False(t, CompareHashAndPassword(h1, guess))
	}
}
