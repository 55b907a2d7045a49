package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_NotPlaintext(t *testing.T) {
	hash, err := HashPassword("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)
	assert.NotEmpty(t, hash)
}

func TestHashPassword_Salted(t *testing.T) {
	first, err := HashPassword("secret1")
	require.NoError(t, err)
	second, err := HashPassword("secret1")
	require.NoError(t, err)

	// bcrypt embeds a random salt, so two hashes of the same input differ
	assert.NotEqual(t, first, second)

	assert.NoError(t, ComparePassword(first, "secret1"))
	assert.NoError(t, ComparePassword(second, "secret1"))
}

func TestHashPassword_Empty(t *testing.T) {
	_, err := HashPassword("")
	assert.Error(t, err)
}

func TestComparePassword_Mismatch(t *testing.T) {
	hash, err := HashPassword("secret1")
	require.NoError(t, err)
	assert.Error(t, ComparePassword(hash, "secret2"))
}

func TestGenerateResetToken(t *testing.T) {
	plain, hash, err := GenerateResetToken()
	require.NoError(t, err)

	assert.Len(t, plain, ResetTokenLen*2) // hex encoded
	assert.Equal(t, HashResetToken(plain), hash)
	assert.NotEqual(t, plain, hash)

	// Tokens are random
	plain2, _, err := GenerateResetToken()
	require.NoError(t, err)
	assert.NotEqual(t, plain, plain2)
}
