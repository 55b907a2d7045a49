package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret-32-characters-long!", time.Hour)

	token, err := tm.Generate("user123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := tm.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "user123", claims.UserID)
	assert.NotEmpty(t, claims.ID)
}

func TestTokenManager_Expired(t *testing.T) {
	tm := NewTokenManager("test-secret-32-characters-long!", -time.Minute)

	token, err := tm.Generate("user123")
	require.NoError(t, err)

	_, err = tm.Validate(token)
	assert.Error(t, err)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	tm := NewTokenManager("test-secret-32-characters-long!", time.Hour)
	other := NewTokenManager("another-secret-32-characters-xx", time.Hour)

	token, err := tm.Generate("user123")
	require.NoError(t, err)

	_, err = other.Validate(token)
	assert.Error(t, err)
}

func TestTokenManager_Garbage(t *testing.T) {
	tm := NewTokenManager("test-secret-32-characters-long!", time.Hour)

	_, err := tm.Validate("not-a-token")
	assert.Error(t, err)
}
