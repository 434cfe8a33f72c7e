package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("motdepasse123")
	require.NoError(t, err)
	assert.Contains(t, hash, "$argon2id$")

	ok, err := VerifyPassword("motdepasse123", hash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyPasswordWrongPassword(t *testing.T) {
	hash, err := HashPassword("motdepasse123")
	require.NoError(t, err)

	ok, err := VerifyPassword("autremotdepasse", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyPasswordInvalidHash(t *testing.T) {
	_, err := VerifyPassword("motdepasse123", "pas-un-hash")
	assert.Error(t, err)
}

func TestHashPasswordSaltsDiffer(t *testing.T) {
	h1, err := HashPassword("motdepasse123")
	require.NoError(t, err)
	h2, err := HashPassword("motdepasse123")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}
