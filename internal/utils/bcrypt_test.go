package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("123456")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "123456", hash)

	again, err := HashPassword("123456")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again, "each hash carries its own salt")
}

func TestCheckPasswordHash(t *testing.T) {
	hash, err := HashPassword("123456")
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash("123456", hash))
	assert.False(t, CheckPasswordHash("654321", hash))
	assert.False(t, CheckPasswordHash("", hash))
}

func TestCheckPasswordHash_InvalidHash(t *testing.T) {
	assert.False(t, CheckPasswordHash("123456", "invalidhash"))
}

func TestHashPassword_MaxLength(t *testing.T) {
	_, err := HashPassword(strings.Repeat("a", MaxPasswordBytes))
	require.NoError(t, err)

	_, err = HashPassword(strings.Repeat("a", MaxPasswordBytes+1))
	assert.ErrorIs(t, err, bcrypt.ErrPasswordTooLong)
}
