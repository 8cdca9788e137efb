package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashPassword(t *testing.T) {
	password := "my-secure-password"
	hash := HashPassword(password)

	assert.NotEmpty(t, hash)
	assert.NotEqual(t, password, hash)
	// Deterministic: login recomputes and compares.
	assert.Equal(t, hash, HashPassword(password))
	assert.Len(t, hash, 64)
}

func TestCheckPasswordHash(t *testing.T) {
	password := "my-secure-password"
	wrongPassword := "wrong-password"
	hash := HashPassword(password)

	assert.True(t, CheckPasswordHash(password, hash))
	assert.False(t, CheckPasswordHash(wrongPassword, hash))
}
