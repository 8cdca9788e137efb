package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewID(t *testing.T) {
	a := NewID()
	b := NewID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}

func TestGenerateAPIKey(t *testing.T) {
	key := GenerateAPIKey()
	assert.Len(t, key, 36) // UUID string form
}
