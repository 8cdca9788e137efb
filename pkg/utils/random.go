package utils

import (
	"github.com/google/uuid"
)

// NewID generates an identifier for users and content items.
func NewID() string {
	return uuid.NewString()
}

// GenerateAPIKey generates a UUID string to be used as an API key
func GenerateAPIKey() string {
	return uuid.NewString()
}
