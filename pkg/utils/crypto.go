package utils

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// HashPassword computes the stored form of a password. Deliberately an
// unsalted SHA-256 hex digest: login compares the recomputed digest
// against the stored one, so the hash must be deterministic.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// CheckPasswordHash reports whether password hashes to hash.
func CheckPasswordHash(password, hash string) bool {
	computed := HashPassword(password)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(hash)) == 1
}
