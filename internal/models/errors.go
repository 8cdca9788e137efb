package models

import "errors"

// Every store operation surfaces one of these sentinels (possibly
// wrapped); handlers map them onto HTTP statuses. Anything else is
// treated as unexpected and reported as a 500.
var (
	// Identity
	ErrDuplicateEmail     = errors.New("a user with this email already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailInUse         = errors.New("email is already in use by another account")
	ErrNotAuthenticated   = errors.New("no authenticated user")

	// Content
	ErrDuplicateURL    = errors.New("content with this URL already exists")
	ErrNotFound        = errors.New("content item not found")
	ErrUnknownPlatform = errors.New("unknown platform")

	// Platform APIs
	ErrMissingConfig = errors.New("platform API is not configured")

	// Import
	ErrInvalidFormat = errors.New("invalid import data format")
)
