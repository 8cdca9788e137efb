package models

import (
	"time"
)

// User is the stored user record. Its JSON form is what the KV store
// persists under the "users" key, so the password hash is part of it;
// API responses must go through Public() instead.
type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"passwordHash"`
	PhotoURL     string     `json:"photoUrl,omitempty"`
	APIKey       string     `json:"apiKey"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty"`
}

// PublicUser is the view of a user handed to clients. It never carries
// the password hash.
type PublicUser struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	PhotoURL  string    `json:"photoUrl,omitempty"`
	APIKey    string    `json:"apiKey"`
	CreatedAt time.Time `json:"createdAt"`
}

// Public strips the credential material from a stored user.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		PhotoURL:  u.PhotoURL,
		APIKey:    u.APIKey,
		CreatedAt: u.CreatedAt,
	}
}
