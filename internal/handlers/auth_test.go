package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templegit9/contracker-single/internal/models"
)

func TestAuthHandlers(t *testing.T) {
	h, _ := setupTestHandler()
	r := setupTestRouter(h)

	t.Run("Register success", func(t *testing.T) {
		w := performJSON(r, "POST", "/api/register", map[string]string{
			"name":     "Test User",
			"email":    "test@example.com",
			"password": "password123",
		}, "")

		assert.Equal(t, http.StatusCreated, w.Code)

		var resp struct {
			User models.PublicUser `json:"user"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "test@example.com", resp.User.Email)
		assert.NotEmpty(t, resp.User.APIKey)
		assert.NotContains(t, w.Body.String(), "passwordHash")
	})

	t.Run("Register conflict", func(t *testing.T) {
		w := performJSON(r, "POST", "/api/register", map[string]string{
			"name":     "Other",
			"email":    "test@example.com",
			"password": "password123",
		}, "")

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Register invalid input", func(t *testing.T) {
		w := performJSON(r, "POST", "/api/register", map[string]string{
			"name":  "Test",
			"email": "not-an-email",
		}, "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Login success sets session cookie", func(t *testing.T) {
		w := performJSON(r, "POST", "/api/login", map[string]any{
			"email":    "test@example.com",
			"password": "password123",
		}, "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Result().Cookies())
	})

	t.Run("Login remember me extends cookie", func(t *testing.T) {
		w := performJSON(r, "POST", "/api/login", map[string]any{
			"email":      "test@example.com",
			"password":   "password123",
			"rememberMe": true,
		}, "")

		assert.Equal(t, http.StatusOK, w.Code)
		cookies := w.Result().Cookies()
		require.NotEmpty(t, cookies)
		assert.Equal(t, rememberMeMaxAge, cookies[0].MaxAge)
	})

	t.Run("Login wrong password", func(t *testing.T) {
		w := performJSON(r, "POST", "/api/login", map[string]any{
			"email":    "test@example.com",
			"password": "wrong",
		}, "")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Login unknown email looks identical", func(t *testing.T) {
		w := performJSON(r, "POST", "/api/login", map[string]any{
			"email":    "nobody@example.com",
			"password": "password123",
		}, "")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid credentials")
	})

	t.Run("Protected route requires auth", func(t *testing.T) {
		w := performJSON(r, "GET", "/api/v1/auth/me", nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("API key auth", func(t *testing.T) {
		key := registerTestUser(r, "apikey@example.com")

		w := performJSON(r, "GET", "/api/v1/auth/me", nil, key)
		assert.Equal(t, http.StatusOK, w.Code)

		var user models.PublicUser
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
		assert.Equal(t, "apikey@example.com", user.Email)
	})

	t.Run("Invalid API key", func(t *testing.T) {
		w := performJSON(r, "GET", "/api/v1/auth/me", nil, "not-a-key")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Update profile", func(t *testing.T) {
		key := registerTestUser(r, "profile@example.com")

		w := performJSON(r, "PUT", "/api/v1/auth/profile", map[string]string{
			"name":     "Renamed",
			"photoUrl": "https://example.com/p.png",
		}, key)

		assert.Equal(t, http.StatusOK, w.Code)

		var user models.PublicUser
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
		assert.Equal(t, "Renamed", user.Name)
		assert.Equal(t, "https://example.com/p.png", user.PhotoURL)
	})

	t.Run("Update password wrong current", func(t *testing.T) {
		key := registerTestUser(r, "pw@example.com")

		w := performJSON(r, "PUT", "/api/v1/auth/password", map[string]string{
			"currentPassword": "wrong",
			"newPassword":     "newpassword",
		}, key)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Update email in use", func(t *testing.T) {
		key := registerTestUser(r, "mail1@example.com")
		registerTestUser(r, "mail2@example.com")

		w := performJSON(r, "PUT", "/api/v1/auth/email", map[string]string{
			"password": "password123",
			"newEmail": "mail2@example.com",
		}, key)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Regenerate API key invalidates old", func(t *testing.T) {
		key := registerTestUser(r, "rotate@example.com")

		w := performJSON(r, "POST", "/api/v1/auth/apikey", nil, key)
		assert.Equal(t, http.StatusOK, w.Code)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		newKey := resp["apiKey"]
		assert.NotEqual(t, key, newKey)

		assert.Equal(t, http.StatusUnauthorized, performJSON(r, "GET", "/api/v1/auth/me", nil, key).Code)
		assert.Equal(t, http.StatusOK, performJSON(r, "GET", "/api/v1/auth/me", nil, newKey).Code)
	})

	t.Run("Delete account", func(t *testing.T) {
		key := registerTestUser(r, "gone@example.com")

		w := performJSON(r, "DELETE", "/api/v1/auth/account", nil, key)
		assert.Equal(t, http.StatusOK, w.Code)

		assert.Equal(t, http.StatusUnauthorized, performJSON(r, "GET", "/api/v1/auth/me", nil, key).Code)
	})

	t.Run("Logout", func(t *testing.T) {
		w := performJSON(r, "POST", "/logout", nil, "")
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
