package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"

	"github.com/templegit9/contracker-single/internal/config"
	"github.com/templegit9/contracker-single/internal/models"
	"github.com/templegit9/contracker-single/internal/repository"
	"github.com/templegit9/contracker-single/internal/services"
)

type fakeFetcher struct{}

func (f *fakeFetcher) Fetch(ctx context.Context, platform models.Platform, contentID string, cfg models.APIConfig) (models.ContentInfo, error) {
	return models.ContentInfo{
		Title:         "Fetched " + contentID,
		PublishedDate: "2024-01-01",
		Duration:      "3:45",
	}, nil
}

func setupTestHandler() (*Handler, repository.Store) {
	store := repository.NewMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.Config{
		SessionSecret: "test-secret-12345678901234567890123456789012",
	}

	identity := services.NewIdentityService(store, logger)
	content := services.NewContentService(store, &fakeFetcher{}, logger)
	audit := services.NewAuditService(store, logger, nil)

	h := NewHandler(cfg, logger, identity, content, audit)
	return h, store
}

func setupTestRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return h.SetupRouter(nil)
}

func performJSON(r *gin.Engine, method, path string, body any, apiKey string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// registerTestUser creates a user through the API and returns its key.
func registerTestUser(r *gin.Engine, email string) string {
	w := performJSON(r, "POST", "/api/register", map[string]string{
		"name":     "Test User",
		"email":    email,
		"password": "password123",
	}, "")

	var resp struct {
		User models.PublicUser `json:"user"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp.User.APIKey
}
