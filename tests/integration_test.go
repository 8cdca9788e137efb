package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templegit9/contracker-single/internal/config"
	"github.com/templegit9/contracker-single/internal/handlers"
	"github.com/templegit9/contracker-single/internal/models"
	"github.com/templegit9/contracker-single/internal/repository"
	"github.com/templegit9/contracker-single/internal/services"
)

type stubFetcher struct{}

func (stubFetcher) Fetch(ctx context.Context, platform models.Platform, contentID string, cfg models.APIConfig) (models.ContentInfo, error) {
	return models.ContentInfo{Title: "Stub " + contentID, PublishedDate: "2024-06-01"}, nil
}

// setupRouter builds the full stack on an in-memory sqlite database,
// the same code path production takes minus redis and geoip.
func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := repository.InitDB("sqlite://:memory:")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&repository.KVRecord{}))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.Config{SessionSecret: "integration-secret-1234567890123456"}

	store := repository.NewGormStore(db)
	identity := services.NewIdentityService(store, logger)
	content := services.NewContentService(store, stubFetcher{}, logger)
	audit := services.NewAuditService(store, logger, nil)

	h := handlers.NewHandler(cfg, logger, identity, content, audit)
	return h.SetupRouter(nil)
}

func doJSON(r *gin.Engine, method, path string, body any, apiKey string) *httptest.ResponseRecorder {
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

func TestFullUserJourney(t *testing.T) {
	r := setupRouter(t)

	// 1. Register
	w := doJSON(r, "POST", "/api/register", map[string]string{
		"name":     "Integration User",
		"email":    "journey@example.com",
		"password": "password123",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	var reg struct {
		User models.PublicUser `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reg))
	apiKey := reg.User.APIKey
	require.NotEmpty(t, apiKey)

	// 2. Login
	w = doJSON(r, "POST", "/api/login", map[string]string{
		"email":    "journey@example.com",
		"password": "password123",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	// 3. Configure platform credentials
	w = doJSON(r, "PUT", "/api/v1/settings", map[string]any{
		"youtube": map[string]string{"apiKey": "yt-key"},
	}, apiKey)
	require.Equal(t, http.StatusOK, w.Code)

	// 4. Add content across platforms
	var first models.ContentItem
	for _, c := range []struct{ url, platform string }{
		{"https://www.youtube.com/watch?v=abc123", "youtube"},
		{"https://www.linkedin.com/posts/some-post", "linkedin"},
		{"https://company.service-now.com/kb_view.do?sys_kb_id=xyz", "servicenow"},
	} {
		w = doJSON(r, "POST", "/api/v1/content", map[string]string{
			"url":      c.url,
			"platform": c.platform,
			"name":     "Item on " + c.platform,
		}, apiKey)
		require.Equal(t, http.StatusCreated, w.Code, c.url)
		if first.ID == "" {
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))
		}
	}

	// 5. Duplicate registration is rejected
	w = doJSON(r, "POST", "/api/v1/content", map[string]string{
		"url":      "http://youtube.com/watch?v=abc123/",
		"platform": "youtube",
	}, apiKey)
	assert.Equal(t, http.StatusConflict, w.Code)

	// 6. Refresh engagement and read the dashboard
	w = doJSON(r, "POST", "/api/v1/engagement/refresh", nil, apiKey)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, "GET", "/api/v1/stats", nil, apiKey)
	require.Equal(t, http.StatusOK, w.Code)

	var stats models.Stats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 3, stats.TotalContent)
	assert.NotEqual(t, "none", stats.TopPlatform)
	assert.Len(t, stats.EngagementsByPlatform, 3)

	// 7. Export, wipe one item, re-import
	w = doJSON(r, "GET", "/api/v1/export", nil, apiKey)
	require.Equal(t, http.StatusOK, w.Code)
	var bundle models.ExportBundle
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &bundle))
	require.Len(t, bundle.ContentItems, 3)

	w = doJSON(r, "DELETE", "/api/v1/content/"+first.ID, nil, apiKey)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, "POST", "/api/v1/import", bundle, apiKey)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, "GET", "/api/v1/content", nil, apiKey)
	var items []models.ContentItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	assert.Len(t, items, 3)

	// 8. Delete account and verify access is gone
	w = doJSON(r, "DELETE", "/api/v1/auth/account", nil, apiKey)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, "GET", "/api/v1/content", nil, apiKey)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUserIsolation(t *testing.T) {
	r := setupRouter(t)

	register := func(email string) string {
		w := doJSON(r, "POST", "/api/register", map[string]string{
			"name":     "User",
			"email":    email,
			"password": "password123",
		}, "")
		require.Equal(t, http.StatusCreated, w.Code)
		var reg struct {
			User models.PublicUser `json:"user"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reg))
		return reg.User.APIKey
	}

	alice := register("alice@example.com")
	bob := register("bob@example.com")

	w := doJSON(r, "POST", "/api/v1/content", map[string]string{
		"url":      "https://youtu.be/only-alice",
		"platform": "youtube",
	}, alice)
	require.Equal(t, http.StatusCreated, w.Code)

	var item models.ContentItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &item))

	// Bob cannot see or touch Alice's content
	w = doJSON(r, "GET", "/api/v1/content", nil, bob)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())

	w = doJSON(r, "GET", "/api/v1/content/"+item.ID, nil, bob)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Bob can register the same URL in his own collection
	w = doJSON(r, "POST", "/api/v1/content", map[string]string{
		"url":      "https://youtu.be/only-alice",
		"platform": "youtube",
	}, bob)
	assert.Equal(t, http.StatusCreated, w.Code)
}
