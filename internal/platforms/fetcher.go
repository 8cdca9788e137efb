// Package platforms retrieves content metadata from the supported
// platforms. YouTube lookups hit the public video API; ServiceNow and
// LinkedIn return fixed-shape placeholder records because neither
// offers an unauthenticated metadata endpoint.
package platforms

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/templegit9/contracker-single/internal/models"
)

const defaultYouTubeBaseURL = "https://www.googleapis.com/youtube/v3"

// Fetcher resolves (platform, content id) pairs to metadata using the
// caller's APIConfig.
type Fetcher struct {
	httpClient     *http.Client
	youtubeBaseURL string
	logger         *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithYouTubeBaseURL overrides the video API endpoint (tests).
func WithYouTubeBaseURL(base string) Option {
	return func(f *Fetcher) { f.youtubeBaseURL = base }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) { f.httpClient = c }
}

func NewFetcher(logger *slog.Logger, opts ...Option) *Fetcher {
	f := &Fetcher{
		httpClient:     &http.Client{Timeout: 10 * time.Second},
		youtubeBaseURL: defaultYouTubeBaseURL,
		logger:         logger,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch dispatches to the platform-specific lookup.
func (f *Fetcher) Fetch(ctx context.Context, platform models.Platform, contentID string, cfg models.APIConfig) (models.ContentInfo, error) {
	switch platform {
	case models.PlatformYouTube:
		return f.fetchYouTube(ctx, contentID, cfg.YouTube)
	case models.PlatformServiceNow:
		return f.fetchServiceNow(ctx, contentID, cfg.ServiceNow)
	case models.PlatformLinkedIn:
		return f.fetchLinkedIn(ctx, contentID, cfg.LinkedIn)
	default:
		return models.ContentInfo{}, fmt.Errorf("%w: %s", models.ErrUnknownPlatform, platform)
	}
}

type youtubeVideoResponse struct {
	Items []struct {
		Snippet struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			PublishedAt string `json:"publishedAt"`
			Thumbnails  struct {
				Default struct {
					URL string `json:"url"`
				} `json:"default"`
			} `json:"thumbnails"`
		} `json:"snippet"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
	} `json:"items"`
}

// fetchYouTube requires an API key, but network and parse failures do
// not propagate: they degrade to a placeholder record so that a flaky
// lookup never blocks adding content. The asymmetry (loud on missing
// config, silent on transport failure) is intentional.
func (f *Fetcher) fetchYouTube(ctx context.Context, videoID string, cfg models.YouTubeConfig) (models.ContentInfo, error) {
	if cfg.APIKey == "" {
		return models.ContentInfo{}, fmt.Errorf("%w: YouTube API key is not set", models.ErrMissingConfig)
	}

	q := url.Values{}
	q.Set("id", videoID)
	q.Set("key", cfg.APIKey)
	q.Set("part", "snippet,contentDetails")
	endpoint := f.youtubeBaseURL + "/videos?" + q.Encode()

	info, err := f.requestYouTube(ctx, endpoint)
	if err != nil {
		f.logger.Warn("YouTube lookup failed, using placeholder metadata", "video_id", videoID, "error", err)
		return youtubePlaceholder(videoID), nil
	}
	info.ThumbnailURL = fmt.Sprintf("https://img.youtube.com/vi/%s/0.jpg", videoID)
	return info, nil
}

func (f *Fetcher) requestYouTube(ctx context.Context, endpoint string) (models.ContentInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return models.ContentInfo{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return models.ContentInfo{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return models.ContentInfo{}, fmt.Errorf("video API returned status %d", resp.StatusCode)
	}

	var body youtubeVideoResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return models.ContentInfo{}, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(body.Items) == 0 {
		return models.ContentInfo{}, fmt.Errorf("video not found")
	}

	item := body.Items[0]
	return models.ContentInfo{
		Title:         item.Snippet.Title,
		Description:   item.Snippet.Description,
		PublishedDate: item.Snippet.PublishedAt,
		Duration:      FormatISODuration(item.ContentDetails.Duration),
	}, nil
}

func youtubePlaceholder(videoID string) models.ContentInfo {
	return models.ContentInfo{
		Title:         "YouTube Video - " + videoID,
		Description:   "This is a sample description for the YouTube video.",
		PublishedDate: time.Now().UTC().Format(time.RFC3339),
		Duration:      "0:00",
		ThumbnailURL:  fmt.Sprintf("https://img.youtube.com/vi/%s/0.jpg", videoID),
	}
}

func (f *Fetcher) fetchServiceNow(_ context.Context, articleID string, cfg models.ServiceNowConfig) (models.ContentInfo, error) {
	if cfg.Instance == "" {
		return models.ContentInfo{}, fmt.Errorf("%w: ServiceNow instance is not set", models.ErrMissingConfig)
	}

	return models.ContentInfo{
		Title:         "ServiceNow Article - " + articleID,
		Description:   "This is a sample description for the ServiceNow article.",
		PublishedDate: time.Now().UTC().Format(time.RFC3339),
		Author:        "ServiceNow User",
	}, nil
}

func (f *Fetcher) fetchLinkedIn(_ context.Context, postID string, cfg models.LinkedInConfig) (models.ContentInfo, error) {
	if cfg.ClientID == "" {
		return models.ContentInfo{}, fmt.Errorf("%w: LinkedIn API credentials are not set", models.ErrMissingConfig)
	}

	return models.ContentInfo{
		Title:         "LinkedIn Post - " + postID,
		Description:   "This is a sample description for the LinkedIn post.",
		PublishedDate: time.Now().UTC().Format(time.RFC3339),
		Author:        "LinkedIn User",
	}, nil
}
