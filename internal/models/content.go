package models

import (
	"time"
)

// ContentItem is a tracked piece of content. IDs are generated
// server-side and are unique within the owning user's collection; the
// normalized URL is the dedup key.
type ContentItem struct {
	ID            string     `json:"id"`
	URL           string     `json:"url"`
	Platform      Platform   `json:"platform"`
	Name          string     `json:"name"`
	Description   string     `json:"description,omitempty"`
	PublishedDate string     `json:"publishedDate"`
	Duration      string     `json:"duration,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	LastUpdated   *time.Time `json:"lastUpdated,omitempty"`
}

// ContentInfo is the metadata a platform lookup returns for a content
// id. It is never persisted directly; callers copy fields into a
// ContentItem.
type ContentInfo struct {
	Title         string `json:"title"`
	Description   string `json:"description,omitempty"`
	PublishedDate string `json:"publishedDate"`
	Duration      string `json:"duration,omitempty"`
	Author        string `json:"author,omitempty"`
	ThumbnailURL  string `json:"thumbnailUrl,omitempty"`
}
