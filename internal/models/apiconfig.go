package models

import (
	"time"
)

// APIConfig holds the per-user platform credentials. Stored as-is
// (plaintext) with replace-on-save semantics; there is no sub-object
// merge beyond the shallow struct overwrite.
type APIConfig struct {
	YouTube    YouTubeConfig    `json:"youtube"`
	ServiceNow ServiceNowConfig `json:"servicenow"`
	LinkedIn   LinkedInConfig   `json:"linkedin"`
}

type YouTubeConfig struct {
	APIKey string `json:"apiKey"`
}

type ServiceNowConfig struct {
	Instance string `json:"instance"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type LinkedInConfig struct {
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
}

// ExportBundle is the downloadable per-user snapshot. Import requires
// ContentItems and EngagementData to be present (not merely empty).
type ExportBundle struct {
	ContentItems   []ContentItem        `json:"contentItems"`
	EngagementData []EngagementSnapshot `json:"engagementData"`
	APIConfig      *APIConfig           `json:"apiConfig,omitempty"`
	ExportDate     time.Time            `json:"exportDate"`
	User           ExportUser           `json:"user"`
}

// ExportUser is the minimal identity embedded in an export file.
type ExportUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
