package models

import (
	"time"
)

// EngagementSnapshot is one timestamped measurement of engagement
// metrics for a content URL. Snapshots only accumulate; the current
// value for a URL is the snapshot with the max timestamp. They are
// removed solely as a cascade of content deletion.
type EngagementSnapshot struct {
	ContentURL     string    `json:"contentUrl"` // normalized
	Platform       Platform  `json:"platform"`
	Views          int       `json:"views"`
	Likes          int       `json:"likes"`
	Comments       int       `json:"comments"`
	WatchTimeHours float64   `json:"watchTimeHours,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// Stats is the dashboard aggregate: totals across the latest snapshot
// of every URL, plus view counts bucketed by platform. TopPlatform is
// "none" when every bucket is zero.
type Stats struct {
	TotalContent          int              `json:"totalContent"`
	TotalViews            int              `json:"totalViews"`
	TotalLikes            int              `json:"totalLikes"`
	TotalComments         int              `json:"totalComments"`
	TopPlatform           string           `json:"topPlatform"`
	EngagementsByPlatform map[Platform]int `json:"engagementsByPlatform"`
}
