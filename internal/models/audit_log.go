package models

import (
	"time"
)

// AuditLog records one user-visible action, e.g. "LOGIN", "ADD_CONTENT",
// "DELETE_ACCOUNT". Entries are enriched asynchronously (user agent,
// GeoIP) before being appended to the audit trail.
type AuditLog struct {
	UserID     string    `json:"userId,omitempty"` // empty for failed logins
	Action     string    `json:"action"`
	EntityID   string    `json:"entityId,omitempty"`
	Details    string    `json:"details,omitempty"` // JSON-encoded
	IPAddress  string    `json:"ipAddress"`         // masked before storage
	Country    string    `json:"country,omitempty"`
	Browser    string    `json:"browser,omitempty"`
	OS         string    `json:"os,omitempty"`
	DeviceType string    `json:"deviceType,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}
