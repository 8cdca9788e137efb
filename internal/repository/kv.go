// Package repository provides the key-value persistence layer. All
// application state lives in JSON blobs behind the Store contract;
// there are no cross-key transactions.
package repository

import (
	"context"
	"fmt"
)

// Store is the key-value persistence contract. Get returns found=false
// (not an error) for an absent key. Values are opaque to the store;
// callers serialize.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

// Well-known keys. Per-user state is namespaced by user id.
const (
	UsersKey    = "users"
	AuditLogKey = "auditLog"
)

func UserContentKey(userID string) string {
	return fmt.Sprintf("user_%s_contentItems", userID)
}

func UserEngagementKey(userID string) string {
	return fmt.Sprintf("user_%s_engagementData", userID)
}

func UserAPIConfigKey(userID string) string {
	return fmt.Sprintf("user_%s_apiConfig", userID)
}
