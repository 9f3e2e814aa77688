// Package metadata stores client-local sync state (the lastSyncAt cursor,
// the device identity and its token) in a small key/value table.
package metadata

import "context"

// Keys used by the sync client.
const (
	KeyLastSyncAt  = "lastSyncAt"
	KeyDeviceID    = "deviceId"
	KeyDeviceToken = "deviceToken"
)

type Repository interface {
	// Get returns the stored value, or nil when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores or replaces a value.
	Set(ctx context.Context, key string, value []byte) error

	// GetInt64 reads an integer value; an absent key reads as 0, which is
	// exactly what a never-synced cursor must be.
	GetInt64(ctx context.Context, key string) (int64, error)

	// SetInt64 stores an integer value.
	SetInt64(ctx context.Context, key string, value int64) error
}
