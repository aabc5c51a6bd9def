// Package settings persists process-wide key-value settings: the sync
// interval, the auto-sync enable flag and the pull/push watermarks.
package settings

import "context"

// Keys used by the sync engine. Values are string-typed.
const (
	KeySyncInterval      = "syncInterval"      // interval in milliseconds
	KeyAutoSyncEnabled   = "autoSyncEnabled"   // "true" / "false"
	KeyLastSyncFromCloud = "lastSyncFromCloud" // RFC3339 pull watermark
	KeyLastSyncTime      = "lastSyncTime"      // RFC3339 time of last push
)

// Repository is a string key-value store. Get returns "" for missing keys.
type Repository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
