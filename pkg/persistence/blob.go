// Package persistence provides the key-value blob storage abstraction used
// to durably save automation rules and application settings.
package persistence

import "context"

// BlobRepository stores opaque string blobs under fixed keys. Implementations
// exist for file, redis, postgres and in-memory backends, selected by the
// database URL scheme.
type BlobRepository interface {
	// Get returns the blob stored under key. The boolean reports whether
	// the key exists; an absent key is not an error.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores value under key, replacing any previous blob.
	Set(ctx context.Context, key, value string) error

	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}
