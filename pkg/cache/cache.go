// Package cache provides byte caches for built graph elements.
//
// The server caches the element sequence per document name so repeated views
// of the same document skip the document load and transformation. Two
// backends are provided: an in-process Memory cache for single-instance
// deployments and a Redis cache for multi-instance ones.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys with optional TTL.
type Cache interface {
	// Get retrieves a value. The boolean reports whether the key was found;
	// an expired or missing key is a miss, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// ElementsKey builds the cache key for a document's built elements.
// The key embeds the source name so switching sources cannot serve elements
// built from another backend's document of the same name.
func ElementsKey(sourceName, document string) string {
	return "chainviz:elements:" + sourceName + ":" + document
}
