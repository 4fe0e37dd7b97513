package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers request keys so retried writes are served the
// first outcome instead of being applied twice.
type IdempotencyStore interface {
	// MarkProcessed marks a key as seen with a TTL.
	// Returns true if the key was newly marked, false if it was already seen.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsProcessed checks whether a key has already been seen
	IsProcessed(ctx context.Context, key string) (bool, error)

	// Close closes the store and releases resources
	Close() error
}
