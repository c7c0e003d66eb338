package ports

import "context"

// Volatile key -> result store for successful road-distance lookups.
// Implementations must be safe for concurrent use.
type DistanceCache interface {
	// Return the cached result and whether the key was present.
	Get(ctx context.Context, key string) (DistanceResult, bool, error)
	Put(ctx context.Context, key string, result DistanceResult) error
}
