// Package cache provides the small key-value cache used for geocoded
// coordinates. Two backends exist: Redis for multi-process deployments
// and a bounded in-memory map for the default single-process case.
//
// Cache misses and backend failures are indistinguishable to callers on
// purpose: a quote must never fail because the cache is down, only fall
// back to a live lookup.
package cache

import (
	"context"
	"fmt"
	"time"
)

type Cache interface {
	// Set stores value under key for at most ttl. A zero ttl means the
	// backend's default retention.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	// Get returns the cached value, or "" when the key is absent.
	Get(ctx context.Context, key string) (string, error)
	// GenerateKey namespaces a key by service and operation.
	GenerateKey(operation, key string) string
}

func generateKey(serviceName, operation, key string) string {
	return fmt.Sprintf("%s:%s:%s", serviceName, operation, key)
}
