package cache

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Cache defines the interface for caching operations
type Cache interface {
	// Get retrieves a value from the cache
	// Returns the value and a boolean indicating whether the key was found
	Get(ctx context.Context, key string) (interface{}, bool)

	// Set adds a value to the cache with the specified expiration
	// If expiration is 0, the item never expires (but may be evicted)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration)

	// Delete removes a key from the cache
	Delete(ctx context.Context, key string)

	// DeleteByPrefix removes all keys with the given prefix
	DeleteByPrefix(ctx context.Context, prefix string)

	// Flush removes all items from the cache
	Flush(ctx context.Context)
}

// Predefined cache key prefixes for different entity types.
// Only read paths are cached; usage and sequence counters are never cached
// because the store is the sole authority for them.
const (
	PrefixAccount = "account:v1:"
	PrefixPlan    = "plan:v1:"
)

// GenerateKey builds a cache key from a prefix, the tenant scope, and parts
func GenerateKey(prefix string, tenantID string, parts ...interface{}) string {
	var sb strings.Builder
	sb.WriteString(prefix)
	sb.WriteString(tenantID)
	for _, part := range parts {
		sb.WriteString(":")
		sb.WriteString(fmt.Sprintf("%v", part))
	}
	return sb.String()
}
