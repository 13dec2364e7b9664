// Package kv provides the small key-value store the streak tracker persists
// its state into, separate from the task document store.
package kv

import "context"

// Store holds opaque values under well-known keys across sessions.
type Store interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores the value under key, overwriting any previous value.
	Set(ctx context.Context, key string, value []byte) error
}
