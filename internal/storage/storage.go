// Package storage defines the key-value backend capability the store is
// built on, plus the durable and in-memory implementations.
package storage

import "context"

// Backend is the minimal asynchronous key-value capability required by
// the namespaced store. A missing key is not an error: Get reports
// presence explicitly so callers can apply default-value semantics.
type Backend interface {
	// Get returns the raw value for key and whether it exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores the raw value under key, overwriting any prior value.
	Set(ctx context.Context, key string, value []byte) error

	// BatchSet stores every entry in a single backend call. Callers must
	// not rely on cross-key atomicity; see the store's BatchWrite.
	BatchSet(ctx context.Context, values map[string][]byte) error

	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
