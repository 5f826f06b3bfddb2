// Package cache holds small in-process caches.
package cache

// Cache defines a generic cache interface
type Cache[T any] interface {
	// Get retrieves a live value from the cache
	Get(key string) (T, bool)

	// Set stores a value in the cache
	Set(key string, data T)

	// Delete removes a key from the cache
	Delete(key string)

	// Len returns the number of entries, expired ones included
	Len() int
}
