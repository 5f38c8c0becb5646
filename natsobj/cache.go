package natsobj

import (
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

// cacheEntry represents a cached object with thread-safe access.
type cacheEntry struct {
	info      *nats.ObjectInfo // Stores NATS object metadata
	data      []byte           // Actual object data
	expiry    time.Time        // When this cache entry expires
	accessing sync.RWMutex     // Mutex for thread-safe access
}

// newCacheEntry creates a new cache entry with the provided object info,
// data and TTL duration. The entry expires after the TTL elapses.
func newCacheEntry(info *nats.ObjectInfo, data []byte, ttl time.Duration) *cacheEntry {
	return &cacheEntry{
		info:   info,
		data:   data,
		expiry: time.Now().Add(ttl),
	}
}

// isExpired checks if the cache entry has expired based on its expiry time.
func (ce *cacheEntry) isExpired() bool {
	return time.Now().After(ce.expiry)
}

// getData retrieves the cached data in a thread-safe manner.
// Returns an error if the cache entry has expired.
func (ce *cacheEntry) getData() ([]byte, error) {
	ce.accessing.RLock()
	defer ce.accessing.RUnlock()

	if ce.isExpired() {
		return nil, fmt.Errorf("cache entry expired")
	}
	return ce.data, nil
}

// getInfo retrieves the cached object info in a thread-safe manner.
// Returns an error if the cache entry has expired.
func (ce *cacheEntry) getInfo() (*nats.ObjectInfo, error) {
	ce.accessing.RLock()
	defer ce.accessing.RUnlock()

	if ce.isExpired() {
		return nil, fmt.Errorf("cache entry expired")
	}
	return ce.info, nil
}
