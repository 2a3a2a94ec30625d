package ogcache

import (
	"container/list"
	"sync"
	"time"
)

// DefaultMaxSize is the capacity used when Options.MaxSize is not set.
const DefaultMaxSize = 50

// Cache is a bounded in-memory key/value store with LRU eviction and
// optional TTL expiration. It is safe for concurrent use by multiple
// goroutines.
type Cache[K comparable, V any] struct {
	mutex sync.Mutex
	index map[K]*list.Element
	order *list.List // front = most recently used, back = least recently used
	max   int
	ttl   time.Duration
	now   func() time.Time
}

type cacheEntry[K comparable, V any] struct {
	key       K
	value     V
	expiresAt time.Time
}

// expired reports whether the entry's deadline has passed.
// A zero expiresAt means the entry never expires.
func (e *cacheEntry[K, V]) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// Options configures a Cache.
type Options struct {
	// MaxSize is the maximum number of entries held at once.
	// If 0 or negative, DefaultMaxSize is used.
	MaxSize int

	// TTL specifies the time-to-live applied to every entry on Set.
	// If 0 or negative, entries never expire.
	TTL time.Duration

	// Now returns the current time. Defaults to time.Now.
	// Tests substitute a controllable clock here to exercise TTL
	// boundaries without sleeping.
	Now func() time.Time
}
