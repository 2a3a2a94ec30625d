// Package ogcache provides a bounded in-memory cache with LRU eviction
// and TTL expiration. It is designed to be simple and safe for
// concurrent use.
package ogcache

import (
	"container/list"
	"fmt"
	"time"
)

// New returns a pointer to an empty instance of Cache configured by opts.
func New[K comparable, V any](opts Options) *Cache[K, V] {
	size := opts.MaxSize
	if size <= 0 {
		size = DefaultMaxSize
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Cache[K, V]{
		index: map[K]*list.Element{},
		order: list.New(),
		max:   size,
		ttl:   max(opts.TTL, 0),
		now:   now,
	}
}

// Set stores value under the given key. If the key is already present,
// live or expired, its entry is replaced. If the cache is full, the
// least recently used entry is evicted first. Overwriting an existing
// key never evicts an unrelated key, and the capacity bound holds the
// moment Set returns.
func (c *Cache[K, V]) Set(key K, value V) {
	now := c.now()

	c.mutex.Lock()
	defer c.mutex.Unlock()

	if el, ok := c.index[key]; ok {
		c.remove(el)
	}

	if len(c.index) >= c.max {
		if oldest := c.order.Back(); oldest != nil {
			c.remove(oldest)
		}
	}

	var expiresAt time.Time
	if c.ttl > 0 {
		expiresAt = now.Add(c.ttl)
	}

	c.index[key] = c.order.PushFront(&cacheEntry[K, V]{key, value, expiresAt})
}

// Get returns the value stored under the given key. A hit counts as a
// use and promotes the key to most recently used. If the key is missing
// or its TTL has passed, ok is false; an expired entry is removed on
// the way out.
func (c *Cache[K, V]) Get(key K) (value V, ok bool) {
	now := c.now()

	c.mutex.Lock()
	defer c.mutex.Unlock()

	el, found := c.index[key]
	if !found {
		return value, false
	}

	entry := el.Value.(*cacheEntry[K, V])
	if entry.expired(now) {
		c.remove(el)
		return value, false
	}

	c.order.MoveToFront(el)

	return entry.value, true
}

// Has reports whether a live entry exists for the given key. Expiry is
// handled exactly as in Get, including removal of an expired entry, but
// a hit does not promote the key: membership tests are not uses.
func (c *Cache[K, V]) Has(key K) bool {
	now := c.now()

	c.mutex.Lock()
	defer c.mutex.Unlock()

	el, found := c.index[key]
	if !found {
		return false
	}

	if el.Value.(*cacheEntry[K, V]).expired(now) {
		c.remove(el)
		return false
	}

	return true
}

// Delete removes the entry for the given key, expired or not.
// It returns whether an entry was removed.
func (c *Cache[K, V]) Delete(key K) bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	el, found := c.index[key]
	if found {
		c.remove(el)
	}

	return found
}

// Clear empties the cache, discarding all entries and recency state.
func (c *Cache[K, V]) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.index = map[K]*list.Element{}
	c.order.Init()
}

// Len returns the number of entries currently occupying the cache.
// Entries whose TTL has passed still count until an access sweeps them;
// Get and Has reflect logical presence, Len reflects physical occupancy.
func (c *Cache[K, V]) Len() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return len(c.index)
}

// String returns a summary string in the format `Cache(len={int} max={int})`.
// It implements the fmt.Stringer interface.
func (c *Cache[K, V]) String() string {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return fmt.Sprintf("Cache(len=%d max=%d)", len(c.index), c.max)
}

// remove unlinks an entry from both the index and the recency list.
// Callers must hold the mutex.
func (c *Cache[K, V]) remove(el *list.Element) {
	delete(c.index, el.Value.(*cacheEntry[K, V]).key)
	c.order.Remove(el)
}
