package cache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"openroutersidebar/internal/core"
)

// LRUCache is a thread-safe LRU cache with per-entry expiration.
// A non-positive TTL stores an entry that is already expired.
type LRUCache struct {
	capacity int
	items    map[string]*list.Element
	order    *list.List
	mu       sync.Mutex
	ctx      context.Context
	cancel   context.CancelFunc
}

type entry struct {
	key        string
	value      any
	expiration time.Time
}

// NewCache creates an LRU cache with the default capacity.
func NewCache() *LRUCache {
	return NewCacheWithCapacity(core.CacheDefaultCapacity)
}

// NewCacheWithCapacity creates an LRU cache holding at most capacity entries.
func NewCacheWithCapacity(capacity int) *LRUCache {
	if capacity <= 0 {
		capacity = core.CacheDefaultCapacity
	}
	ctx, cancel := context.WithCancel(context.Background())
	c := &LRUCache{
		capacity: capacity,
		items:    make(map[string]*list.Element),
		order:    list.New(),
		ctx:      ctx,
		cancel:   cancel,
	}

	go c.startCleanupWorker(core.CacheCleanupInterval)
	return c
}

func (c *LRUCache) startCleanupWorker(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanupExpired()
		case <-c.ctx.Done():
			return
		}
	}
}

// Stop terminates the cache cleanup worker goroutine.
func (c *LRUCache) Stop() {
	if c.cancel != nil {
		c.cancel()
	}
}

// Close stops the cleanup worker. It never fails.
func (c *LRUCache) Close() error {
	c.Stop()
	return nil
}

// Set stores a value in the cache with the given TTL.
func (c *LRUCache) Set(key string, value any, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiration := time.Now().Add(duration)
	if el, exists := c.items[key]; exists {
		e := el.Value.(*entry)
		e.value = value
		e.expiration = expiration
		c.order.MoveToFront(el)
		return
	}

	c.items[key] = c.order.PushFront(&entry{key: key, value: value, expiration: expiration})

	for c.order.Len() > c.capacity {
		c.removeElement(c.order.Back())
	}
}

// Get retrieves a value from the cache, returning false if not found or expired.
func (c *LRUCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, found := c.items[key]
	if !found {
		return nil, false
	}

	e := el.Value.(*entry)
	if !time.Now().Before(e.expiration) {
		c.removeElement(el)
		return nil, false
	}

	c.order.MoveToFront(el)
	return e.value, true
}

// Delete removes key if present.
func (c *LRUCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, found := c.items[key]; found {
		c.removeElement(el)
	}
}

// Len returns the number of stored entries, expired or not.
func (c *LRUCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Clear clears all cache items
func (c *LRUCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*list.Element)
	c.order.Init()
}

func (c *LRUCache) removeElement(el *list.Element) {
	if el == nil {
		return
	}
	c.order.Remove(el)
	delete(c.items, el.Value.(*entry).key)
}

func (c *LRUCache) cleanupExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for el := c.order.Back(); el != nil; {
		prev := el.Prev()
		if !now.Before(el.Value.(*entry).expiration) {
			c.removeElement(el)
		}
		el = prev
	}
}
