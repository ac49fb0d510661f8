package posts

import (
	"container/list"
	"strconv"
	"sync"
	"time"

	"github.com/lfapurpose/ghost-gateway/models"
)

// CacheKey identifies one list query
type CacheKey struct {
	Query string // upcoming, featured or public_featured
	Limit int
}

// String returns a string representation of the cache key
func (k CacheKey) String() string {
	return k.Query + ":" + strconv.Itoa(k.Limit)
}

// cacheEntry represents a single cache entry with TTL
type cacheEntry struct {
	posts      []models.PostSummary
	insertedAt time.Time
	element    *list.Element // For LRU tracking
}

// Cache is an in-memory LRU cache with TTL for normalized post lists.
// Any successful featured flag change clears it.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
	lruList *list.List
	maxSize int
	ttl     time.Duration
	now     func() time.Time
	hits    uint64
	misses  uint64
	gen     uint64 // bumped by Clear
}

// CacheStats represents cache statistics
type CacheStats struct {
	Size    int     `json:"size"`
	MaxSize int     `json:"max_size"`
	Hits    uint64  `json:"hits"`
	Misses  uint64  `json:"misses"`
	HitRate float64 `json:"hit_rate"`
}

// NewCache creates a Cache holding at most maxSize lists for ttl
func NewCache(maxSize int, ttl time.Duration) *Cache {
	if maxSize <= 0 {
		maxSize = 1
	}
	return &Cache{
		entries: make(map[string]*cacheEntry),
		lruList: list.New(),
		maxSize: maxSize,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached list, or false if it is missing or expired
func (c *Cache) Get(key CacheKey) ([]models.PostSummary, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	keyStr := key.String()
	entry, exists := c.entries[keyStr]

	if !exists || c.expired(entry) {
		c.misses++
		if exists {
			c.removeEntry(keyStr)
		}
		return nil, false
	}

	c.lruList.MoveToFront(entry.element)
	c.hits++

	return entry.posts, true
}

// Generation returns the current invalidation generation. Pass it to
// SetIfCurrent after a fetch that started before a possible Clear.
func (c *Cache) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// Set stores a list
func (c *Cache) Set(key CacheKey, posts []models.PostSummary) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.set(key, posts)
}

// SetIfCurrent stores a list only if Clear has not run since gen was read.
// It reports whether the list was stored.
func (c *Cache) SetIfCurrent(key CacheKey, posts []models.PostSummary, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gen != gen {
		return false
	}
	c.set(key, posts)
	return true
}

// must be called with lock held
func (c *Cache) set(key CacheKey, posts []models.PostSummary) {
	keyStr := key.String()

	if entry, exists := c.entries[keyStr]; exists {
		entry.posts = posts
		entry.insertedAt = c.now()
		c.lruList.MoveToFront(entry.element)
		return
	}

	if c.lruList.Len() >= c.maxSize {
		c.evictLRU()
	}

	entry := &cacheEntry{
		posts:      posts,
		insertedAt: c.now(),
	}
	entry.element = c.lruList.PushFront(keyStr)
	c.entries[keyStr] = entry
}

// Clear removes all entries from the cache
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*cacheEntry)
	c.lruList.Init()
	c.gen++
}

// Stats returns cache statistics
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := CacheStats{
		Size:    c.lruList.Len(),
		MaxSize: c.maxSize,
		Hits:    c.hits,
		Misses:  c.misses,
	}
	if total := c.hits + c.misses; total > 0 {
		stats.HitRate = float64(c.hits) / float64(total)
	}
	return stats
}

// CleanupExpired removes all expired entries and returns how many it removed
func (c *Cache) CleanupExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for keyStr, entry := range c.entries {
		if c.expired(entry) {
			c.removeEntry(keyStr)
			removed++
		}
	}
	return removed
}

// StartCleanupWorker periodically drops expired entries until stopCh is closed
func (c *Cache) StartCleanupWorker(interval time.Duration, stopCh <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.CleanupExpired()
		case <-stopCh:
			return
		}
	}
}

// must be called with lock held
func (c *Cache) expired(e *cacheEntry) bool {
	return c.now().Sub(e.insertedAt) > c.ttl
}

// must be called with lock held
func (c *Cache) removeEntry(keyStr string) {
	if entry, exists := c.entries[keyStr]; exists {
		c.lruList.Remove(entry.element)
		delete(c.entries, keyStr)
	}
}

// must be called with lock held
func (c *Cache) evictLRU() {
	if back := c.lruList.Back(); back != nil {
		keyStr := back.Value.(string)
		c.lruList.Remove(back)
		delete(c.entries, keyStr)
	}
}
