// Package cache holds the short-term parsed-email cache.
package cache

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/email-triage/internal/core"
)

// lruNode is a node in the doubly linked recency list.
type lruNode struct {
	fingerprint string
	prev        *lruNode
	next        *lruNode
}

type cacheEntry struct {
	email     *core.ParsedEmail
	expiresAt time.Time
	node      *lruNode
}

// MemoryCache is a bounded in-memory cache of parsed emails keyed by
// fingerprint, with TTL expiry and least-recently-used eviction. It is the
// short-lived tier of deduplication: it only saves re-parsing work and has
// no bearing on whether the model gets called.
type MemoryCache struct {
	entries     map[string]*cacheEntry
	mu          sync.Mutex
	maxEntries  int
	ttl         time.Duration
	cleanupFreq time.Duration
	logger      *zap.Logger
	stopCh      chan struct{}

	// Dummy head/tail keep eviction free of nil checks.
	head *lruNode
	tail *lruNode
}

// NewMemoryCache creates a new cache holding at most maxEntries parsed
// emails for at most ttl each.
func NewMemoryCache(maxEntries int, ttl, cleanupFreq time.Duration, logger *zap.Logger) *MemoryCache {
	head := &lruNode{}
	tail := &lruNode{}
	head.next = tail
	tail.prev = head

	c := &MemoryCache{
		entries:     make(map[string]*cacheEntry),
		maxEntries:  maxEntries,
		ttl:         ttl,
		cleanupFreq: cleanupFreq,
		logger:      logger,
		stopCh:      make(chan struct{}),
		head:        head,
		tail:        tail,
	}

	go c.startCleanupTask()

	return c
}

// Get retrieves a cached parsed email and marks it recently used.
func (c *MemoryCache) Get(fingerprint string) (*core.ParsedEmail, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[fingerprint]
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		c.remove(fingerprint, entry)
		return nil, false
	}

	c.moveToFront(entry.node)
	return entry.email, true
}

// Set stores a parsed email, evicting the least recently used entry when
// the cache is full. maxEntries <= 0 means the cache stores nothing.
func (c *MemoryCache) Set(fingerprint string, email *core.ParsedEmail) {
	if c.maxEntries <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.entries[fingerprint]; ok {
		entry.email = email
		entry.expiresAt = time.Now().Add(c.ttl)
		c.moveToFront(entry.node)
		return
	}

	if len(c.entries) >= c.maxEntries {
		c.evictOldest()
	}

	node := &lruNode{fingerprint: fingerprint}
	c.entries[fingerprint] = &cacheEntry{
		email:     email,
		expiresAt: time.Now().Add(c.ttl),
		node:      node,
	}
	c.pushFront(node)
}

// Len returns the number of live entries.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stop ends the background cleanup task.
func (c *MemoryCache) Stop() {
	close(c.stopCh)
}

func (c *MemoryCache) remove(fingerprint string, entry *cacheEntry) {
	delete(c.entries, fingerprint)
	entry.node.prev.next = entry.node.next
	entry.node.next.prev = entry.node.prev
}

func (c *MemoryCache) pushFront(node *lruNode) {
	node.next = c.head.next
	node.prev = c.head
	c.head.next.prev = node
	c.head.next = node
}

func (c *MemoryCache) moveToFront(node *lruNode) {
	node.prev.next = node.next
	node.next.prev = node.prev
	c.pushFront(node)
}

func (c *MemoryCache) evictOldest() {
	oldest := c.tail.prev
	if oldest == c.head {
		return
	}
	if entry, ok := c.entries[oldest.fingerprint]; ok {
		c.remove(oldest.fingerprint, entry)
	}
}

func (c *MemoryCache) startCleanupTask() {
	ticker := time.NewTicker(c.cleanupFreq)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.stopCh:
			return
		}
	}
}

func (c *MemoryCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	expired := 0
	for fp, entry := range c.entries {
		if now.After(entry.expiresAt) {
			c.remove(fp, entry)
			expired++
		}
	}
	if expired > 0 {
		c.logger.Debug("Cleaned up expired cache entries", zap.Int("expired_count", expired))
	}
}
