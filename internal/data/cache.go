package data

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"imbalance-report/internal/model"
)

// CacheEntry represents a cached API response
type CacheEntry struct {
	Response  *model.SystemPricesResponse
	ExpiresAt time.Time
}

// ResponseCache provides in-memory TTL caching for market data responses.
// Settlement data for a past date rarely changes, so a cached day is reused
// until the TTL runs out. A nil *ResponseCache is a disabled cache.
type ResponseCache struct {
	mu    sync.RWMutex
	store map[string]*CacheEntry
	ttl   time.Duration
	now   func() time.Time
}

// NewResponseCache returns a cache with the given TTL (1h when ttl <= 0).
func NewResponseCache(ttl time.Duration) *ResponseCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &ResponseCache{
		store: make(map[string]*CacheEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Get retrieves a cached response if available and not expired
func (c *ResponseCache) Get(key string) (*model.SystemPricesResponse, bool) {
	if c == nil {
		return nil, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.store[key]
	if !exists {
		return nil, false
	}
	if c.now().After(entry.ExpiresAt) {
		return nil, false
	}
	return entry.Response, true
}

// Set stores a response in the cache
func (c *ResponseCache) Set(key string, response *model.SystemPricesResponse) {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.store[key] = &CacheEntry{
		Response:  response,
		ExpiresAt: c.now().Add(c.ttl),
	}
}

// Len returns the number of entries, expired ones included.
func (c *ResponseCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

// Clear removes all entries from the cache
func (c *ResponseCache) Clear() {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.store = make(map[string]*CacheEntry)
}

// Purge removes expired entries.
func (c *ResponseCache) Purge() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, entry := range c.store {
		if now.After(entry.ExpiresAt) {
			delete(c.store, key)
		}
	}
}

// RunCleanup purges expired entries every interval until ctx is done.
func (c *ResponseCache) RunCleanup(ctx context.Context, every time.Duration) {
	if c == nil {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Purge()
		}
	}
}

// CacheKey creates a deterministic key for one settlement date at one endpoint.
func CacheKey(baseURL, settlementDate string) string {
	hash := sha256.Sum256([]byte(baseURL + "|" + settlementDate))
	return hex.EncodeToString(hash[:])
}
