// Package session caches resolved contact identities per portal session.
// A populated entry is written at most once per session key; a refresh
// drops the entry so the next resolution hits the backing services again.
package session

import (
	"sync"

	"github.com/sells-group/contract-hub/internal/model"
)

// Cache is a concurrency-safe identity cache keyed by session.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*model.ContactInfo
}

// NewCache creates an empty identity cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*model.ContactInfo)}
}

// Get returns the cached contact for the session, or nil when the
// session has no populated entry. Error-flagged or incomplete entries
// are never returned, so callers always re-resolve after a failure.
func (c *Cache) Get(sess model.Session) *model.ContactInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()

	info, ok := c.entries[sess.Key()]
	if !ok || !info.Populated() {
		return nil
	}
	return info
}

// SetOnce stores the contact for the session unless a populated entry
// already exists. It returns true when the entry was written. Entries
// that are not populated are rejected outright.
func (c *Cache) SetOnce(sess model.Session, info *model.ContactInfo) bool {
	if info == nil || !info.Populated() {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	key := sess.Key()
	if existing, ok := c.entries[key]; ok && existing.Populated() {
		return false
	}
	c.entries[key] = info
	return true
}

// Invalidate removes the session's entry. Used when a caller requests
// a forced refresh.
func (c *Cache) Invalidate(sess model.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, sess.Key())
}

// Len reports the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
