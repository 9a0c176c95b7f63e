// Package cache provides caching utilities for body hydration.
package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// Body is a resolved HAR body: the text and, for binary data, its encoding.
type Body struct {
	Text     string
	Encoding string
}

// BodyCache provides thread-safe LRU caching of resolved bodies. Traces
// address blobs by sha1, so the same blob resolved under the same MIME type
// always yields the same Body.
type BodyCache struct {
	cache *lru.Cache[string, Body]
}

// NewBodyCache creates a new LRU cache with the specified maximum number of items.
func NewBodyCache(maxItems int) (*BodyCache, error) {
	c, err := lru.New[string, Body](maxItems)
	if err != nil {
		return nil, err
	}
	return &BodyCache{cache: c}, nil
}

func key(sha1, mimeType string) string {
	return sha1 + "\x00" + mimeType
}

// Get retrieves the body resolved for sha1 under mimeType.
// Returns the body and true if found, a zero Body and false otherwise.
func (c *BodyCache) Get(sha1, mimeType string) (Body, bool) {
	return c.cache.Get(key(sha1, mimeType))
}

// Put adds or updates a resolved body.
func (c *BodyCache) Put(sha1, mimeType string, body Body) {
	c.cache.Add(key(sha1, mimeType), body)
}

// Len returns the current number of items in the cache.
func (c *BodyCache) Len() int {
	return c.cache.Len()
}
