package xp

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/donalcheung/dine-together-sub000/internal/domain"
)

// CacheSchemaVersion is the current version of the cache schema
// Increment this when the cached data structure changes to auto-invalidate old entries
const CacheSchemaVersion = "1.0"

// CacheConfig sizes the progression summary cache
type CacheConfig struct {
	Size int
	TTL  time.Duration
}

// DefaultCacheConfig returns the cache defaults
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{Size: 1000, TTL: 5 * time.Minute}
}

type cachedSummary struct {
	Version  string
	Summary  domain.ProgressionSummary
	CachedAt time.Time
}

// summaryCache holds progression summaries keyed by user id.
// Entries expire after the TTL and are dropped on every award for the user.
type summaryCache struct {
	lru *expirable.LRU[string, *cachedSummary]
}

func newSummaryCache(cfg CacheConfig) *summaryCache {
	if cfg.Size <= 0 {
		cfg.Size = DefaultCacheConfig().Size
	}
	return &summaryCache{
		lru: expirable.NewLRU[string, *cachedSummary](cfg.Size, nil, cfg.TTL),
	}
}

// Get returns a copy of the cached summary. Entries from another schema version are dropped.
func (c *summaryCache) Get(userID string) (*domain.ProgressionSummary, bool) {
	entry, found := c.lru.Get(userID)
	if !found {
		return nil, false
	}
	if entry.Version != CacheSchemaVersion {
		c.lru.Remove(userID)
		return nil, false
	}
	s := entry.Summary
	return &s, true
}

// Set stores a copy of the summary
func (c *summaryCache) Set(userID string, summary *domain.ProgressionSummary) {
	c.lru.Add(userID, &cachedSummary{
		Version:  CacheSchemaVersion,
		Summary:  *summary,
		CachedAt: time.Now(),
	})
}

// Invalidate removes a user's summary
func (c *summaryCache) Invalidate(userID string) {
	c.lru.Remove(userID)
}

// Len returns the number of cached summaries
func (c *summaryCache) Len() int {
	return c.lru.Len()
}
