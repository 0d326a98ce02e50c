package reports

import (
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/JaimeStill/compliance-reports/internal/render"
)

// CacheConfig sizes the in-memory record cache. A zero Size disables it.
type CacheConfig struct {
	Size int
	TTL  time.Duration
}

type cacheKey struct {
	fileID uuid.UUID
	format render.Format
}

// recordCache holds report records by (file, format). Records never change
// once written, so an entry is only ever stale by being evicted.
type recordCache struct {
	lru *expirable.LRU[cacheKey, Report]
}

func newRecordCache(cfg CacheConfig) *recordCache {
	if cfg.Size <= 0 {
		return &recordCache{}
	}
	return &recordCache{lru: expirable.NewLRU[cacheKey, Report](cfg.Size, nil, cfg.TTL)}
}

func (c *recordCache) get(fileID uuid.UUID, format render.Format) (*Report, bool) {
	if c.lru == nil {
		return nil, false
	}
	rec, ok := c.lru.Get(cacheKey{fileID, format})
	if !ok {
		return nil, false
	}
	return &rec, true
}

func (c *recordCache) add(rec *Report) {
	if c.lru == nil {
		return
	}
	c.lru.Add(cacheKey{rec.FileID, rec.Format}, *rec)
}
