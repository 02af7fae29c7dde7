package geocode

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// maxCacheEntries bounds the cache; the oldest entry goes first when full.
const maxCacheEntries = 1024

type cacheEntry struct {
	result   Result
	storedAt time.Time
}

// cacheKey returns SHA-256 hex of the normalized query.
func cacheKey(query string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(query)), " ")
	h := sha256.Sum256([]byte(normalized))
	return fmt.Sprintf("%x", h)
}

// checkCache returns a cached result younger than the TTL. Cached misses
// (Matched=false) are returned too so repeated bad queries skip the network.
func (g *geocoder) checkCache(key string) (*Result, bool) {
	if g.cacheTTL <= 0 {
		return nil, false
	}

	g.cacheMu.Lock()
	defer g.cacheMu.Unlock()

	e, ok := g.cache[key]
	if !ok {
		return nil, false
	}
	if g.nowFunc().Sub(e.storedAt) >= g.cacheTTL {
		delete(g.cache, key)
		return nil, false
	}

	zap.L().Debug("geocode cache hit", zap.String("key", key[:12]), zap.Bool("matched", e.result.Matched))
	r := e.result
	return &r, true
}

func (g *geocoder) storeCache(key string, result *Result) {
	if g.cacheTTL <= 0 || result == nil {
		return
	}

	now := g.nowFunc()

	g.cacheMu.Lock()
	defer g.cacheMu.Unlock()

	for k, e := range g.cache {
		if now.Sub(e.storedAt) >= g.cacheTTL {
			delete(g.cache, k)
		}
	}
	if _, ok := g.cache[key]; !ok && len(g.cache) >= maxCacheEntries {
		g.evictOldestLocked()
	}
	g.cache[key] = cacheEntry{result: *result, storedAt: now}
}

func (g *geocoder) evictOldestLocked() {
	var (
		oldestKey string
		oldestAt  time.Time
	)
	for k, e := range g.cache {
		if oldestKey == "" || e.storedAt.Before(oldestAt) {
			oldestKey, oldestAt = k, e.storedAt
		}
	}
	delete(g.cache, oldestKey)
}
