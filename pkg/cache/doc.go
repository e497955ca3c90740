// Package cache provides response caching for explorer endpoints with an
// in-memory LRU and an optional Redis layer.
//
// Lookups try memory first, then Redis; Redis hits are promoted into memory.
// Because the explorer store is deterministic, a cached body never disagrees
// with a freshly generated one, so TTLs only bound memory use.
//
// # Basic Usage
//
//	manager := cache.NewManager(cache.DefaultConfig(), redisClient) // redisClient may be nil
//
//	key := cache.CacheKey{
//		Endpoint:    "/api/blocks",
//		QueryParams: url.Values{"page": []string{"2"}},
//	}
//
//	entry, err := manager.Get(ctx, key)
//	if errors.Is(err, cache.ErrCacheMiss) {
//		entry = cache.NewEntry(body, http.StatusOK, manager.TTL())
//		_ = manager.Set(ctx, key, entry)
//	}
//
// # Conditional Requests
//
// Entries carry a blake3 ETag. Servers answer If-None-Match with 304 via
// MatchesETag; clients holding an entry send it with AddConditionalHeaders.
//
// # Metrics
//
//   - explorer_cache_hits_total{layer="memory|redis"}
//   - explorer_cache_misses_total
//   - explorer_cache_errors_total{operation}
//   - explorer_cache_not_modified_total
package cache
