package cache

import (
	"net/http"
	"time"
)

// CacheEntry is one stored response body with its validator. It is
// JSON-encoded as-is into Redis.
type CacheEntry struct {
	Data       []byte      `json:"data"`
	ETag       string      `json:"etag"`
	Expires    time.Time   `json:"expires"`
	StatusCode int         `json:"status_code"`
	Headers    http.Header `json:"headers,omitempty"` // only headers worth replaying
	CachedAt   time.Time   `json:"cached_at"`
}

// NewEntry builds an entry for body that expires after ttl.
func NewEntry(body []byte, statusCode int, ttl time.Duration) *CacheEntry {
	now := time.Now()
	return &CacheEntry{
		Data:       body,
		ETag:       ComputeETag(body),
		Expires:    now.Add(ttl),
		StatusCode: statusCode,
		CachedAt:   now,
	}
}

// IsExpired reports whether Expires has passed.
func (e *CacheEntry) IsExpired() bool {
	return !time.Now().Before(e.Expires)
}

// TTL is the remaining lifetime, never negative.
func (e *CacheEntry) TTL() time.Duration {
	return max(time.Until(e.Expires), 0)
}
