package cache

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"lukechampine.com/blake3"
)

const (
	// DefaultTTL is the fallback TTL when a response carries no freshness headers
	DefaultTTL = 30 * time.Second
)

// ComputeETag returns a strong ETag for body.
func ComputeETag(body []byte) string {
	sum := blake3.Sum256(body)
	return fmt.Sprintf(`"%x"`, sum[:16])
}

// MatchesETag reports whether an If-None-Match header value matches etag.
// Supports "*", lists of tags and weak validators.
func MatchesETag(ifNoneMatch, etag string) bool {
	if ifNoneMatch == "" || etag == "" {
		return false
	}
	if strings.TrimSpace(ifNoneMatch) == "*" {
		return true
	}
	want := strings.TrimPrefix(etag, "W/")
	for _, candidate := range strings.Split(ifNoneMatch, ",") {
		if strings.TrimPrefix(strings.TrimSpace(candidate), "W/") == want {
			return true
		}
	}
	return false
}

// ResponseToEntry converts an HTTP response to a CacheEntry.
// The response body is restored after reading.
func ResponseToEntry(resp *http.Response) (*CacheEntry, error) {
	if resp == nil {
		return nil, fmt.Errorf("response cannot be nil")
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	resp.Body.Close()

	resp.Body = io.NopCloser(bytes.NewReader(body))

	etag := resp.Header.Get("ETag")
	if etag == "" {
		etag = ComputeETag(body)
	}

	entry := &CacheEntry{
		Data:       body,
		ETag:       etag,
		StatusCode: resp.StatusCode,
		Headers:    http.Header{"Content-Type": resp.Header.Values("Content-Type")},
		CachedAt:   time.Now(),
		Expires:    ExpiresFromHeaders(resp.Header),
	}

	return entry, nil
}

// EntryToResponse rebuilds an HTTP response from a cache entry.
func EntryToResponse(entry *CacheEntry) *http.Response {
	header := entry.Headers.Clone()
	if header == nil {
		header = http.Header{}
	}
	header.Set("ETag", entry.ETag)

	return &http.Response{
		Status:        fmt.Sprintf("%d %s", entry.StatusCode, http.StatusText(entry.StatusCode)),
		StatusCode:    entry.StatusCode,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(entry.Data)),
		ContentLength: int64(len(entry.Data)),
	}
}

// ExpiresFromHeaders derives expiry from Cache-Control max-age, then Expires.
// Falls back to now + DefaultTTL.
func ExpiresFromHeaders(headers http.Header) time.Time {
	now := time.Now()

	for _, directive := range strings.Split(headers.Get("Cache-Control"), ",") {
		directive = strings.TrimSpace(directive)
		if value, ok := strings.CutPrefix(directive, "max-age="); ok {
			if seconds, err := strconv.Atoi(value); err == nil && seconds >= 0 {
				return now.Add(time.Duration(seconds) * time.Second)
			}
		}
	}

	expiresStr := headers.Get("Expires")
	if expiresStr == "" {
		return now.Add(DefaultTTL)
	}

	expires, err := http.ParseTime(expiresStr)
	if err != nil {
		return now.Add(DefaultTTL)
	}

	if expires.Before(now) {
		return now
	}

	return expires
}

// ShouldMakeConditionalRequest reports whether entry can back an
// If-None-Match request.
func ShouldMakeConditionalRequest(entry *CacheEntry) bool {
	return entry != nil && entry.ETag != ""
}

// AddConditionalHeaders adds If-None-Match to req when entry has an ETag.
func AddConditionalHeaders(req *http.Request, entry *CacheEntry) {
	if entry == nil || req == nil || entry.ETag == "" {
		return
	}
	req.Header.Set("If-None-Match", entry.ETag)
}
