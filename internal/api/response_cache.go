package api

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/blockandplay/explorer/pkg/cache"
	"github.com/blockandplay/explorer/pkg/logging"
)

const cacheHeader = "X-Cache"

// bufferedWriter holds the handler output so ETag and cache headers can be
// set before anything reaches the client.
type bufferedWriter struct {
	gin.ResponseWriter
	body   bytes.Buffer
	status int
}

func (w *bufferedWriter) WriteHeader(code int)              { w.status = code }
func (w *bufferedWriter) WriteHeaderNow()                   {}
func (w *bufferedWriter) Write(b []byte) (int, error)       { return w.body.Write(b) }
func (w *bufferedWriter) WriteString(s string) (int, error) { return w.body.WriteString(s) }
func (w *bufferedWriter) Status() int                       { return w.status }
func (w *bufferedWriter) Size() int                         { return w.body.Len() }
func (w *bufferedWriter) Written() bool                     { return w.body.Len() > 0 }

// responseCache serves successful GET bodies from the cache manager and
// answers matching If-None-Match requests with 304.
func responseCache(manager *cache.Manager, network string) gin.HandlerFunc {
	logger := logging.NewLogger("cache")

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := cache.CacheKey{
			Endpoint:    c.FullPath(),
			QueryParams: c.Request.URL.Query(),
			Network:     network,
		}
		if len(c.Params) > 0 {
			key.PathParams = make(map[string]string, len(c.Params))
			for _, p := range c.Params {
				key.PathParams[p.Key] = p.Value
			}
		}

		entry, err := manager.Get(c.Request.Context(), key)
		switch {
		case err == nil:
			writeEntry(c, entry, manager, "HIT")
			c.Abort()
			return
		case !errors.Is(err, cache.ErrCacheMiss):
			logger.Warn().Err(err).Str("key", key.String()).Msg("Cache get failed, serving uncached")
		}

		original := c.Writer
		buffered := &bufferedWriter{ResponseWriter: original, status: http.StatusOK}
		c.Writer = buffered
		c.Next()
		c.Writer = original

		if buffered.status != http.StatusOK {
			original.WriteHeader(buffered.status)
			_, _ = original.Write(buffered.body.Bytes())
			return
		}

		entry = cache.NewEntry(buffered.body.Bytes(), http.StatusOK, manager.TTL())
		entry.Headers = http.Header{"Content-Type": original.Header().Values("Content-Type")}
		if err := manager.Set(c.Request.Context(), key, entry); err != nil {
			logger.Warn().Err(err).Str("key", key.String()).Msg("Cache set failed")
		}
		writeEntry(c, entry, manager, "MISS")
	}
}

func writeEntry(c *gin.Context, entry *cache.CacheEntry, manager *cache.Manager, state string) {
	h := c.Writer.Header()
	h.Set("ETag", entry.ETag)
	h.Set("Cache-Control", cacheControl(manager.TTL()))
	h.Set(cacheHeader, state)

	if cache.MatchesETag(c.GetHeader("If-None-Match"), entry.ETag) {
		cache.NotModifiedResponses.Inc()
		c.Status(http.StatusNotModified)
		c.Writer.WriteHeaderNow()
		return
	}

	for _, ct := range entry.Headers.Values("Content-Type") {
		h.Set("Content-Type", ct)
	}
	c.Status(entry.StatusCode)
	_, _ = c.Writer.Write(entry.Data)
}
