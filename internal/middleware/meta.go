package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kidsread/kidsread-api/pkg/middleware/requestid"
)

const (
	requestStartKey = "request_started_at"
	cacheHitKey     = "cache_hit"
)

// WithResponseMeta records when request handling began so Meta can report
// processing time at response time.
func WithResponseMeta() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(requestStartKey, time.Now())
		c.Next()
	}
}

// SetCacheHit marks whether the response was served from cache.
func SetCacheHit(c *gin.Context, hit bool) {
	if c != nil {
		c.Set(cacheHitKey, hit)
	}
}

// Meta assembles envelope metadata for the current request: elapsed
// processing time, the request ID and the cache hit flag when one was set.
func Meta(c *gin.Context) map[string]interface{} {
	if c == nil {
		return nil
	}
	meta := make(map[string]interface{}, 3)
	if v, ok := c.Get(requestStartKey); ok {
		if started, ok := v.(time.Time); ok {
			meta["processing_time_ms"] = time.Since(started).Milliseconds()
		}
	}
	if id := requestid.Value(c); id != "" {
		meta["request_id"] = id
	}
	if v, ok := c.Get(cacheHitKey); ok {
		if hit, ok := v.(bool); ok {
			meta["cache_hit"] = hit
		}
	}
	return meta
}
