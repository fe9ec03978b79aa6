package mw

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
)

// CacheHeader reports whether a response was served from the cache.
const CacheHeader = "X-Cache"

// snapshot is a successful GET response as first written to the client.
type snapshot struct {
	status int
	header http.Header
	body   []byte
}

func (s snapshot) replay(w gin.ResponseWriter) {
	dst := w.Header()
	for k, v := range s.header {
		dst[k] = v
	}
	dst.Set(CacheHeader, "HIT")
	w.WriteHeader(s.status)
	_, _ = w.Write(s.body)
}

// teeWriter copies the response body while it is written.
type teeWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *teeWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *teeWriter) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

func (w *teeWriter) snapshot() snapshot {
	header := w.Header().Clone()
	header.Del(CacheHeader)
	return snapshot{status: w.Status(), header: header, body: bytes.Clone(w.buf.Bytes())}
}

// Cache serves repeated GETs of the same URI from store for ttl. Only 2xx
// responses are kept.
func Cache(store *cache.Cache, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := c.Request.URL.RequestURI()
		if hit, ok := store.Get(key); ok {
			hit.(snapshot).replay(c.Writer)
			c.Abort()
			return
		}

		c.Header(CacheHeader, "MISS")
		tee := &teeWriter{ResponseWriter: c.Writer}
		c.Writer = tee
		c.Next()

		if status := tee.Status(); status >= http.StatusOK && status < http.StatusMultipleChoices {
			store.Set(key, tee.snapshot(), ttl)
		}
	}
}

// Invalidate drops every cached response once a write request succeeds.
func Invalidate(store *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			return
		}
		if status := c.Writer.Status(); status >= http.StatusOK && status < http.StatusMultipleChoices {
			store.Flush()
		}
	}
}
