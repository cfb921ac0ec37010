package server

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/claude/workoutapi/internal/observability"
	"github.com/dgraph-io/ristretto"
)

// ResponseCache keeps successful GET responses for a fixed TTL, keyed by
// request URI. Entries carry a cost of one so MaxCost bounds the entry count.
type ResponseCache struct {
	cache *ristretto.Cache
	ttl   time.Duration
}

type cachedResponse struct {
	status      int
	contentType string
	body        []byte
}

// NewResponseCache creates a cache holding at most maxEntries responses.
func NewResponseCache(ttl time.Duration, maxEntries int64) (*ResponseCache, error) {
	if maxEntries <= 0 {
		maxEntries = 1000
	}
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters:        maxEntries * 10,
		MaxCost:            maxEntries,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("creating response cache: %w", err)
	}
	return &ResponseCache{cache: c, ttl: ttl}, nil
}

// Middleware serves cached responses and stores fresh 200 responses.
// The X-Cache header reports HIT or MISS.
func (c *ResponseCache) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			next.ServeHTTP(w, r)
			return
		}

		key := r.URL.RequestURI()
		if v, ok := c.cache.Get(key); ok {
			if resp, ok := v.(cachedResponse); ok {
				observability.RecordCacheLookup(true)
				w.Header().Set("Content-Type", resp.contentType)
				w.Header().Set("X-Cache", "HIT")
				w.WriteHeader(resp.status)
				w.Write(resp.body)
				return
			}
		}
		observability.RecordCacheLookup(false)

		rec := &recordingWriter{ResponseWriter: w, status: http.StatusOK}
		w.Header().Set("X-Cache", "MISS")
		next.ServeHTTP(rec, r)

		if rec.status == http.StatusOK {
			c.cache.SetWithTTL(key, cachedResponse{
				status:      rec.status,
				contentType: w.Header().Get("Content-Type"),
				body:        bytes.Clone(rec.buf.Bytes()),
			}, 1, c.ttl)
		}
	})
}

// Purge drops every cached response.
func (c *ResponseCache) Purge() {
	c.cache.Clear()
}

// Close stops the cache's background goroutines.
func (c *ResponseCache) Close() {
	c.cache.Close()
}

// recordingWriter tees the response body into buf.
type recordingWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (w *recordingWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *recordingWriter) Write(p []byte) (int, error) {
	w.buf.Write(p)
	return w.ResponseWriter.Write(p)
}
