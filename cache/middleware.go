package cache

import (
	"bytes"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"compro/common"
)

const jsonContentType = "application/json; charset=utf-8"

type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Middleware caches GET responses of /:locale and /:locale/:slug
func Middleware(store *Store, maxAge time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		locale, slug := extractFromPath(c.Request.URL.Path)
		if locale == "" {
			c.Next()
			return
		}

		if cached, found := store.Read(locale, slug, maxAge); found {
			c.Header("X-Cache", "HIT")
			c.Data(http.StatusOK, jsonContentType, cached)
			c.Abort()
			return
		}

		c.Header("X-Cache", "MISS")

		writer := &responseWriter{
			ResponseWriter: c.Writer,
			body:           bytes.NewBuffer(nil),
		}
		c.Writer = writer

		c.Next()

		// Only cache successful JSON responses
		if c.Writer.Status() == http.StatusOK &&
			c.Writer.Header().Get("Content-Type") == jsonContentType {
			store.Write(locale, slug, writer.body.Bytes())
		}
	}
}

// extractFromPath returns the locale and slug of a public page path, or empty
// strings when the path is not one.
func extractFromPath(path string) (locale, slug string) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if !common.IsValidLocale(parts[0]) {
		return "", ""
	}
	switch len(parts) {
	case 1:
		return parts[0], common.HomeSlug
	case 2:
		if parts[1] == "" {
			return "", ""
		}
		return parts[0], parts[1]
	}
	return "", ""
}
