package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Default body limits. JSON API payloads are small; receipt image
// uploads go through presigned URLs and never hit these handlers.
const (
	DefaultBodyLimit = 1 << 20 // 1 MiB
	ImportBodyLimit  = 8 << 20 // bulk product imports
)

// BodyLimit returns a middleware that rejects oversized request bodies.
// Declared Content-Length is checked up front; chunked requests are
// capped by a MaxBytesReader so handlers fail on read instead.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "REQUEST_TOO_LARGE",
					"message": "Request body exceeds maximum allowed size",
				},
			})
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
