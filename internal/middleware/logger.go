package middleware

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContextKeyRequestID is the gin context key holding the request correlation ID.
const ContextKeyRequestID = "request_id"

const maxRequestIDLen = 128

// RequestID tags the request with the caller's X-Request-ID, or a fresh UUID when the
// header is absent or longer than 128 bytes, and echoes it on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" || len(requestID) > maxRequestIDLen {
			requestID = uuid.New().String()
		}
		c.Set(ContextKeyRequestID, requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// Logger writes one access line per request: id, client, method, path, status, response
// size and latency. Query strings and headers are left out so credentials never reach
// the log.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Printf("[%s] %s %s %s %d %dB %s",
			c.GetString(ContextKeyRequestID),
			c.ClientIP(),
			c.Request.Method,
			c.Request.URL.Path,
			c.Writer.Status(),
			c.Writer.Size(),
			time.Since(start),
		)
		if len(c.Errors) > 0 {
			log.Printf("[%s] errors: %s", c.GetString(ContextKeyRequestID), c.Errors.String())
		}
	}
}

// Recovery turns a handler panic into a 500 response in the API error envelope.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Printf("[%s] panic serving %s %s: %v",
			c.GetString(ContextKeyRequestID), c.Request.Method, c.Request.URL.Path, recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "an unexpected error occurred",
			},
		})
	})
}
