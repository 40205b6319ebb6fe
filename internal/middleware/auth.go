package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ContextKeyCredential holds the per-request model credential.
const ContextKeyCredential = "model_credential"

// Credential returns Gin middleware that reads the model credential from the
// Authorization bearer header and stores it in the request context. The credential is
// forwarded to the completion endpoint as-is and never validated or stored here.
func Credential() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"code": "MISSING_CREDENTIAL", "message": "missing or invalid authorization header"},
			})
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"code": "MISSING_CREDENTIAL", "message": "model credential is required"},
			})
			return
		}

		c.Set(ContextKeyCredential, token)
		c.Next()
	}
}

// GetCredential extracts the model credential from the Gin context.
func GetCredential(c *gin.Context) string {
	val, exists := c.Get(ContextKeyCredential)
	if !exists {
		return ""
	}
	s, _ := val.(string)
	return s
}
