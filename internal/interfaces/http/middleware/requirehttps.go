package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RequireHTTPS rejects plain HTTP requests on the public endpoints. Requests
// arriving through a TLS-terminating proxy are recognized by the
// X-Forwarded-Proto header. Development mode skips the check so local
// clients can talk to the server directly.
func RequireHTTPS(development bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if development {
			c.Next()
			return
		}

		if c.Request.TLS != nil {
			c.Next()
			return
		}

		proto := strings.ToLower(c.GetHeader("X-Forwarded-Proto"))
		if proto == "https" {
			c.Next()
			return
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": "HTTPS required",
		})
	}
}
