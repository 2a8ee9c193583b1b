package middlewares

import (
	"github.com/gin-gonic/gin"
)

// SecurityHeaders marks every response as private JSON that must not
// be embedded in a frame.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "no-referrer")
		c.Header("Cache-Control", "no-store")
		c.Next()
	}
}
