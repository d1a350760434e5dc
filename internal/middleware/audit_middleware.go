package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// AuditAdminWrites logs every mutating admin request with its outcome.
func AuditAdminWrites() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == "GET" || c.Request.Method == "HEAD" || c.Request.Method == "OPTIONS" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		log.Printf("📝 Audit: admin %d %s %s -> %d (%s) request_id=%s",
			c.GetUint(ctxUserID),
			c.Request.Method,
			c.Request.URL.Path,
			c.Writer.Status(),
			time.Since(start).Round(time.Millisecond),
			RequestIDFrom(c),
		)
	}
}
