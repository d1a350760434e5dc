package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "GizmoHub API is running"})
}

// Health pings every configured backend. Postgres down makes the whole service unhealthy.
func Health(ping func(ctx context.Context) map[string]string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		deps := ping(ctx)
		status, code := "ok", http.StatusOK
		for name, s := range deps {
			if s == "ok" {
				continue
			}
			if name == "postgres" {
				status, code = "down", http.StatusServiceUnavailable
				break
			}
			status = "degraded"
		}

		c.JSON(code, gin.H{"status": status, "dependencies": deps, "time": time.Now().UTC()})
	}
}
