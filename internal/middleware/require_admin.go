package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gizmohub_back_end/internal/models"
)

// RequireAdmin must run after AuthRequired.
func RequireAdmin(c *gin.Context) {
	if c.GetString(ctxRole) != models.RoleAdmin {
		abortJSON(c, http.StatusForbidden, "admin access required")
		return
	}
	c.Next()
}
