package middleware

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// RequireCustomerAccess lets a customer through only for their own id in the given path
// parameter. Admins may act on any customer.
func RequireCustomerAccess(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param(param), 10, 32)
		if err != nil || id == 0 {
			abortJSON(c, http.StatusBadRequest, "invalid "+param)
			return
		}

		if !ActorFrom(c).CanActFor(uint(id)) {
			log.Printf("🚫 User %d (%s) denied access to customer %d", c.GetUint(ctxUserID), c.GetString(ctxRole), id)
			abortJSON(c, http.StatusForbidden, "you can only access your own account")
			return
		}
		c.Next()
	}
}
