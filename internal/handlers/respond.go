package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"gizmohub_back_end/internal/middleware"
	"gizmohub_back_end/internal/payment"
	"gizmohub_back_end/internal/service"
)

// RespondError maps service errors to HTTP statuses. Anything unexpected is logged
// and answered with an opaque 500 carrying only the request id.
func RespondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrDuplicate):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrInsufficientStock), errors.Is(err, service.ErrOrderNotPending):
		status = http.StatusConflict
	case errors.Is(err, service.ErrUnavailable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, payment.ErrGateway):
		log.Printf("❌ %s %s request_id=%s: %v", c.Request.Method, c.Request.URL.Path, middleware.RequestIDFrom(c), err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "payment could not be processed"})
		return
	}

	if status == http.StatusInternalServerError {
		requestID := middleware.RequestIDFrom(c)
		log.Printf("❌ %s %s request_id=%s: %v", c.Request.Method, c.Request.URL.Path, requestID, err)
		c.JSON(status, gin.H{
			"error":      "internal error",
			"code":       "ERR_INTERNAL",
			"request_id": requestID,
		})
		return
	}

	c.JSON(status, gin.H{"error": err.Error()})
}

func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

// ParseID reads a positive numeric path parameter, answering 400 when it is not one.
func ParseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		BadRequest(c, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}
