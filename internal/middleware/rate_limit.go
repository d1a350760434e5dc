package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"gizmohub_back_end/internal/cache"
)

const (
	LoginMaxAttempts    = 5
	RegisterMaxAttempts = 3

	LoginCooldown    = 15 * time.Minute
	RegisterCooldown = 30 * time.Minute
)

// LoginRateLimit locks a credential out after LoginMaxAttempts failed logins.
// Only 401 answers count; a successful login resets the counter.
func LoginRateLimit(attempts *cache.Attempts) gin.HandlerFunc {
	return func(c *gin.Context) {
		credential := loginCredential(c)
		if credential == "" {
			c.Next()
			return
		}
		ctx := c.Request.Context()

		if ttl := attempts.CooldownRemaining(ctx, credential); ttl > 0 {
			tooManyRequests(c, ttl, "too many failed logins, try again in %d minutes")
			return
		}

		c.Next()

		switch c.Writer.Status() {
		case http.StatusUnauthorized:
			remaining := attempts.Fail(ctx, credential, LoginMaxAttempts, LoginCooldown, LoginCooldown)
			if remaining > 0 {
				c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
			}
		case http.StatusOK:
			attempts.Reset(ctx, credential)
		}
	}
}

// RegisterRateLimit caps successful registrations per client IP.
func RegisterRateLimit(attempts *cache.Attempts) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		ctx := c.Request.Context()

		if ttl := attempts.CooldownRemaining(ctx, ip); ttl > 0 {
			tooManyRequests(c, ttl, "too many registrations, try again in %d minutes")
			return
		}

		c.Next()

		if c.Writer.Status() == http.StatusOK || c.Writer.Status() == http.StatusCreated {
			attempts.Fail(ctx, ip, RegisterMaxAttempts, RegisterCooldown, RegisterCooldown)
		}
	}
}

// loginCredential peeks at the JSON body without consuming it.
func loginCredential(c *gin.Context) string {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return ""
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	var input struct {
		Email    string `json:"email"`
		Username string `json:"username"`
		Phone    string `json:"phone"`
	}
	if err := json.Unmarshal(body, &input); err != nil {
		return ""
	}
	for _, v := range []string{input.Email, input.Username, input.Phone} {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			return v
		}
	}
	return ""
}

func tooManyRequests(c *gin.Context, ttl time.Duration, format string) {
	minutes := int(ttl.Minutes()) + 1
	c.Header("Retry-After", strconv.Itoa(int(ttl.Seconds())))
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"error":       fmt.Sprintf(format, minutes),
		"retry_after": int(ttl.Seconds()),
	})
}
