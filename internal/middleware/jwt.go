package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"gizmohub_back_end/internal/service"
	"gizmohub_back_end/internal/utils"
)

const (
	ctxUserID = "user_id"
	ctxRole   = "role"
	ctxEmail  = "email"
	ctxClaims = "claims"
)

// RevocationList reports tokens revoked by logout.
type RevocationList interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// AuthRequired validates the bearer token. Websocket upgrades may pass it as ?token= instead,
// since browsers cannot set headers on them. revoked may be nil.
func AuthRequired(tokens *utils.TokenIssuer, revoked RevocationList) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			abortJSON(c, http.StatusUnauthorized, "missing or malformed Authorization header")
			return
		}

		claims, err := tokens.Parse(tokenString)
		if err != nil {
			abortJSON(c, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		if revoked != nil {
			isRevoked, err := revoked.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				// fail open: Redis being down must not log every customer out
				log.Printf("⚠️ Revocation check failed: %v", err)
			} else if isRevoked {
				abortJSON(c, http.StatusUnauthorized, "token has been revoked")
				return
			}
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxRole, claims.Role)
		c.Set(ctxEmail, claims.Email)
		c.Set(ctxClaims, claims)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		if strings.EqualFold(c.GetHeader("Upgrade"), "websocket") {
			if t := c.Query("token"); t != "" {
				return t, true
			}
		}
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// Claims returns the parsed token of an authenticated request.
func Claims(c *gin.Context) *utils.Claims {
	if v, ok := c.Get(ctxClaims); ok {
		if claims, ok := v.(*utils.Claims); ok {
			return claims
		}
	}
	return nil
}

// ActorFrom returns the authenticated caller, or the zero Actor on public routes.
func ActorFrom(c *gin.Context) service.Actor {
	return service.Actor{ID: c.GetUint(ctxUserID), Role: c.GetString(ctxRole)}
}

func abortJSON(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
