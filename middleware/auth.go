package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pokechain/arena/cache"
	"github.com/pokechain/arena/config"
)

const (
	IdentityKey  = "identity"
	ProfileIDKey = "profile_id"
)

// Auth validates the Bearer JWT and checks the session cache entry
// written at link time still exists.
func Auth(sec config.SecurityConfig, c cache.Cache) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		tokenStr := strings.TrimPrefix(header, "Bearer ")

		claims, err := ParseToken(tokenStr, sec.JWTSecret)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		sessionKey := "session:" + tokenStr
		cacheCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()
		exists, err := c.Exists(cacheCtx, sessionKey)
		if err != nil || !exists {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
			return
		}

		ctx.Set(IdentityKey, claims.Identity)
		ctx.Set(ProfileIDKey, claims.ProfileID)
		ctx.Next()
	}
}

// GetIdentity retrieves the authenticated identity from the Gin context.
func GetIdentity(c *gin.Context) string {
	if v, exists := c.Get(IdentityKey); exists {
		return v.(string)
	}
	return ""
}

// GetProfileID retrieves the authenticated profile id, 0 when the
// naming step has not completed yet.
func GetProfileID(c *gin.Context) int64 {
	if v, exists := c.Get(ProfileIDKey); exists {
		return v.(int64)
	}
	return 0
}
