package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// IPAllowlist restricts a route group to the given client IPs. An empty
// list disables the check, so ops routes stay reachable in development
// without extra config.
func IPAllowlist(ips []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(ips))
	for _, ip := range ips {
		allowed[ip] = struct{}{}
	}
	return func(c *gin.Context) {
		if len(allowed) > 0 {
			if _, ok := allowed[c.ClientIP()]; !ok {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "access denied"})
				return
			}
		}
		c.Next()
	}
}
