package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"assochub/internal/pkg"
)

const ContextUIDKey = "uid"

// Auth verifies the identity provider's bearer token and injects the
// subject uid into the request context. A missing token is 401, an invalid
// or expired one is 403.
func Auth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "missing authorization header"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid authorization format"})
			return
		}

		uid, err := pkg.VerifyToken(secret, parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "invalid or expired token"})
			return
		}

		c.Set(ContextUIDKey, uid)
		c.Next()
	}
}

// UID returns the authenticated member uid set by Auth.
func UID(c *gin.Context) string {
	v, _ := c.Get(ContextUIDKey)
	uid, _ := v.(string)
	return uid
}
