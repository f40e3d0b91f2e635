package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nguyenvuong1309/glow/internal/auth"
)

// authMiddleware resolves the caller from the bearer token. Invalid tokens
// are always rejected; missing ones only when required.
func authMiddleware(v tokenVerifier, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := auth.BearerToken(c.GetHeader("Authorization"))
		if token == "" {
			if required {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
				return
			}
			c.Next()
			return
		}
		if v == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication unavailable"})
			return
		}

		userID, err := v.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Request = c.Request.WithContext(auth.WithUserID(c.Request.Context(), userID))
		c.Next()
	}
}
