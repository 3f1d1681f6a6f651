package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// UserIDHeader is set by the platform gateway after it verifies the
// caller's token. The service trusts it as the learner's identity.
const UserIDHeader = "X-User-ID"

// RequireUser rejects requests that reach a protected group without the
// gateway identity header.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader(UserIDHeader) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing " + UserIDHeader + " header"})
			return
		}
		c.Next()
	}
}

func userID(c *gin.Context) string {
	return c.GetHeader(UserIDHeader)
}
