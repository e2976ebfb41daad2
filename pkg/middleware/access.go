package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/mediavault/pkg/internal/service"
)

// userHeader identifies the requesting platform account.
const userHeader = "X-User-ID"

type userIDKey struct{}

// AccessMiddleware enforces search access per account: banned accounts get a
// 403, premium expiry is resolved on the way through. Requests without a user
// id pass as anonymous public traffic.
func AccessMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(userHeader)
		if raw == "" {
			c.Next()
			return
		}

		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
			return
		}

		allowed, err := service.NewUserService(c.Request.Context()).HasSearchAccess(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "access check failed"})
			return
		}

		if !allowed {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "account is banned"})
			return
		}

		ctx := context.WithValue(c.Request.Context(), userIDKey{}, userID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// GetUserID returns the authenticated account id, zero for anonymous
// requests.
func GetUserID(c *gin.Context) int64 {
	if v := c.Request.Context().Value(userIDKey{}); v != nil {
		if id, ok := v.(int64); ok {
			return id
		}
	}

	return 0
}
