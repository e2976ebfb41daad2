package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	ctxPkg "github.com/yeisme/mediavault/pkg/context"
)

// traceHeader carries the request's trace id in and out of the service.
const traceHeader = "X-Request-ID"

// TraceMiddleware assigns each request a trace id, honoring one supplied by
// the caller, and echoes it in the response. Log lines and published events
// carry the same id.
func TraceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(traceHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}

		ctx := ctxPkg.WithTraceID(c.Request.Context(), traceID)
		c.Request = c.Request.WithContext(ctx)
		c.Writer.Header().Set(traceHeader, traceID)

		c.Next()
	}
}
