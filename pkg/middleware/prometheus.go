package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/mediavault/pkg/metrics"
)

// PrometheusMiddleware records request counts and latencies per method and
// route template.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		// The route template keeps cardinality bounded; the raw path would
		// mint a new series per catalog key.
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		method := c.Request.Method

		c.Next()

		metrics.RequestCounter.WithLabelValues(method, path).Inc()

		duration := time.Since(start).Seconds()
		metrics.RequestDuration.WithLabelValues(method, path).Observe(duration)
	}
}
