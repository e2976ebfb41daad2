package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/mediavault/pkg/internal/handle"
)

// RegisterHealthCheckRoute binds the per-component health checks.
func RegisterHealthCheckRoute(g *gin.RouterGroup) {
	healthRoutes := g.Group("/health")
	{
		healthRoutes.GET("", handle.Healthz)
		healthRoutes.GET("/db", handle.HealthDB)
		healthRoutes.GET("/s3", handle.HealthS3)
		healthRoutes.GET("/mq", handle.HealthMQ)
		healthRoutes.GET("/kv", handle.HealthKV)
	}
}
