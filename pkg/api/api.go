// Package api assembles the HTTP route groups onto a gin engine.
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/mediavault/pkg/internal/router"
)

// RegisterGroup mounts every route group under /api/v1.
func RegisterGroup(e *gin.Engine) *gin.Engine {
	v1 := e.Group("/api/v1")

	router.RegisterCatalogRoutes(v1)
	router.RegisterUserRoutes(v1)
	router.RegisterGroupRoutes(v1)
	router.RegisterStatsRoutes(v1)
	router.RegisterSnapshotRoutes(v1)
	router.RegisterHealthCheckRoute(v1)
	router.RegisterSchedulerRoutes(v1)

	return e
}
