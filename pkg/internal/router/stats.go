package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/mediavault/pkg/internal/handle"
)

// RegisterStatsRoutes binds the operator statistics route.
func RegisterStatsRoutes(g *gin.RouterGroup) {
	g.GET("/stats", handle.GetStats)
}

// RegisterSnapshotRoutes binds the snapshot export and restore routes.
func RegisterSnapshotRoutes(g *gin.RouterGroup) {
	snapshotRoutes := g.Group("/snapshots")
	{
		snapshotRoutes.POST("/export", handle.ExportSnapshot)
		snapshotRoutes.POST("/restore", handle.RestoreSnapshot)
	}
}
