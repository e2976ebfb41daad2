package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/mediavault/pkg/internal/handle"
)

// RegisterCatalogRoutes binds the file catalog routes: ingest, lookup,
// search, predicate delete, and partition reorganization.
func RegisterCatalogRoutes(g *gin.RouterGroup) {
	filesRoutes := g.Group("/files")
	{
		// ingest and predicate delete
		filesRoutes.POST("", handle.IngestFile)
		filesRoutes.DELETE("", handle.DeleteFiles)

		// merged search and its count-only sibling
		filesRoutes.GET("/search", handle.SearchFiles)
		filesRoutes.GET("/counts", handle.SearchCounts)

		// partition reorganization
		filesRoutes.POST("/move", handle.MoveFile)
		filesRoutes.POST("/copy", handle.CopyFile)
		filesRoutes.POST("/bulk-move", handle.BulkMoveFiles)
		filesRoutes.POST("/reconcile", handle.ReconcileCatalog)

		// key lookup; the literal paths above take priority
		filesRoutes.GET("/:key", handle.GetFile)
	}
}
