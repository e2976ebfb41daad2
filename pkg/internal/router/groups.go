package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/mediavault/pkg/internal/handle"
)

// RegisterGroupRoutes binds the group management routes: lifecycle,
// settings, filters, notes, and join requests.
func RegisterGroupRoutes(g *gin.RouterGroup) {
	groupRoutes := g.Group("/groups")
	{
		groupRoutes.POST("", handle.EnsureGroup)

		singleGroup := groupRoutes.Group("/:id")
		{
			singleGroup.GET("", handle.GetGroup)
			singleGroup.POST("/enable", handle.EnableGroup)
			singleGroup.POST("/disable", handle.DisableGroup)

			singleGroup.GET("/settings", handle.GetGroupSettings)
			singleGroup.PUT("/settings", handle.UpdateGroupSettings)

			filterGroup := singleGroup.Group("/filters")
			{
				filterGroup.GET("", handle.ListGroupFilters)
				filterGroup.POST("", handle.SetGroupFilter)
				filterGroup.DELETE("", handle.DeleteAllGroupFilters)
				filterGroup.DELETE("/:keyword", handle.DeleteGroupFilter)
			}

			noteGroup := singleGroup.Group("/notes")
			{
				noteGroup.GET("", handle.ListGroupNotes)
				noteGroup.POST("", handle.SaveGroupNote)
				noteGroup.GET("/:name", handle.GetGroupNote)
				noteGroup.DELETE("/:name", handle.DeleteGroupNote)
			}

			joinGroup := singleGroup.Group("/join-requests")
			{
				joinGroup.GET("", handle.PendingJoinRequests)
				joinGroup.POST("", handle.RecordJoinRequest)
				joinGroup.POST("/resolve", handle.ResolveJoinRequest)
			}
		}
	}
}
