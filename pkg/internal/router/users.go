package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/mediavault/pkg/internal/handle"
)

// RegisterUserRoutes binds the account management routes.
func RegisterUserRoutes(g *gin.RouterGroup) {
	userRoutes := g.Group("/users")
	{
		userRoutes.POST("", handle.EnsureUser)
		userRoutes.GET("/:id", handle.GetUser)
		userRoutes.POST("/:id/ban", handle.BanUser)
		userRoutes.POST("/:id/unban", handle.UnbanUser)
		userRoutes.PUT("/:id/role", handle.SetUserRole)
	}

	connRoutes := g.Group("/connections")
	{
		connRoutes.POST("", handle.Connect)
		connRoutes.GET("/:user_id", handle.ActiveConnection)
		connRoutes.DELETE("/:user_id", handle.Disconnect)
	}
}
