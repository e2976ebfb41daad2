package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/mediavault/pkg/internal/service"
)

// GetStats summarizes the catalog for operators.
func GetStats(c *gin.Context) {
	svc := service.NewStatsService(c.Request.Context())

	res, err := svc.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}
