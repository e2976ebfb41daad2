package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/mediavault/pkg/internal/service"
	"github.com/yeisme/mediavault/pkg/internal/types"
	"github.com/yeisme/mediavault/pkg/log"
)

// SearchFiles runs a merged search across partitions and returns one page.
func SearchFiles(c *gin.Context) {
	l := log.Logger()

	var req types.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		l.Warn().Err(err).Msg("invalid search request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	svc := service.NewCatalogService(c.Request.Context())

	res, err := svc.Search(c.Request.Context(), &req)
	if err != nil {
		l.Error().Err(err).Str("query", req.Query).Msg("search failed")
		respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, res)
}

// SearchCounts returns match counts without fetching result rows.
func SearchCounts(c *gin.Context) {
	var req types.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svc := service.NewCatalogService(c.Request.Context())

	res, err := svc.SearchCounts(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}
