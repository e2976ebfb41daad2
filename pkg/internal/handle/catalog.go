package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/mediavault/pkg/internal/service"
	"github.com/yeisme/mediavault/pkg/internal/types"
	"github.com/yeisme/mediavault/pkg/log"
)

// IngestFile registers a media handle with the catalog.
func IngestFile(c *gin.Context) {
	l := log.Logger()

	var req types.IngestRequest
	if err := bindJSON(c, &req); err != nil {
		l.Warn().Err(err).Msg("invalid ingest request")
		return
	}

	svc := service.NewCatalogService(c.Request.Context())

	res, err := svc.Ingest(c.Request.Context(), &req)
	if err != nil {
		l.Error().Err(err).Str("file_name", req.FileName).Msg("ingest failed")
		respondError(c, err)

		return
	}

	status := http.StatusCreated
	if res.Outcome != "inserted" {
		status = http.StatusOK
	}

	c.JSON(status, res)
}

// GetFile returns one record by catalog key.
func GetFile(c *gin.Context) {
	svc := service.NewCatalogService(c.Request.Context())

	res, err := svc.GetByKey(c.Request.Context(), c.Param("key"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// DeleteFiles removes every record matching a query predicate.
func DeleteFiles(c *gin.Context) {
	l := log.Logger()

	var req types.DeleteRequest
	if err := bindJSON(c, &req); err != nil {
		return
	}

	svc := service.NewCatalogService(c.Request.Context())

	res, err := svc.DeleteMatching(c.Request.Context(), &req)
	if err != nil {
		l.Error().Err(err).Str("query", req.Query).Msg("predicate delete failed")
		respondError(c, err)

		return
	}

	l.Info().Str("query", req.Query).Int64("deleted", res.Deleted).Msg("records deleted")
	c.JSON(http.StatusOK, res)
}
