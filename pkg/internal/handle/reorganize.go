package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/mediavault/pkg/internal/service"
	"github.com/yeisme/mediavault/pkg/internal/types"
	"github.com/yeisme/mediavault/pkg/log"
)

// MoveFile relocates one record between partitions.
func MoveFile(c *gin.Context) {
	l := log.Logger()

	var req types.MoveRequest
	if err := bindJSON(c, &req); err != nil {
		return
	}

	svc := service.NewCatalogService(c.Request.Context())

	res, err := svc.Move(c.Request.Context(), &req)
	if err != nil {
		l.Warn().Err(err).Str("key", req.Key).Str("from", req.From).Str("to", req.To).Msg("move failed")
		respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, res)
}

// CopyFile duplicates one record into another partition.
func CopyFile(c *gin.Context) {
	l := log.Logger()

	var req types.MoveRequest
	if err := bindJSON(c, &req); err != nil {
		return
	}

	svc := service.NewCatalogService(c.Request.Context())

	res, err := svc.Copy(c.Request.Context(), &req)
	if err != nil {
		l.Warn().Err(err).Str("key", req.Key).Str("from", req.From).Str("to", req.To).Msg("copy failed")
		respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, res)
}

// BulkMoveFiles relocates a batch of records, skipping keys that are missing
// from the source or already present in the target.
func BulkMoveFiles(c *gin.Context) {
	l := log.Logger()

	var req types.BulkMoveRequest
	if err := bindJSON(c, &req); err != nil {
		return
	}

	svc := service.NewCatalogService(c.Request.Context())

	res, err := svc.BulkMove(c.Request.Context(), &req)
	if err != nil {
		l.Error().Err(err).Str("from", req.From).Str("to", req.To).Msg("bulk move failed")
		respondError(c, err)

		return
	}

	l.Info().
		Str("from", req.From).
		Str("to", req.To).
		Int("moved", res.Moved).
		Int("skipped", res.Skipped).
		Msg("bulk move done")
	c.JSON(http.StatusOK, res)
}

// ReconcileCatalog sweeps stale move sources left behind by interrupted moves.
func ReconcileCatalog(c *gin.Context) {
	svc := service.NewCatalogService(c.Request.Context())

	removed, err := svc.Reconcile(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"removed": removed})
}
