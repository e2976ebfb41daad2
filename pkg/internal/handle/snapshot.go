package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/mediavault/pkg/internal/catalog"
	"github.com/yeisme/mediavault/pkg/internal/service"
	"github.com/yeisme/mediavault/pkg/internal/types"
	"github.com/yeisme/mediavault/pkg/log"
)

// ExportSnapshot dumps every partition to object storage.
func ExportSnapshot(c *gin.Context) {
	l := log.Logger()

	svc := service.NewSnapshotService(c.Request.Context())

	keys, err := svc.Export(c.Request.Context())
	if err != nil {
		l.Error().Err(err).Msg("snapshot export failed")
		respondError(c, err)

		return
	}

	c.JSON(http.StatusOK, types.SnapshotResponse{ObjectKeys: keys})
}

// RestoreSnapshot loads one snapshot object back into a partition.
func RestoreSnapshot(c *gin.Context) {
	l := log.Logger()

	var req types.RestoreRequest
	if err := bindJSON(c, &req); err != nil {
		return
	}

	svc := service.NewSnapshotService(c.Request.Context())

	inserted, err := svc.Restore(c.Request.Context(), req.ObjectKey, catalog.ParsePartition(req.Partition))
	if err != nil {
		l.Error().Err(err).Str("object_key", req.ObjectKey).Msg("snapshot restore failed")
		respondError(c, err)

		return
	}

	l.Info().Str("object_key", req.ObjectKey).Int64("inserted", inserted).Msg("snapshot restored")
	c.JSON(http.StatusOK, types.RestoreResponse{Inserted: inserted})
}
