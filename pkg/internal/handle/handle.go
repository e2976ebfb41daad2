// Package handle implements the HTTP request handlers for the catalog API.
package handle

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/mediavault/pkg/fileid"
	"github.com/yeisme/mediavault/pkg/internal/catalog"
	"github.com/yeisme/mediavault/pkg/internal/service"
	"github.com/yeisme/mediavault/pkg/rule"
)

// bindJSON decodes the request body and runs the struct's validation rules,
// replying 400 itself on failure.
func bindJSON(c *gin.Context, req any) error {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return err
	}

	if err := rule.ValidateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return err
	}

	return nil
}

// respondError maps service errors onto HTTP statuses: missing records are
// 404, target collisions 409, malformed input 400, everything else 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrGroupNotFound),
		errors.Is(err, service.ErrNoteNotFound),
		errors.Is(err, service.ErrNoActiveConnection),
		errors.Is(err, service.ErrJoinRequestNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, catalog.ErrTargetExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, fileid.ErrMalformedHandle),
		errors.Is(err, service.ErrSamePartition):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// pathID parses a numeric id path parameter, replying 400 itself on failure.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}

	return id, true
}
