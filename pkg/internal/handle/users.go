package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/mediavault/pkg/internal/service"
	"github.com/yeisme/mediavault/pkg/internal/types"
	"github.com/yeisme/mediavault/pkg/log"
)

// EnsureUser registers a platform account or refreshes its display name.
func EnsureUser(c *gin.Context) {
	var req types.EnsureUserRequest
	if err := bindJSON(c, &req); err != nil {
		return
	}

	svc := service.NewUserService(c.Request.Context())

	user, err := svc.EnsureUser(c.Request.Context(), req.ID, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// GetUser returns one account by id.
func GetUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	svc := service.NewUserService(c.Request.Context())

	user, err := svc.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// BanUser blocks an account from search access.
func BanUser(c *gin.Context) {
	l := log.Logger()

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req types.BanRequest
	if err := bindJSON(c, &req); err != nil {
		return
	}

	svc := service.NewUserService(c.Request.Context())

	if err := svc.Ban(c.Request.Context(), id, req.Reason); err != nil {
		respondError(c, err)
		return
	}

	l.Info().Int64("user_id", id).Str("reason", req.Reason).Msg("user banned")
	c.Status(http.StatusNoContent)
}

// UnbanUser restores an account's search access.
func UnbanUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	svc := service.NewUserService(c.Request.Context())

	if err := svc.Unban(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// SetUserRole assigns an account's role, with an optional premium expiry.
func SetUserRole(c *gin.Context) {
	l := log.Logger()

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req types.SetRoleRequest
	if err := bindJSON(c, &req); err != nil {
		return
	}

	svc := service.NewUserService(c.Request.Context())

	if err := svc.SetRole(c.Request.Context(), id, req.Role, req.PremiumUntil); err != nil {
		respondError(c, err)
		return
	}

	l.Info().Int64("user_id", id).Str("role", req.Role).Msg("role updated")
	c.Status(http.StatusNoContent)
}
