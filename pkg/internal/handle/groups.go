package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/mediavault/pkg/internal/service"
	"github.com/yeisme/mediavault/pkg/internal/types"
	"github.com/yeisme/mediavault/pkg/log"
)

// EnsureGroup registers a group or refreshes its title.
func EnsureGroup(c *gin.Context) {
	var req types.EnsureGroupRequest
	if err := bindJSON(c, &req); err != nil {
		return
	}

	svc := service.NewGroupService(c.Request.Context())

	group, err := svc.EnsureGroup(c.Request.Context(), req.ID, req.Title)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, group)
}

// GetGroup returns one group by id.
func GetGroup(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	svc := service.NewGroupService(c.Request.Context())

	group, err := svc.GetGroup(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, group)
}

// EnableGroup turns the service back on for a group.
func EnableGroup(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	svc := service.NewGroupService(c.Request.Context())

	if err := svc.Enable(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DisableGroup turns the service off for a group, recording the reason.
func DisableGroup(c *gin.Context) {
	l := log.Logger()

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req types.DisableGroupRequest
	if err := bindJSON(c, &req); err != nil {
		return
	}

	svc := service.NewGroupService(c.Request.Context())

	if err := svc.Disable(c.Request.Context(), id, req.Reason); err != nil {
		respondError(c, err)
		return
	}

	l.Info().Int64("group_id", id).Str("reason", req.Reason).Msg("group disabled")
	c.Status(http.StatusNoContent)
}

// GetGroupSettings returns a group's settings, defaults for unknown groups.
func GetGroupSettings(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	svc := service.NewGroupService(c.Request.Context())

	settings, err := svc.Settings(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, settings)
}

// UpdateGroupSettings replaces a group's settings.
func UpdateGroupSettings(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var settings types.GroupSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svc := service.NewGroupService(c.Request.Context())

	if err := svc.UpdateSettings(c.Request.Context(), id, settings); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// SetGroupFilter creates or replaces a keyword filter.
func SetGroupFilter(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req types.FilterRequest
	if err := bindJSON(c, &req); err != nil {
		return
	}

	svc := service.NewGroupService(c.Request.Context())

	if err := svc.SetFilter(c.Request.Context(), id, req.Keyword, req.Reply, req.ButtonsJSON); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListGroupFilters lists a group's keyword filters.
func ListGroupFilters(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	svc := service.NewGroupService(c.Request.Context())

	filters, err := svc.ListFilters(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"filters": filters})
}

// DeleteGroupFilter removes one keyword filter.
func DeleteGroupFilter(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	svc := service.NewGroupService(c.Request.Context())

	deleted, err := svc.DeleteFilter(c.Request.Context(), id, c.Param("keyword"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

// DeleteAllGroupFilters removes every filter a group has.
func DeleteAllGroupFilters(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	svc := service.NewGroupService(c.Request.Context())

	n, err := svc.DeleteAllFilters(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	log.Logger().Info().Int64("group_id", id).Int64("deleted", n).Msg("filters cleared")
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}

// SaveGroupNote creates or replaces a named note.
func SaveGroupNote(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req types.NoteRequest
	if err := bindJSON(c, &req); err != nil {
		return
	}

	svc := service.NewGroupService(c.Request.Context())

	if err := svc.SaveNote(c.Request.Context(), id, req.Name, req.Content); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetGroupNote returns one note by name.
func GetGroupNote(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	svc := service.NewGroupService(c.Request.Context())

	note, err := svc.GetNote(c.Request.Context(), id, c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, note)
}

// ListGroupNotes lists a group's notes.
func ListGroupNotes(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	svc := service.NewGroupService(c.Request.Context())

	notes, err := svc.ListNotes(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"notes": notes})
}

// DeleteGroupNote removes one note by name.
func DeleteGroupNote(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	svc := service.NewGroupService(c.Request.Context())

	deleted, err := svc.DeleteNote(c.Request.Context(), id, c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

// Connect points a user's session at a group, replacing any active link.
func Connect(c *gin.Context) {
	var req types.ConnectRequest
	if err := bindJSON(c, &req); err != nil {
		return
	}

	svc := service.NewGroupService(c.Request.Context())

	if err := svc.Connect(c.Request.Context(), req.UserID, req.GroupID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ActiveConnection returns the group a user's session currently points at.
func ActiveConnection(c *gin.Context) {
	id, ok := pathID(c, "user_id")
	if !ok {
		return
	}

	svc := service.NewGroupService(c.Request.Context())

	conn, err := svc.ActiveConnection(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, conn)
}

// Disconnect clears a user's active connection.
func Disconnect(c *gin.Context) {
	id, ok := pathID(c, "user_id")
	if !ok {
		return
	}

	svc := service.NewGroupService(c.Request.Context())

	if err := svc.Disconnect(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RecordJoinRequest stores a pending request to join a group.
func RecordJoinRequest(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req types.JoinRequestRequest
	if err := bindJSON(c, &req); err != nil {
		return
	}

	svc := service.NewGroupService(c.Request.Context())

	if err := svc.RecordJoinRequest(c.Request.Context(), id, req.UserID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ResolveJoinRequest approves or declines a pending join request.
func ResolveJoinRequest(c *gin.Context) {
	l := log.Logger()

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req types.ResolveJoinRequest
	if err := bindJSON(c, &req); err != nil {
		return
	}

	svc := service.NewGroupService(c.Request.Context())

	if err := svc.ResolveJoinRequest(c.Request.Context(), id, req.UserID, req.Approve); err != nil {
		respondError(c, err)
		return
	}

	l.Info().Int64("group_id", id).Int64("user_id", req.UserID).Bool("approved", req.Approve).Msg("join request resolved")
	c.Status(http.StatusNoContent)
}

// PendingJoinRequests lists a group's unresolved join requests.
func PendingJoinRequests(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	svc := service.NewGroupService(c.Request.Context())

	reqs, err := svc.PendingJoinRequests(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"join_requests": reqs})
}
