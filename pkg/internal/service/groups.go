package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yeisme/mediavault/pkg/cache"
	ctxPkg "github.com/yeisme/mediavault/pkg/context"
	"github.com/yeisme/mediavault/pkg/internal/model"
	itypes "github.com/yeisme/mediavault/pkg/internal/types"
	mlog "github.com/yeisme/mediavault/pkg/log"
)

var (
	// ErrGroupNotFound is returned for operations on an unknown group id.
	ErrGroupNotFound = errors.New("group not found")
	// ErrNoteNotFound is returned when a group has no note by that name.
	ErrNoteNotFound = errors.New("note not found")
	// ErrNoActiveConnection is returned when a user's session points at no
	// group.
	ErrNoActiveConnection = errors.New("no active connection")
	// ErrJoinRequestNotFound is returned when no pending request matches.
	ErrJoinRequestNotFound = errors.New("join request not found")
)

// groupSettingsTTL bounds how stale a cached settings blob can get after an
// update made by another instance.
const groupSettingsTTL = 10 * time.Minute

// GroupService manages groups, their settings, filters, notes, connections
// and join requests. Settings sit on the hot path of every group search, so
// they are read through the cache.
type GroupService struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewGroupService(c context.Context) *GroupService {
	dataClient := ctxPkg.GetDataDBClient(c)
	if dataClient == nil {
		mlog.Logger().Fatal().Msg("data database client not initialized")
	}

	kvClient := ctxPkg.GetKVClient(c)
	if kvClient == nil {
		mlog.Logger().Fatal().Msg("kv client not initialized")
	}

	return &GroupService{
		db:    dataClient.DB,
		cache: cache.NewCache(kvClient),
	}
}

func groupSettingsKey(groupID int64) string {
	return fmt.Sprintf("grp-settings-%d", groupID)
}

// EnsureGroup returns the group row for an id, creating an enabled one with
// default settings on first contact.
func (gs *GroupService) EnsureGroup(ctx context.Context, id int64, title string) (*model.Group, error) {
	var group model.Group

	attrs := model.Group{Title: title, Enabled: true}
	if err := attrs.SetSettings(itypes.DefaultGroupSettings()); err != nil {
		return nil, err
	}

	err := gs.db.WithContext(ctx).
		Where(model.Group{ID: id}).
		Attrs(attrs).
		FirstOrCreate(&group).Error
	if err != nil {
		return nil, fmt.Errorf("ensure group %d: %w", id, err)
	}

	if title != "" && group.Title != title {
		group.Title = title
		if err := gs.db.WithContext(ctx).Model(&group).Update("title", title).Error; err != nil {
			return nil, fmt.Errorf("update group %d title: %w", id, err)
		}
	}

	return &group, nil
}

func (gs *GroupService) GetGroup(ctx context.Context, id int64) (*model.Group, error) {
	var group model.Group

	err := gs.db.WithContext(ctx).Take(&group, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrGroupNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("get group %d: %w", id, err)
	}

	return &group, nil
}

// Enable reactivates a disabled group and clears the recorded reason.
func (gs *GroupService) Enable(ctx context.Context, id int64) error {
	return gs.setEnabled(ctx, id, true, "")
}

// Disable turns the service off for a group, recording why for operators.
func (gs *GroupService) Disable(ctx context.Context, id int64, reason string) error {
	return gs.setEnabled(ctx, id, false, reason)
}

func (gs *GroupService) setEnabled(ctx context.Context, id int64, enabled bool, reason string) error {
	res := gs.db.WithContext(ctx).Model(&model.Group{}).
		Where("id = ?", id).
		Updates(map[string]any{"enabled": enabled, "disable_reason": reason})
	if res.Error != nil {
		return fmt.Errorf("set group %d enabled: %w", id, res.Error)
	}

	if res.RowsAffected == 0 {
		return ErrGroupNotFound
	}

	return nil
}

// Settings returns a group's settings through the cache. A missing row yields
// defaults without creating anything.
func (gs *GroupService) Settings(ctx context.Context, groupID int64) (itypes.GroupSettings, error) {
	return cache.GetOrSet(ctx, gs.cache, groupSettingsKey(groupID), func() (itypes.GroupSettings, error) {
		group, err := gs.GetGroup(ctx, groupID)
		if errors.Is(err, ErrGroupNotFound) {
			return itypes.DefaultGroupSettings(), nil
		}

		if err != nil {
			return itypes.GroupSettings{}, err
		}

		return group.Settings()
	}, groupSettingsTTL)
}

// UpdateSettings persists new settings and invalidates the cached copy.
func (gs *GroupService) UpdateSettings(ctx context.Context, groupID int64, s itypes.GroupSettings) error {
	group, err := gs.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}

	if err := group.SetSettings(s); err != nil {
		return err
	}

	err = gs.db.WithContext(ctx).Model(group).Update("settings_json", group.SettingsJSON).Error
	if err != nil {
		return fmt.Errorf("update group %d settings: %w", groupID, err)
	}

	if err := gs.cache.Delete(ctx, groupSettingsKey(groupID)); err != nil {
		mlog.Logger().Warn().Err(err).Int64("group_id", groupID).Msg("invalidate settings cache failed")
	}

	return nil
}

// SetFilter creates or replaces a group's keyword filter.
func (gs *GroupService) SetFilter(ctx context.Context, groupID int64, keyword, reply, buttonsJSON string) error {
	filter := model.Filter{
		GroupID: groupID,
		Keyword: keyword,
	}

	err := gs.db.WithContext(ctx).
		Where(model.Filter{GroupID: groupID, Keyword: keyword}).
		Assign(map[string]any{"reply": reply, "buttons_json": buttonsJSON}).
		FirstOrCreate(&filter).Error
	if err != nil {
		return fmt.Errorf("set filter %q for group %d: %w", keyword, groupID, err)
	}

	return nil
}

// ListFilters returns a group's filters in keyword order.
func (gs *GroupService) ListFilters(ctx context.Context, groupID int64) ([]model.Filter, error) {
	var filters []model.Filter

	err := gs.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("keyword").
		Find(&filters).Error
	if err != nil {
		return nil, fmt.Errorf("list filters for group %d: %w", groupID, err)
	}

	return filters, nil
}

// DeleteFilter removes one keyword filter. Deleting an absent keyword is not
// an error, matching how chat admins retry deletes.
func (gs *GroupService) DeleteFilter(ctx context.Context, groupID int64, keyword string) (bool, error) {
	res := gs.db.WithContext(ctx).
		Where("group_id = ? AND keyword = ?", groupID, keyword).
		Delete(&model.Filter{})
	if res.Error != nil {
		return false, fmt.Errorf("delete filter %q for group %d: %w", keyword, groupID, res.Error)
	}

	return res.RowsAffected > 0, nil
}

// DeleteAllFilters clears a group's filters and reports how many went away.
func (gs *GroupService) DeleteAllFilters(ctx context.Context, groupID int64) (int64, error) {
	res := gs.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Delete(&model.Filter{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete filters for group %d: %w", groupID, res.Error)
	}

	return res.RowsAffected, nil
}

// SaveNote creates or replaces a named note in a group.
func (gs *GroupService) SaveNote(ctx context.Context, groupID int64, name, content string) error {
	note := model.Note{GroupID: groupID, Name: name}

	err := gs.db.WithContext(ctx).
		Where(model.Note{GroupID: groupID, Name: name}).
		Assign(map[string]any{"content": content}).
		FirstOrCreate(&note).Error
	if err != nil {
		return fmt.Errorf("save note %q in group %d: %w", name, groupID, err)
	}

	return nil
}

func (gs *GroupService) GetNote(ctx context.Context, groupID int64, name string) (*model.Note, error) {
	var note model.Note

	err := gs.db.WithContext(ctx).
		Where("group_id = ? AND name = ?", groupID, name).
		Take(&note).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoteNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("get note %q in group %d: %w", name, groupID, err)
	}

	return &note, nil
}

func (gs *GroupService) ListNotes(ctx context.Context, groupID int64) ([]model.Note, error) {
	var notes []model.Note

	err := gs.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("name").
		Find(&notes).Error
	if err != nil {
		return nil, fmt.Errorf("list notes for group %d: %w", groupID, err)
	}

	return notes, nil
}

func (gs *GroupService) DeleteNote(ctx context.Context, groupID int64, name string) (bool, error) {
	res := gs.db.WithContext(ctx).
		Where("group_id = ? AND name = ?", groupID, name).
		Delete(&model.Note{})
	if res.Error != nil {
		return false, fmt.Errorf("delete note %q in group %d: %w", name, groupID, res.Error)
	}

	return res.RowsAffected > 0, nil
}

// Connect points a user's private-chat session at a group. Any previous
// active connection of the user is deactivated first; one connection is
// active at a time.
func (gs *GroupService) Connect(ctx context.Context, userID, groupID int64) error {
	return gs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&model.Connection{}).
			Where("user_id = ? AND active = ?", userID, true).
			Update("active", false).Error
		if err != nil {
			return fmt.Errorf("deactivate connections for user %d: %w", userID, err)
		}

		conn := model.Connection{UserID: userID, GroupID: groupID}

		err = tx.Where(model.Connection{UserID: userID, GroupID: groupID}).
			Assign(map[string]any{"active": true}).
			FirstOrCreate(&conn).Error
		if err != nil {
			return fmt.Errorf("connect user %d to group %d: %w", userID, groupID, err)
		}

		return nil
	})
}

// ActiveConnection returns the group a user's session currently points at.
func (gs *GroupService) ActiveConnection(ctx context.Context, userID int64) (*model.Connection, error) {
	var conn model.Connection

	err := gs.db.WithContext(ctx).
		Where("user_id = ? AND active = ?", userID, true).
		Take(&conn).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoActiveConnection
	}

	if err != nil {
		return nil, fmt.Errorf("active connection for user %d: %w", userID, err)
	}

	return &conn, nil
}

// Disconnect deactivates the user's active connection, if any.
func (gs *GroupService) Disconnect(ctx context.Context, userID int64) error {
	err := gs.db.WithContext(ctx).Model(&model.Connection{}).
		Where("user_id = ? AND active = ?", userID, true).
		Update("active", false).Error
	if err != nil {
		return fmt.Errorf("disconnect user %d: %w", userID, err)
	}

	return nil
}

// RecordJoinRequest stores a pending join request, reviving any previously
// resolved one for the same user and group.
func (gs *GroupService) RecordJoinRequest(ctx context.Context, groupID, userID int64) error {
	req := model.JoinRequest{GroupID: groupID, UserID: userID}

	err := gs.db.WithContext(ctx).
		Where(model.JoinRequest{GroupID: groupID, UserID: userID}).
		Assign(map[string]any{"status": model.JoinPending}).
		FirstOrCreate(&req).Error
	if err != nil {
		return fmt.Errorf("record join request for user %d in group %d: %w", userID, groupID, err)
	}

	return nil
}

// ResolveJoinRequest marks a pending request approved or declined.
func (gs *GroupService) ResolveJoinRequest(ctx context.Context, groupID, userID int64, approve bool) error {
	status := model.JoinDeclined
	if approve {
		status = model.JoinApproved
	}

	res := gs.db.WithContext(ctx).Model(&model.JoinRequest{}).
		Where("group_id = ? AND user_id = ? AND status = ?", groupID, userID, model.JoinPending).
		Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("resolve join request for user %d in group %d: %w", userID, groupID, res.Error)
	}

	if res.RowsAffected == 0 {
		return ErrJoinRequestNotFound
	}

	return nil
}

// PendingJoinRequests lists a group's unresolved join requests.
func (gs *GroupService) PendingJoinRequests(ctx context.Context, groupID int64) ([]model.JoinRequest, error) {
	var reqs []model.JoinRequest

	err := gs.db.WithContext(ctx).
		Where("group_id = ? AND status = ?", groupID, model.JoinPending).
		Order("created_at").
		Find(&reqs).Error
	if err != nil {
		return nil, fmt.Errorf("list join requests for group %d: %w", groupID, err)
	}

	return reqs, nil
}
