package model

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"

	itypes "github.com/yeisme/mediavault/pkg/internal/types"
)

// Group is a chat group the catalog serves. Settings are kept as JSON text;
// they are read through the cache layer on every search, so the DB row only
// needs to round-trip, not support field-level queries.
type Group struct {
	ID    int64  `gorm:"primaryKey" json:"id"`
	Title string `gorm:"size:255"   json:"title"`

	Enabled       bool   `gorm:"index"    json:"enabled"`
	DisableReason string `gorm:"size:255" json:"disable_reason,omitempty"`

	SettingsJSON string `gorm:"type:text" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Settings deserializes the group's settings, falling back to defaults for a
// row written before any customization.
func (g *Group) Settings() (itypes.GroupSettings, error) {
	if g.SettingsJSON == "" {
		return itypes.DefaultGroupSettings(), nil
	}

	var s itypes.GroupSettings
	if err := sonic.Unmarshal([]byte(g.SettingsJSON), &s); err != nil {
		return itypes.GroupSettings{}, fmt.Errorf("unmarshal group settings: %w", err)
	}

	return s, nil
}

// SetSettings serializes settings back onto the row.
func (g *Group) SetSettings(s itypes.GroupSettings) error {
	b, err := sonic.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal group settings: %w", err)
	}

	g.SettingsJSON = string(b)

	return nil
}

// Filter is a group-scoped manual keyword reply.
type Filter struct {
	ID      uint   `gorm:"primaryKey"                       json:"id"`
	GroupID int64  `gorm:"index:idx_filter_grp_kw,unique"   json:"group_id"`
	Keyword string `gorm:"size:255;index:idx_filter_grp_kw,unique" json:"keyword"`
	Reply   string `gorm:"type:text"                        json:"reply"`
	// ButtonsJSON holds the serialized inline button layout, opaque to the
	// service.
	ButtonsJSON string `gorm:"type:text" json:"buttons_json,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Note is a named saved message within a group.
type Note struct {
	ID      uint   `gorm:"primaryKey"                            json:"id"`
	GroupID int64  `gorm:"index:idx_note_grp_name,unique"        json:"group_id"`
	Name    string `gorm:"size:255;index:idx_note_grp_name,unique" json:"name"`
	Content string `gorm:"type:text"                             json:"content"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
