package model

import (
	"time"
)

// User roles, ordered by privilege.
const (
	RolePublic  = "public"
	RolePremium = "premium"
	RoleAdmin   = "admin"
)

// User is a chat platform account known to the catalog.
type User struct {
	ID   int64  `gorm:"primaryKey"     json:"id"`
	Name string `gorm:"size:255"       json:"name"`
	Role string `gorm:"size:16;index"  json:"role"`
	// PremiumUntil bounds the premium role. A premium user whose expiry has
	// passed is downgraded to public the next time their access is checked.
	PremiumUntil *time.Time `gorm:"index" json:"premium_until,omitempty"`

	Banned    bool   `gorm:"index"    json:"banned"`
	BanReason string `gorm:"size:255" json:"ban_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Connection links a user to a group they administer through the service, so
// group commands issued in a private chat land on the right group. At most
// one connection per user is active.
type Connection struct {
	ID      uint  `gorm:"primaryKey"                      json:"id"`
	UserID  int64 `gorm:"index:idx_conn_user_grp,unique"  json:"user_id"`
	GroupID int64 `gorm:"index:idx_conn_user_grp,unique"  json:"group_id"`
	Active  bool  `gorm:"index"                           json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Join request states.
const (
	JoinPending  = "pending"
	JoinApproved = "approved"
	JoinDeclined = "declined"
)

// JoinRequest records a user's pending request to join a managed group.
type JoinRequest struct {
	ID      uint   `gorm:"primaryKey"                     json:"id"`
	GroupID int64  `gorm:"index:idx_join_grp_user,unique" json:"group_id"`
	UserID  int64  `gorm:"index:idx_join_grp_user,unique" json:"user_id"`
	Status  string `gorm:"size:16;index"                  json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
