package types

import "time"

// BanRequest blocks a user, recording the operator's reason.
type BanRequest struct {
	Reason string `json:"reason" rule:"max=255"`
}

// SetRoleRequest assigns a role; premium_until only applies to premium.
type SetRoleRequest struct {
	Role         string     `json:"role"          rule:"required,oneof=public premium admin"`
	PremiumUntil *time.Time `json:"premium_until"`
}

// EnsureUserRequest registers or refreshes a platform account.
type EnsureUserRequest struct {
	ID   int64  `json:"id"   rule:"required"`
	Name string `json:"name" rule:"max=255"`
}

// EnsureGroupRequest registers or refreshes a group.
type EnsureGroupRequest struct {
	ID    int64  `json:"id"    rule:"required"`
	Title string `json:"title" rule:"max=255"`
}

// DisableGroupRequest turns the service off for a group.
type DisableGroupRequest struct {
	Reason string `json:"reason" rule:"max=255"`
}

// FilterRequest creates or replaces a keyword filter.
type FilterRequest struct {
	Keyword     string `json:"keyword"      rule:"required,max=255"`
	Reply       string `json:"reply"        rule:"required"`
	ButtonsJSON string `json:"buttons_json"`
}

// NoteRequest creates or replaces a named note.
type NoteRequest struct {
	Name    string `json:"name"    rule:"required,max=255"`
	Content string `json:"content" rule:"required"`
}

// ConnectRequest points a user's session at a group.
type ConnectRequest struct {
	UserID  int64 `json:"user_id"  rule:"required"`
	GroupID int64 `json:"group_id" rule:"required"`
}

// JoinRequestRequest records a pending request to join a group.
type JoinRequestRequest struct {
	UserID int64 `json:"user_id" rule:"required"`
}

// ResolveJoinRequest settles a pending join request.
type ResolveJoinRequest struct {
	UserID  int64 `json:"user_id" rule:"required"`
	Approve bool  `json:"approve"`
}

// RestoreRequest loads a snapshot object back into a partition.
type RestoreRequest struct {
	ObjectKey string `json:"object_key" rule:"required"`
	Partition string `json:"partition"`
}

// SnapshotResponse lists the objects an export produced.
type SnapshotResponse struct {
	ObjectKeys []string `json:"object_keys"`
}

// RestoreResponse reports how many records a restore inserted.
type RestoreResponse struct {
	Inserted int64 `json:"inserted"`
}
