package model

import (
	"time"
)

// FileRecord is one cataloged media file. The same schema backs every
// partition table; the partition a record lives in is the table itself, not a
// column.
type FileRecord struct {
	// Key is the compact identity derived from the platform handle. Two
	// handles for the same underlying media collapse onto one key.
	Key string `gorm:"primaryKey;size:64" json:"key"`
	// RefHandle is the original opaque handle, kept so the file can be
	// re-fetched from the platform.
	RefHandle string `gorm:"size:512" json:"ref_handle"`
	// FileName and Caption are stored normalized: mentions and join
	// punctuation replaced with spaces at ingest.
	FileName  string `gorm:"size:512;index" json:"file_name"`
	FileSize  int64  `gorm:"index"          json:"file_size"`
	Caption   string `gorm:"type:text"      json:"caption,omitempty"`
	MediaType string `gorm:"size:32;index"  json:"media_type"`
	Language  string `gorm:"size:32;index"  json:"language,omitempty"`

	// AddedAt fixes the store-native ordering that search results and
	// predicate scans follow.
	AddedAt time.Time `gorm:"index" json:"added_at"`

	// MovedFrom and MovedAt are set on the copy written into a move's target
	// partition. An interrupted move leaves the source copy behind; the
	// reconcile job uses these fields to tell which duplicate is stale.
	MovedFrom string     `gorm:"size:16" json:"moved_from,omitempty"`
	MovedAt   *time.Time `json:"moved_at,omitempty"`

	// CopiedAt is stamped on the duplicate a copy writes into its target
	// partition.
	CopiedAt *time.Time `json:"copied_at,omitempty"`
}
