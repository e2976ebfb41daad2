package types

import "time"

// IngestRequest registers one media handle with the catalog.
type IngestRequest struct {
	// Handle is the platform's opaque media handle; the catalog key is
	// derived from it.
	Handle   string `json:"handle"    rule:"required"`
	FileName string `json:"file_name" rule:"required,max=512"`
	FileSize int64  `json:"file_size" rule:"gte=0"`
	Caption  string `json:"caption"   rule:"max=4096"`
	Language string `json:"language"  rule:"max=32"`
	// Partition names the target partition; unknown values route to primary.
	Partition string `json:"partition"`
}

// IngestResponse reports where an ingest landed and how.
type IngestResponse struct {
	Key       string `json:"key"`
	Partition string `json:"partition"`
	// Outcome is one of inserted, duplicate, store_full, failed.
	Outcome string `json:"outcome"`
}

// SearchRequest queries one partition or, when Partition is empty, all of
// them merged.
type SearchRequest struct {
	Query     string `form:"q"         json:"query"     rule:"max=256"`
	Partition string `form:"partition" json:"partition"`
	Language  string `form:"language"  json:"language"  rule:"max=32"`
	Offset    int    `form:"offset"    json:"offset"    rule:"gte=0"`
	Limit     int    `form:"limit"     json:"limit"     rule:"gte=0,lte=50"`
}

// FileResult is one search hit, tagged with the partition it came from.
type FileResult struct {
	Key       string     `json:"key"`
	RefHandle string     `json:"ref_handle"`
	FileName  string     `json:"file_name"`
	FileSize  int64      `json:"file_size"`
	Caption   string     `json:"caption,omitempty"`
	MediaType string     `json:"media_type"`
	Language  string     `json:"language,omitempty"`
	Partition string     `json:"partition"`
	AddedAt   time.Time  `json:"added_at"`
	MovedFrom string     `json:"moved_from,omitempty"`
	MovedAt   *time.Time `json:"moved_at,omitempty"`
	CopiedAt  *time.Time `json:"copied_at,omitempty"`
}

// SearchResponse is a page of merged results.
type SearchResponse struct {
	Results []FileResult `json:"results"`
	// Total counts every match before pagination.
	Total int `json:"total"`
	// PartitionCounts breaks Total down by source partition.
	PartitionCounts map[string]int `json:"partition_counts"`
	Offset          int            `json:"offset"`
	// NextOffset is where the next page starts; zero with HasMore false when
	// the result set is exhausted.
	NextOffset int  `json:"next_offset"`
	HasMore    bool `json:"has_more"`
}

// SearchCountsResponse is the count-only sibling of SearchResponse.
type SearchCountsResponse struct {
	Total           int            `json:"total"`
	PartitionCounts map[string]int `json:"partition_counts"`
}

// DeleteRequest removes every record matching a query from a partition, or
// from all partitions when Partition is empty.
type DeleteRequest struct {
	Query     string `json:"query"     rule:"required,max=256"`
	Partition string `json:"partition"`
}

// DeleteResponse reports how many records a predicate delete removed.
type DeleteResponse struct {
	Deleted int64 `json:"deleted"`
}

// MoveRequest relocates or copies one record between partitions.
type MoveRequest struct {
	Key  string `json:"key"  rule:"required"`
	From string `json:"from" rule:"required"`
	To   string `json:"to"   rule:"required"`
}

// BulkMoveRequest relocates a batch of records between partitions. The batch
// is an explicit key list or, when Keys is empty, every record whose name
// matches Query (empty Query matches the whole partition).
type BulkMoveRequest struct {
	Query string   `json:"query" rule:"max=256"`
	Keys  []string `json:"keys"`
	From  string   `json:"from"  rule:"required"`
	To    string   `json:"to"    rule:"required"`
}

// BulkMoveResponse summarizes a bulk move: keys missing from the source or
// colliding in the target are skipped, never fatal.
type BulkMoveResponse struct {
	Total       int      `json:"total"`
	Moved       int      `json:"moved"`
	Skipped     int      `json:"skipped"`
	SkippedKeys []string `json:"skipped_keys,omitempty"`
}

// StatsResponse summarizes the catalog for operators.
type StatsResponse struct {
	PartitionCounts map[string]int64 `json:"partition_counts"`
	TotalRecords    int64            `json:"total_records"`
	TotalUsers      int64            `json:"total_users"`
	PremiumUsers    int64            `json:"premium_users"`
	BannedUsers     int64            `json:"banned_users"`
	TotalGroups     int64            `json:"total_groups"`
}
