package queue

import "time"

// EventHeader is the shared metadata on every event. Producers should fill
// TraceID and Producer so consumers can correlate events with requests.
type EventHeader struct {
	// Topic redundantly records the message topic, so a dumped or archived
	// message still identifies its source.
	Topic string `json:"topic"`
	// TraceID correlates the event with the request that caused it.
	TraceID string `json:"trace_id,omitempty"`
	// Producer is the emitting service or node.
	Producer string `json:"producer,omitempty"`
	// OccurredAt is the event time (UTC, RFC3339).
	OccurredAt time.Time `json:"occurred_at"`
	// Version allows the payload to evolve without breaking consumers.
	Version string `json:"version,omitempty"`
}

// Message is the uniform envelope: header plus topic-specific payload.
type Message[T any] struct {
	Header  EventHeader `json:"header"`
	Payload T           `json:"payload"`
}

// RecordRef identifies a catalog record and where it lives.
type RecordRef struct {
	Key       string `json:"key"`
	Partition string `json:"partition"`
	FileName  string `json:"file_name,omitempty"`
	FileSize  int64  `json:"file_size,omitempty"`
	MediaType string `json:"media_type,omitempty"`
	Language  string `json:"language,omitempty"`
}

// IngestedPayload reports a newly cataloged record.
type IngestedPayload struct {
	Record RecordRef `json:"record"`
	// Overflow is true when the write landed in the overflow store after a
	// capacity retry.
	Overflow bool `json:"overflow,omitempty"`
}

// DuplicatePayload reports an ingest that hit an existing key.
type DuplicatePayload struct {
	Record RecordRef `json:"record"`
}

// MovedPayload reports a record relocated between partitions.
type MovedPayload struct {
	Record RecordRef `json:"record"`
	From   string    `json:"from"`
	To     string    `json:"to"`
}

// CopiedPayload reports a record duplicated into another partition.
type CopiedPayload struct {
	Record RecordRef `json:"record"`
	From   string    `json:"from"`
	To     string    `json:"to"`
}

// BulkMovedPayload summarizes a bulk move.
type BulkMovedPayload struct {
	From        string   `json:"from"`
	To          string   `json:"to"`
	Total       int      `json:"total"`
	Moved       int      `json:"moved"`
	Skipped     int      `json:"skipped"`
	SkippedKeys []string `json:"skipped_keys,omitempty"`
}

// DeletedPayload summarizes a predicate delete.
type DeletedPayload struct {
	Partition string `json:"partition"`
	Query     string `json:"query"`
	Deleted   int64  `json:"deleted"`
}

// StoreFullPayload flags an ingest rejected for capacity, so operators can
// act before the overflow store fills up too.
type StoreFullPayload struct {
	Record RecordRef `json:"record"`
}

// ReconciledPayload summarizes a reconcile pass over interrupted moves.
type ReconciledPayload struct {
	StaleRemoved int `json:"stale_removed"`
}

// SnapshotPayload reports an exported catalog snapshot.
type SnapshotPayload struct {
	Bucket    string `json:"bucket"`
	ObjectKey string `json:"object_key"`
	Records   int64  `json:"records"`
}

// UserBannedPayload reports a ban or unban.
type UserBannedPayload struct {
	UserID int64  `json:"user_id"`
	Banned bool   `json:"banned"`
	Reason string `json:"reason,omitempty"`
}

// UserDowngradedPayload reports a premium role expiring.
type UserDowngradedPayload struct {
	UserID int64 `json:"user_id"`
}
