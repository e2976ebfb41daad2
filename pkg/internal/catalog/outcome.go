package catalog

import "errors"

// InsertOutcome is the closed result set of a catalog insert. Callers report
// these verbatim to operators, so the distinctions are part of the contract:
// a duplicate is not an error, and a full store is not a failure.
type InsertOutcome int

const (
	// Inserted means the record was written, to the primary store or, after a
	// capacity retry, to the overflow store.
	Inserted InsertOutcome = iota
	// Duplicate means a record with the same key already exists.
	Duplicate
	// StoreFull means the primary store rejected the write for capacity and
	// no overflow store could absorb it.
	StoreFull
	// Failed means the write errored for any other reason.
	Failed
)

func (o InsertOutcome) String() string {
	switch o {
	case Inserted:
		return "inserted"
	case Duplicate:
		return "duplicate"
	case StoreFull:
		return "store_full"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

var (
	// ErrNotFound is returned when a key is absent from the partition an
	// operation addressed.
	ErrNotFound = errors.New("catalog: record not found")

	// ErrTargetExists is returned by copy and move when the target partition
	// already holds the key.
	ErrTargetExists = errors.New("catalog: record already exists in target partition")
)
