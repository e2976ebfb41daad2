// Package catalog implements the partitioned metadata store: partition
// routing, regex query building, and the insert/find/delete/scan operations
// every higher-level service goes through.
package catalog

// Partition names one of the catalog's record collections. Each partition is
// a separate table with the same schema, mirrored in the overflow database
// when one is configured.
type Partition string

const (
	PartitionPrimary Partition = "primary"
	PartitionCloud   Partition = "cloud"
	PartitionArchive Partition = "archive"
)

// ParsePartition maps a partition name to its Partition. Unknown or empty
// names fall back to the primary partition, so records sent with a bad label
// still land somewhere findable instead of being rejected.
func ParsePartition(s string) Partition {
	switch Partition(s) {
	case PartitionCloud:
		return PartitionCloud
	case PartitionArchive:
		return PartitionArchive
	default:
		return PartitionPrimary
	}
}

// Partitions returns every partition in stable order. Cross-partition scans
// and merges iterate in exactly this order.
func Partitions() []Partition {
	return []Partition{PartitionPrimary, PartitionCloud, PartitionArchive}
}

// Valid reports whether p is a known partition name.
func (p Partition) Valid() bool {
	switch p {
	case PartitionPrimary, PartitionCloud, PartitionArchive:
		return true
	default:
		return false
	}
}

// TableName returns the table backing this partition. The mapping lives only
// here; nothing else in the codebase names these tables.
func (p Partition) TableName() string {
	switch p {
	case PartitionCloud:
		return "cloud_files"
	case PartitionArchive:
		return "archive_files"
	default:
		return "primary_files"
	}
}

func (p Partition) String() string {
	return string(p)
}
