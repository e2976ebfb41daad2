package queue

// Topic naming: mv.<domain>.<action>[.<state>]. Topics stay stable and
// backward compatible; consumers subscribe by exact name.

const (
	// Catalog record lifecycle.
	TopicCatalogIngested  = "mv.catalog.ingested"   // new record written
	TopicCatalogDuplicate = "mv.catalog.duplicate"  // ingest hit an existing key
	TopicCatalogMoved     = "mv.catalog.moved"      // record moved between partitions
	TopicCatalogCopied    = "mv.catalog.copied"     // record copied between partitions
	TopicCatalogBulkMoved = "mv.catalog.bulk_moved" // bulk move finished
	TopicCatalogDeleted   = "mv.catalog.deleted"    // records deleted by predicate
	TopicCatalogStoreFull = "mv.catalog.store.full" // ingest rejected for capacity

	// Maintenance.
	TopicCatalogReconciled = "mv.catalog.reconciled" // reconcile pass finished
	TopicCatalogSnapshot   = "mv.catalog.snapshot"   // snapshot exported to object storage

	// Access gate.
	TopicUserBanned     = "mv.users.banned"
	TopicUserDowngraded = "mv.users.downgraded" // premium expiry crossed
)

// Topic groups for batch subscription.
var (
	CatalogTopics = []string{
		TopicCatalogIngested, TopicCatalogDuplicate, TopicCatalogMoved,
		TopicCatalogCopied, TopicCatalogBulkMoved, TopicCatalogDeleted,
		TopicCatalogStoreFull,
	}

	MaintenanceTopics = []string{
		TopicCatalogReconciled, TopicCatalogSnapshot,
	}

	UserTopics = []string{
		TopicUserBanned, TopicUserDowngraded,
	}
)
