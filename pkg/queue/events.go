package queue

import "github.com/ThreeDotsLabs/watermill/message"

// Typed publish/parse helpers per topic.

// PublishIngested publishes mv.catalog.ingested.
func PublishIngested(pub message.Publisher, payload IngestedPayload, opts ...func(*EventHeader)) error {
	return publish(pub, TopicCatalogIngested, payload, opts...)
}

// ParseIngested parses an mv.catalog.ingested message.
func ParseIngested(msg *message.Message) (Message[IngestedPayload], error) {
	return ParseWatermillMessage[IngestedPayload](msg)
}

// PublishDuplicate publishes mv.catalog.duplicate.
func PublishDuplicate(pub message.Publisher, payload DuplicatePayload, opts ...func(*EventHeader)) error {
	return publish(pub, TopicCatalogDuplicate, payload, opts...)
}

// PublishMoved publishes mv.catalog.moved.
func PublishMoved(pub message.Publisher, payload MovedPayload, opts ...func(*EventHeader)) error {
	return publish(pub, TopicCatalogMoved, payload, opts...)
}

// PublishCopied publishes mv.catalog.copied.
func PublishCopied(pub message.Publisher, payload CopiedPayload, opts ...func(*EventHeader)) error {
	return publish(pub, TopicCatalogCopied, payload, opts...)
}

// PublishBulkMoved publishes mv.catalog.bulk_moved.
func PublishBulkMoved(pub message.Publisher, payload BulkMovedPayload, opts ...func(*EventHeader)) error {
	return publish(pub, TopicCatalogBulkMoved, payload, opts...)
}

// PublishDeleted publishes mv.catalog.deleted.
func PublishDeleted(pub message.Publisher, payload DeletedPayload, opts ...func(*EventHeader)) error {
	return publish(pub, TopicCatalogDeleted, payload, opts...)
}

// PublishStoreFull publishes mv.catalog.store.full.
func PublishStoreFull(pub message.Publisher, payload StoreFullPayload, opts ...func(*EventHeader)) error {
	return publish(pub, TopicCatalogStoreFull, payload, opts...)
}

// PublishReconciled publishes mv.catalog.reconciled.
func PublishReconciled(pub message.Publisher, payload ReconciledPayload, opts ...func(*EventHeader)) error {
	return publish(pub, TopicCatalogReconciled, payload, opts...)
}

// PublishSnapshot publishes mv.catalog.snapshot.
func PublishSnapshot(pub message.Publisher, payload SnapshotPayload, opts ...func(*EventHeader)) error {
	return publish(pub, TopicCatalogSnapshot, payload, opts...)
}

// PublishUserBanned publishes mv.users.banned.
func PublishUserBanned(pub message.Publisher, payload UserBannedPayload, opts ...func(*EventHeader)) error {
	return publish(pub, TopicUserBanned, payload, opts...)
}

// PublishUserDowngraded publishes mv.users.downgraded.
func PublishUserDowngraded(pub message.Publisher, payload UserDowngradedPayload, opts ...func(*EventHeader)) error {
	return publish(pub, TopicUserDowngraded, payload, opts...)
}

func publish[T any](pub message.Publisher, topic string, payload T, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(topic, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(topic, msg)
}
