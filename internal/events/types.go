package events

// Link Event Types
const (
	LinkCreated = "LINK_CREATED"
	LinkUpdated = "LINK_UPDATED"
	LinkDeleted = "LINK_DELETED"
	LinkVisited = "LINK_VISITED"
)

// Collection Event Types
const (
	CollectionCreated  = "COLLECTION_CREATED"
	CollectionUpdated  = "COLLECTION_UPDATED"
	CollectionDeleted  = "COLLECTION_DELETED"
	CollectionShared   = "COLLECTION_SHARED"
	CollectionUnshared = "COLLECTION_UNSHARED"
)

// Tag Event Types
const (
	TagCreated = "TAG_CREATED"
	TagUpdated = "TAG_UPDATED"
	TagDeleted = "TAG_DELETED"
)

// Kafka Topics
const (
	LinkActivityTopic      = "link.activity"
	CollectionChangesTopic = "collection.changes"
)

// Resource Types
const (
	ResourceTypeLink       = "link"
	ResourceTypeCollection = "collection"
	ResourceTypeTag        = "tag"
)
