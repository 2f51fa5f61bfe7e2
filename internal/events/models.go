package events

import (
	"time"

	"github.com/google/uuid"
)

// ResourceEvent describes a mutation of a link, collection or tag.
type ResourceEvent struct {
	EventType    string    `json:"eventType"`
	ResourceType string    `json:"resourceType"`
	ResourceID   string    `json:"resourceId"`
	OwnerID      string    `json:"ownerId"`
	ActionBy     string    `json:"actionBy"`
	Timestamp    time.Time `json:"timestamp"`
	// Set on sharing events only.
	SharedWithUserID *string `json:"sharedWithUserId,omitempty"`
}

// NewResourceEvent creates a new resource event.
func NewResourceEvent(eventType, resourceType string, resourceID, ownerID, actionBy uuid.UUID) *ResourceEvent {
	return &ResourceEvent{
		EventType:    eventType,
		ResourceType: resourceType,
		ResourceID:   resourceID.String(),
		OwnerID:      ownerID.String(),
		ActionBy:     actionBy.String(),
		Timestamp:    time.Now(),
	}
}

// NewSharingEvent creates a sharing event carrying the grantee.
func NewSharingEvent(eventType string, collectionID, ownerID, actionBy, sharedWith uuid.UUID) *ResourceEvent {
	event := NewResourceEvent(eventType, ResourceTypeCollection, collectionID, ownerID, actionBy)
	sharedWithStr := sharedWith.String()
	event.SharedWithUserID = &sharedWithStr
	return event
}
