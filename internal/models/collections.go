package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Collection groups links. ParentID nests collections exactly one level deep:
// null ParentID means top-level, non-null means sub-collection.
type Collection struct {
	ID          uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	Name        string           `gorm:"size:150;not null;uniqueIndex:idx_collections_name_owner_parent" json:"name"`
	Description *string          `gorm:"type:text" json:"description,omitempty"`
	Color       *CollectionColor `gorm:"size:20" json:"color,omitempty"`
	Order       int              `gorm:"column:sort_order;not null;default:0" json:"order"`
	ParentID    *uuid.UUID       `gorm:"type:uuid;index;uniqueIndex:idx_collections_name_owner_parent" json:"parentId"`
	OwnerID     uuid.UUID        `gorm:"type:uuid;not null;index;uniqueIndex:idx_collections_name_owner_parent" json:"ownerId"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

func (c *Collection) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}

// UserToCollection grants a user visibility on a collection they do not own.
type UserToCollection struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_collection" json:"userId"`
	CollectionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_collection" json:"collectionId"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	Collection Collection `gorm:"foreignKey:CollectionID" json:"-"`
}

func (u *UserToCollection) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return
}
