package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Link struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	URL          string     `gorm:"size:2048;not null" json:"url"`
	Title        string     `gorm:"size:255;not null" json:"title"`
	Description  *string    `gorm:"type:text" json:"description,omitempty"`
	Favicon      *string    `gorm:"size:2048" json:"favicon,omitempty"`
	PreviewImage *string    `gorm:"size:2048" json:"previewImage,omitempty"`
	Notes        *string    `gorm:"type:text" json:"notes,omitempty"`
	Views        int        `gorm:"not null;default:1" json:"views"`
	LastVisit    time.Time  `json:"lastVisit"`
	IsPinned     bool       `gorm:"not null;default:false" json:"isPinned"`
	OwnerID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"ownerId"`
	CollectionID *uuid.UUID `gorm:"type:uuid;index" json:"collectionId"`
	TagID        *uuid.UUID `gorm:"type:uuid;index" json:"tagId"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func (l *Link) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.LastVisit.IsZero() {
		l.LastVisit = time.Now()
	}
	if l.Views == 0 {
		l.Views = 1
	}
	return
}
