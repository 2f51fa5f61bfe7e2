package dto

import (
	"github.com/google/uuid"

	"github.com/fveracoechea/hyperlog-sub000/internal/models"
	"github.com/fveracoechea/hyperlog-sub000/internal/services"
)

type CreateLinkReq struct {
	URL          string     `json:"url" binding:"required,url"`
	Title        string     `json:"title" binding:"required"`
	Description  *string    `json:"description"`
	Notes        *string    `json:"notes"`
	CollectionID *uuid.UUID `json:"collectionId"`
	TagID        *uuid.UUID `json:"tagId"`
}

type UpdateLinkReq struct {
	URL          *string    `json:"url" binding:"omitempty,url"`
	Title        *string    `json:"title"`
	Description  *string    `json:"description"`
	Notes        *string    `json:"notes"`
	IsPinned     *bool      `json:"isPinned"`
	CollectionID *uuid.UUID `json:"collectionId"`
	TagID        *uuid.UUID `json:"tagId"`
}

type CreateCollectionReq struct {
	Name        string                  `json:"name" binding:"required"`
	Description *string                 `json:"description"`
	Color       *models.CollectionColor `json:"color"`
	ParentID    *uuid.UUID              `json:"parentId"`
}

// UpdateCollectionReq carries the scalar fields of the collection edit plus
// the full membership submission the sync engine reconciles against.
type UpdateCollectionReq struct {
	Name           string                         `json:"name" binding:"required"`
	Description    *string                        `json:"description"`
	Color          *models.CollectionColor        `json:"color"`
	Links          []uuid.UUID                    `json:"links"`
	SubCollections []services.SubmittedCollection `json:"subCollections"`
}

type CreateTagReq struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// UpdateTagReq carries the tag's scalar fields plus the links that should
// carry the tag after the edit.
type UpdateTagReq struct {
	Name        string      `json:"name" binding:"required"`
	Description string      `json:"description"`
	Links       []uuid.UUID `json:"links"`
}

type ShareCollectionReq struct {
	UserID uuid.UUID `json:"userId" binding:"required"`
}
