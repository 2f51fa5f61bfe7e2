package services

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fveracoechea/hyperlog-sub000/internal/models"
)

// ErrDuplicateName is returned when a rename or an inserted sub-collection
// violates the per-owner name uniqueness constraint. Route handlers surface
// it as a field-level validation error instead of a generic failure.
var ErrDuplicateName = errors.New("name already in use")

// SubmittedCollection is one sub-collection entry from the collection editor.
// Entries without an ID were created in the editor and get inserted; entries
// with an ID form the keep-set. Scalar fields of kept sub-collections are not
// updated here; each sub-collection has its own edit action for that.
type SubmittedCollection struct {
	ID          *uuid.UUID              `json:"id"`
	Name        string                  `json:"name" binding:"required"`
	Description *string                 `json:"description"`
	Color       *models.CollectionColor `json:"color"`
}

// SyncCollectionMembership reconciles a collection's assigned links and
// sub-collections against a client submission. It must run inside the same
// transaction as the parent collection's own field update so a failure rolls
// everything back together. Links are only ever unassigned, never deleted;
// removed sub-collections are hard-deleted with their links unassigned.
// Calling it twice with the same submission leaves the same end state.
func SyncCollectionMembership(tx *gorm.DB, collectionID, ownerID uuid.UUID, linkIDs []uuid.UUID, subs []SubmittedCollection) error {
	if err := syncLinks(tx, "collection_id", collectionID, ownerID, linkIDs); err != nil {
		return err
	}

	keep := make([]uuid.UUID, 0, len(subs))
	var inserts []models.Collection
	for _, sub := range subs {
		if sub.ID != nil {
			keep = append(keep, *sub.ID)
			continue
		}
		parentID := collectionID
		inserts = append(inserts, models.Collection{
			Name:        sub.Name,
			Description: sub.Description,
			Color:       sub.Color,
			ParentID:    &parentID,
			OwnerID:     ownerID,
		})
	}

	current := tx.Model(&models.Collection{}).
		Where("parent_id = ? AND owner_id = ?", collectionID, ownerID)
	if len(keep) > 0 {
		current = current.Where("id NOT IN ?", keep)
	}
	var removedIDs []uuid.UUID
	if err := current.Pluck("id", &removedIDs).Error; err != nil {
		return err
	}

	if len(removedIDs) > 0 {
		if err := tx.Model(&models.Link{}).
			Where("collection_id IN ?", removedIDs).
			Update("collection_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("id IN ?", removedIDs).Delete(&models.Collection{}).Error; err != nil {
			return err
		}
		if err := tx.Where("collection_id IN ?", removedIDs).
			Delete(&models.UserToCollection{}).Error; err != nil {
			return err
		}
	}

	if len(inserts) > 0 {
		if err := tx.Create(&inserts).Error; err != nil {
			return TranslateConstraint(err)
		}
	}
	return nil
}

// SyncTagLinks reconciles which of the owner's links carry the tag, using the
// same two-statement bulk update as collection membership.
func SyncTagLinks(tx *gorm.DB, tagID, ownerID uuid.UUID, linkIDs []uuid.UUID) error {
	return syncLinks(tx, "tag_id", tagID, ownerID, linkIDs)
}

// syncLinks clears the parent reference on every owned link not in the
// submitted set, then stamps it on every submitted link. Both statements run
// against the whole submitted set regardless of prior state, which keeps the
// operation idempotent. column is a compile-time constant, never user input.
func syncLinks(tx *gorm.DB, column string, parentID, ownerID uuid.UUID, linkIDs []uuid.UUID) error {
	unassign := tx.Model(&models.Link{}).
		Where(column+" = ? AND owner_id = ?", parentID, ownerID)
	if len(linkIDs) > 0 {
		unassign = unassign.Where("id NOT IN ?", linkIDs)
	}
	if err := unassign.Update(column, nil).Error; err != nil {
		return err
	}

	if len(linkIDs) == 0 {
		return nil
	}
	return tx.Model(&models.Link{}).
		Where("id IN ? AND owner_id = ?", linkIDs, ownerID).
		Update(column, parentID).Error
}

// TranslateConstraint maps the store's duplicate-key violation onto
// ErrDuplicateName; anything else propagates untouched and rolls the
// surrounding transaction back.
func TranslateConstraint(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateName
	}
	return err
}
