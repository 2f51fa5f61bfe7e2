package access

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fveracoechea/hyperlog-sub000/internal/models"
)

// Typed denials the route layer translates into 404/403 responses. The guard
// itself knows nothing about HTTP.
var (
	ErrNotFound  = errors.New("resource not found")
	ErrForbidden = errors.New("access denied")
)

// Guard performs ownership checks before mutations and returns the loaded
// resource so callers avoid a second fetch. Checks are read-only; they are
// not atomic with the mutation that follows, which is why deletes go through
// the conditional helpers below instead.
type Guard struct {
	db *gorm.DB
}

func NewGuard(db *gorm.DB) *Guard {
	return &Guard{db: db}
}

func (g *Guard) Link(id, userID uuid.UUID) (*models.Link, error) {
	var link models.Link
	if err := g.db.First(&link, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if link.OwnerID != userID {
		return nil, ErrForbidden
	}
	return &link, nil
}

// Collection allows the owner and any user holding a UserToCollection grant.
func (g *Guard) Collection(id, userID uuid.UUID) (*models.Collection, error) {
	var collection models.Collection
	if err := g.db.First(&collection, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if collection.OwnerID == userID {
		return &collection, nil
	}
	var grant models.UserToCollection
	err := g.db.Where("collection_id = ? AND user_id = ?", id, userID).First(&grant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrForbidden
		}
		return nil, err
	}
	return &collection, nil
}

func (g *Guard) Tag(id, userID uuid.UUID) (*models.Tag, error) {
	var tag models.Tag
	if err := g.db.First(&tag, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if tag.OwnerID != userID {
		return nil, ErrForbidden
	}
	return &tag, nil
}

// DeleteLink removes a link with the ownership predicate folded into the
// statement. Zero rows affected means the link is gone or not ours; either
// way the caller sees ErrNotFound.
func DeleteLink(db *gorm.DB, id, ownerID uuid.UUID) error {
	res := db.Where("id = ? AND owner_id = ?", id, ownerID).Delete(&models.Link{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteTag deletes a tag and unassigns its links. Links are never deleted.
func DeleteTag(db *gorm.DB, id, ownerID uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND owner_id = ?", id, ownerID).Delete(&models.Tag{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Model(&models.Link{}).
			Where("tag_id = ?", id).
			Update("tag_id", nil).Error
	})
}

// DeleteCollection deletes a collection and cascades: links referencing it or
// one of its sub-collections are set to unassigned, sub-collections and
// sharing grants are removed.
func DeleteCollection(db *gorm.DB, id, ownerID uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND owner_id = ?", id, ownerID).Delete(&models.Collection{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		var childIDs []uuid.UUID
		if err := tx.Model(&models.Collection{}).
			Where("parent_id = ?", id).
			Pluck("id", &childIDs).Error; err != nil {
			return err
		}

		affected := append([]uuid.UUID{id}, childIDs...)
		if err := tx.Model(&models.Link{}).
			Where("collection_id IN ?", affected).
			Update("collection_id", nil).Error; err != nil {
			return err
		}
		if len(childIDs) > 0 {
			if err := tx.Where("id IN ?", childIDs).Delete(&models.Collection{}).Error; err != nil {
				return err
			}
		}
		return tx.Where("collection_id IN ?", affected).
			Delete(&models.UserToCollection{}).Error
	})
}
