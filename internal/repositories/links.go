package repositories

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fveracoechea/hyperlog-sub000/internal/access"
	"github.com/fveracoechea/hyperlog-sub000/internal/models"
)

// LinkRepository defines the data access methods for links that go beyond a
// straight gorm call in a handler.
type LinkRepository interface {
	RecordVisit(id, ownerID uuid.UUID) error
	FindByURL(url string, ownerID uuid.UUID) (*models.Link, error)
}

type linkRepository struct {
	db *gorm.DB
}

func NewLinkRepository(db *gorm.DB) LinkRepository {
	return &linkRepository{db: db}
}

// RecordVisit bumps the view counter and visit timestamp in one conditional
// statement; ownership is part of the WHERE clause, zero rows affected maps
// to ErrNotFound.
func (r *linkRepository) RecordVisit(id, ownerID uuid.UUID) error {
	res := r.db.Model(&models.Link{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Updates(map[string]interface{}{
			"views":      gorm.Expr("views + 1"),
			"last_visit": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return access.ErrNotFound
	}
	return nil
}

// FindByURL returns the owner's link with the given URL, or
// gorm.ErrRecordNotFound.
func (r *linkRepository) FindByURL(url string, ownerID uuid.UUID) (*models.Link, error) {
	var link models.Link
	if err := r.db.Where("url = ? AND owner_id = ?", url, ownerID).First(&link).Error; err != nil {
		return nil, err
	}
	return &link, nil
}
