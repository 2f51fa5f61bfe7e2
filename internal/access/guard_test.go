package access

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/fveracoechea/hyperlog-sub000/internal/database"
	"github.com/fveracoechea/hyperlog-sub000/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

type fixture struct {
	db         *gorm.DB
	guard      *Guard
	owner      uuid.UUID
	stranger   uuid.UUID
	link       models.Link
	collection models.Collection
	tag        models.Tag
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db := newTestDB(t)
	f := fixture{
		db:       db,
		guard:    NewGuard(db),
		owner:    uuid.New(),
		stranger: uuid.New(),
	}
	f.collection = models.Collection{Name: "Articles", OwnerID: f.owner}
	require.NoError(t, db.Create(&f.collection).Error)
	f.link = models.Link{URL: "https://example.com", Title: "Example", OwnerID: f.owner, CollectionID: &f.collection.ID}
	require.NoError(t, db.Create(&f.link).Error)
	f.tag = models.Tag{Name: "reading", OwnerID: f.owner}
	require.NoError(t, db.Create(&f.tag).Error)
	return f
}

func TestGuardReturnsResourceToOwner(t *testing.T) {
	f := newFixture(t)

	link, err := f.guard.Link(f.link.ID, f.owner)
	require.NoError(t, err)
	assert.Equal(t, f.link.ID, link.ID)

	collection, err := f.guard.Collection(f.collection.ID, f.owner)
	require.NoError(t, err)
	assert.Equal(t, f.collection.ID, collection.ID)

	tag, err := f.guard.Tag(f.tag.ID, f.owner)
	require.NoError(t, err)
	assert.Equal(t, f.tag.ID, tag.ID)
}

func TestGuardForbidsStrangers(t *testing.T) {
	f := newFixture(t)

	_, err := f.guard.Link(f.link.ID, f.stranger)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.guard.Collection(f.collection.ID, f.stranger)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.guard.Tag(f.tag.ID, f.stranger)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestGuardNotFoundForMissingIDs(t *testing.T) {
	f := newFixture(t)
	missing := uuid.New()

	_, err := f.guard.Link(missing, f.owner)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.guard.Collection(missing, f.owner)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.guard.Tag(missing, f.owner)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGuardHonorsSharingGrant(t *testing.T) {
	f := newFixture(t)

	grant := models.UserToCollection{UserID: f.stranger, CollectionID: f.collection.ID}
	require.NoError(t, f.db.Create(&grant).Error)

	collection, err := f.guard.Collection(f.collection.ID, f.stranger)
	require.NoError(t, err)
	assert.Equal(t, f.collection.ID, collection.ID)

	// A grant on a collection does not leak to other resource types.
	_, err = f.guard.Link(f.link.ID, f.stranger)
	assert.ErrorIs(t, err, ErrForbidden)
}

// Two deletes of the same link: exactly one mutates a row, the second sees
// NotFound. Ownership lives in the statement's WHERE clause, so there is no
// check-then-act window.
func TestDeleteLinkExactlyOnce(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, DeleteLink(f.db, f.link.ID, f.owner))
	assert.ErrorIs(t, DeleteLink(f.db, f.link.ID, f.owner), ErrNotFound)
}

func TestDeleteLinkRejectsNonOwner(t *testing.T) {
	f := newFixture(t)

	assert.ErrorIs(t, DeleteLink(f.db, f.link.ID, f.stranger), ErrNotFound)

	// Still there.
	var count int64
	require.NoError(t, f.db.Model(&models.Link{}).Where("id = ?", f.link.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestDeleteCollectionCascades(t *testing.T) {
	f := newFixture(t)

	sub := models.Collection{Name: "Sub", OwnerID: f.owner, ParentID: &f.collection.ID}
	require.NoError(t, f.db.Create(&sub).Error)
	nested := models.Link{URL: "https://example.com/n", Title: "Nested", OwnerID: f.owner, CollectionID: &sub.ID}
	require.NoError(t, f.db.Create(&nested).Error)
	grant := models.UserToCollection{UserID: f.stranger, CollectionID: f.collection.ID}
	require.NoError(t, f.db.Create(&grant).Error)

	require.NoError(t, DeleteCollection(f.db, f.collection.ID, f.owner))

	var count int64
	require.NoError(t, f.db.Model(&models.Collection{}).Count(&count).Error)
	assert.Zero(t, count, "collection and sub-collection both deleted")

	require.NoError(t, f.db.Model(&models.UserToCollection{}).Count(&count).Error)
	assert.Zero(t, count, "grants deleted")

	// Links survive with collection_id cleared.
	var links []models.Link
	require.NoError(t, f.db.Find(&links).Error)
	require.Len(t, links, 2)
	for _, l := range links {
		assert.Nil(t, l.CollectionID)
	}
}

func TestDeleteCollectionNotFoundForStranger(t *testing.T) {
	f := newFixture(t)

	assert.ErrorIs(t, DeleteCollection(f.db, f.collection.ID, f.stranger), ErrNotFound)

	var count int64
	require.NoError(t, f.db.Model(&models.Collection{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestDeleteTagUnassignsLinks(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.db.Model(&models.Link{}).Where("id = ?", f.link.ID).Update("tag_id", f.tag.ID).Error)

	require.NoError(t, DeleteTag(f.db, f.tag.ID, f.owner))

	var link models.Link
	require.NoError(t, f.db.First(&link, "id = ?", f.link.ID).Error)
	assert.Nil(t, link.TagID)
}
