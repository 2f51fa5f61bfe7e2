package services

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

func createCollection(t *testing.T, db *gorm.DB, owner uuid.UUID, name string, parent *uuid.UUID) models.Collection {
	t.Helper()
	c := models.Collection{Name: name, OwnerID: owner, ParentID: parent}
	require.NoError(t, db.Create(&c).Error)
	return c
}

func createLink(t *testing.T, db *gorm.DB, owner uuid.UUID, title string, collection *uuid.UUID) models.Link {
	t.Helper()
	l := models.Link{URL: "https://example.com/" + title, Title: title, OwnerID: owner, CollectionID: collection}
	require.NoError(t, db.Create(&l).Error)
	return l
}

func reload(t *testing.T, db *gorm.DB, id uuid.UUID) models.Link {
	t.Helper()
	var l models.Link
	require.NoError(t, db.First(&l, "id = ?", id).Error)
	return l
}

// The full membership edit scenario: C1 has sub-collections S1, S2 and links
// L1, L2 assigned; L3 is unassigned. The submission keeps S1 and assigns
// L1, L3.
func TestSyncCollectionMembership(t *testing.T) {
	db := newTestDB(t)
	owner := uuid.New()

	c1 := createCollection(t, db, owner, "C1", nil)
	s1 := createCollection(t, db, owner, "S1", &c1.ID)
	s2 := createCollection(t, db, owner, "S2", &c1.ID)
	l1 := createLink(t, db, owner, "L1", &c1.ID)
	l2 := createLink(t, db, owner, "L2", &c1.ID)
	l3 := createLink(t, db, owner, "L3", nil)

	err := db.Transaction(func(tx *gorm.DB) error {
		return SyncCollectionMembership(tx, c1.ID, owner,
			[]uuid.UUID{l1.ID, l3.ID},
			[]SubmittedCollection{{ID: &s1.ID, Name: "S1"}})
	})
	require.NoError(t, err)

	// S2 is deleted, S1 survives.
	var count int64
	require.NoError(t, db.Model(&models.Collection{}).Where("id = ?", s2.ID).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&models.Collection{}).Where("id = ?", s1.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// L1 stays assigned, L2 is unassigned but still exists, L3 is assigned.
	assert.Equal(t, &c1.ID, reload(t, db, l1.ID).CollectionID)
	assert.Nil(t, reload(t, db, l2.ID).CollectionID)
	assert.Equal(t, &c1.ID, reload(t, db, l3.ID).CollectionID)
}

func TestSyncCollectionMembershipIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	owner := uuid.New()

	c1 := createCollection(t, db, owner, "C1", nil)
	s1 := createCollection(t, db, owner, "S1", &c1.ID)
	l1 := createLink(t, db, owner, "L1", &c1.ID)
	l2 := createLink(t, db, owner, "L2", &c1.ID)

	sync := func() error {
		return db.Transaction(func(tx *gorm.DB) error {
			return SyncCollectionMembership(tx, c1.ID, owner,
				[]uuid.UUID{l1.ID},
				[]SubmittedCollection{{ID: &s1.ID, Name: "S1"}})
		})
	}
	require.NoError(t, sync())
	require.NoError(t, sync())

	assert.Equal(t, &c1.ID, reload(t, db, l1.ID).CollectionID)
	assert.Nil(t, reload(t, db, l2.ID).CollectionID)

	var subs []models.Collection
	require.NoError(t, db.Where("parent_id = ?", c1.ID).Find(&subs).Error)
	require.Len(t, subs, 1)
	assert.Equal(t, s1.ID, subs[0].ID)
}

func TestSyncNeverDeletesLinks(t *testing.T) {
	db := newTestDB(t)
	owner := uuid.New()

	c1 := createCollection(t, db, owner, "C1", nil)
	l1 := createLink(t, db, owner, "L1", &c1.ID)
	l2 := createLink(t, db, owner, "L2", &c1.ID)

	err := db.Transaction(func(tx *gorm.DB) error {
		return SyncCollectionMembership(tx, c1.ID, owner, nil, nil)
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Link{}).Where("id IN ?", []uuid.UUID{l1.ID, l2.ID}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
	assert.Nil(t, reload(t, db, l1.ID).CollectionID)
	assert.Nil(t, reload(t, db, l2.ID).CollectionID)
}

func TestSyncRemovedSubCollectionCascadesToLinks(t *testing.T) {
	db := newTestDB(t)
	owner := uuid.New()

	c1 := createCollection(t, db, owner, "C1", nil)
	s1 := createCollection(t, db, owner, "S1", &c1.ID)
	nested := createLink(t, db, owner, "nested", &s1.ID)

	err := db.Transaction(func(tx *gorm.DB) error {
		return SyncCollectionMembership(tx, c1.ID, owner, nil, nil)
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Collection{}).Where("id = ?", s1.ID).Count(&count).Error)
	assert.Zero(t, count)

	// The link that lived in the deleted sub-collection survives unassigned.
	assert.Nil(t, reload(t, db, nested.ID).CollectionID)
}

func TestSyncInsertsNewSubCollections(t *testing.T) {
	db := newTestDB(t)
	owner := uuid.New()

	c1 := createCollection(t, db, owner, "C1", nil)
	color := models.ColorTeal

	err := db.Transaction(func(tx *gorm.DB) error {
		return SyncCollectionMembership(tx, c1.ID, owner, nil,
			[]SubmittedCollection{{Name: "Fresh", Color: &color}})
	})
	require.NoError(t, err)

	var sub models.Collection
	require.NoError(t, db.Where("parent_id = ? AND name = ?", c1.ID, "Fresh").First(&sub).Error)
	assert.Equal(t, owner, sub.OwnerID)
	require.NotNil(t, sub.Color)
	assert.Equal(t, models.ColorTeal, *sub.Color)
}

func TestSyncDuplicateSubCollectionNameIsFieldError(t *testing.T) {
	db := newTestDB(t)
	owner := uuid.New()

	c1 := createCollection(t, db, owner, "C1", nil)
	s1 := createCollection(t, db, owner, "S1", &c1.ID)

	err := db.Transaction(func(tx *gorm.DB) error {
		return SyncCollectionMembership(tx, c1.ID, owner, nil,
			[]SubmittedCollection{{ID: &s1.ID, Name: "S1"}, {Name: "S1"}})
	})
	assert.ErrorIs(t, err, ErrDuplicateName)

	// Rolled back: still exactly one sub-collection.
	var count int64
	require.NoError(t, db.Model(&models.Collection{}).Where("parent_id = ?", c1.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestSyncIgnoresForeignLinks(t *testing.T) {
	db := newTestDB(t)
	owner := uuid.New()
	other := uuid.New()

	c1 := createCollection(t, db, owner, "C1", nil)
	foreign := createLink(t, db, other, "foreign", nil)

	err := db.Transaction(func(tx *gorm.DB) error {
		return SyncCollectionMembership(tx, c1.ID, owner, []uuid.UUID{foreign.ID}, nil)
	})
	require.NoError(t, err)

	assert.Nil(t, reload(t, db, foreign.ID).CollectionID)
}

func TestSyncTagLinks(t *testing.T) {
	db := newTestDB(t)
	owner := uuid.New()

	tag := models.Tag{Name: "reading", OwnerID: owner}
	require.NoError(t, db.Create(&tag).Error)

	l1 := createLink(t, db, owner, "L1", nil)
	l2 := createLink(t, db, owner, "L2", nil)
	require.NoError(t, db.Model(&models.Link{}).Where("id = ?", l1.ID).Update("tag_id", tag.ID).Error)

	err := db.Transaction(func(tx *gorm.DB) error {
		return SyncTagLinks(tx, tag.ID, owner, []uuid.UUID{l2.ID})
	})
	require.NoError(t, err)

	assert.Nil(t, reload(t, db, l1.ID).TagID)
	require.NotNil(t, reload(t, db, l2.ID).TagID)
	assert.Equal(t, tag.ID, *reload(t, db, l2.ID).TagID)
}
