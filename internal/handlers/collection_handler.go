package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fveracoechea/hyperlog-sub000/internal/access"
	"github.com/fveracoechea/hyperlog-sub000/internal/dto"
	"github.com/fveracoechea/hyperlog-sub000/internal/events"
	"github.com/fveracoechea/hyperlog-sub000/internal/kafka"
	"github.com/fveracoechea/hyperlog-sub000/internal/models"
	"github.com/fveracoechea/hyperlog-sub000/internal/query"
	"github.com/fveracoechea/hyperlog-sub000/internal/redis"
	"github.com/fveracoechea/hyperlog-sub000/internal/services"
	"github.com/fveracoechea/hyperlog-sub000/pkg/logger"
	"github.com/fveracoechea/hyperlog-sub000/pkg/responses"
)

type CollectionHandler struct {
	db            *gorm.DB
	guard         *access.Guard
	kafkaProducer *kafka.Producer
	redisService  *redis.Service
}

func NewCollectionHandler(db *gorm.DB, kafkaProducer *kafka.Producer, redisService *redis.Service) *CollectionHandler {
	return &CollectionHandler{
		db:            db,
		guard:         access.NewGuard(db),
		kafkaProducer: kafkaProducer,
		redisService:  redisService,
	}
}

// CreateCollection creates a new collection, optionally nested one level
// under an existing top-level collection.
func (h *CollectionHandler) CreateCollection(c *gin.Context) {
	currentUser, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.CreateCollectionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.NewErrorResponse("Invalid request format", err.Error()))
		return
	}
	if req.Color != nil && !req.Color.Valid() {
		c.JSON(http.StatusBadRequest, responses.NewErrorResponse("Invalid color", "color must be one of the palette values"))
		return
	}

	if req.ParentID != nil {
		parent, err := h.guard.Collection(*req.ParentID, currentUser)
		if err != nil {
			respondAccessError(c, "collection", err)
			return
		}
		// Nesting is one level deep: a sub-collection cannot be a parent.
		if parent.ParentID != nil {
			c.JSON(http.StatusBadRequest, responses.NewErrorResponse("Sub-collections cannot contain collections", ""))
			return
		}
	}

	collection := models.Collection{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		ParentID:    req.ParentID,
		OwnerID:     currentUser,
	}

	if err := h.db.Create(&collection).Error; err != nil {
		if err = services.TranslateConstraint(err); errors.Is(err, services.ErrDuplicateName) {
			c.JSON(http.StatusBadRequest, responses.NewErrorResponse("Validation failed", "name: a collection with this name already exists"))
			return
		}
		logger.Log.Error().Err(err).Msg("Failed to create collection")
		c.JSON(http.StatusInternalServerError, responses.NewErrorResponse("Failed to create collection", ""))
		return
	}

	if h.kafkaProducer != nil {
		event := events.NewResourceEvent(events.CollectionCreated, events.ResourceTypeCollection, collection.ID, collection.OwnerID, currentUser)
		if err := h.kafkaProducer.PublishCollectionEvent(context.Background(), event); err != nil {
			logger.Log.Error().Err(err).Msg("Failed to publish collection created event")
		}
	}
	if h.redisService != nil {
		if err := h.redisService.SetCollectionMetadata(context.Background(), &collection); err != nil {
			logger.Log.Error().Err(err).Msg("Failed to cache collection metadata")
		}
	}

	c.JSON(http.StatusCreated, responses.NewSuccessResponse("Collection created successfully", collection))
}

// GetCollection retrieves a collection with its sub-collections, assigned
// links and sharing grants. Metadata is served from cache when available.
func (h *CollectionHandler) GetCollection(c *gin.Context) {
	currentUser, ok := currentUserID(c)
	if !ok {
		return
	}
	collectionID, ok := parseIDParam(c, "collectionId")
	if !ok {
		return
	}

	var collection *models.Collection
	if h.redisService != nil {
		cached, err := h.redisService.GetCollectionMetadata(context.Background(), collectionID)
		if err != nil {
			logger.Log.Error().Err(err).Msg("Cache error when getting collection metadata")
		}
		if cached != nil && cached.OwnerID == currentUser {
			collection = cached
		}
	}

	if collection == nil {
		loaded, err := h.guard.Collection(collectionID, currentUser)
		if err != nil {
			respondAccessError(c, "collection", err)
			return
		}
		collection = loaded
		if h.redisService != nil {
			if err := h.redisService.SetCollectionMetadata(context.Background(), collection); err != nil {
				logger.Log.Error().Err(err).Msg("Failed to cache collection metadata")
			}
		}
	}

	var subCollections []models.Collection
	if err := h.db.Where("parent_id = ?", collectionID).Order("sort_order, created_at").Find(&subCollections).Error; err != nil {
		logger.Log.Error().Err(err).Msg("Error fetching sub-collections")
	}

	var links []models.Link
	if err := h.db.Where("collection_id = ?", collectionID).Find(&links).Error; err != nil {
		logger.Log.Error().Err(err).Msg("Error fetching links for collection")
	}

	var shares []models.UserToCollection
	if err := h.db.Where("collection_id = ?", collectionID).Find(&shares).Error; err != nil {
		logger.Log.Error().Err(err).Msg("Error fetching sharing info for collection")
	}

	c.JSON(http.StatusOK, responses.NewSuccessResponse("Collection retrieved successfully", gin.H{
		"collection":     collection,
		"subCollections": subCollections,
		"links":          links,
		"shared":         len(shares) > 0,
		"shares":         shares,
	}))
}

// ListCollections returns the user's collections, paginated, searchable and
// sortable. parentId narrows the list to one collection's children;
// topLevel=true narrows it to top-level collections; exclude supports
// "pick from remaining" editor flows.
func (h *CollectionHandler) ListCollections(c *gin.Context) {
	currentUser, ok := currentUserID(c)
	if !ok {
		return
	}

	q := query.Build(query.Collections, c.Request.URL.Query())

	base := h.db.Model(&models.Collection{}).Where("owner_id = ?", currentUser)
	if raw := c.Query("parentId"); raw != "" {
		if parentID, err := uuid.Parse(raw); err == nil {
			base = base.Where("parent_id = ?", parentID)
		}
	} else if c.Query("topLevel") == "true" {
		base = base.Where("parent_id IS NULL")
	}
	base = q.Filter(base)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		logger.Log.Error().Err(err).Msg("Failed to count collections")
		c.JSON(http.StatusInternalServerError, responses.NewErrorResponse("Failed to retrieve collections", ""))
		return
	}

	var collections []models.Collection
	if err := q.Sort(q.Paginate(base)).Find(&collections).Error; err != nil {
		logger.Log.Error().Err(err).Msg("Failed to list collections")
		c.JSON(http.StatusInternalServerError, responses.NewErrorResponse("Failed to retrieve collections", ""))
		return
	}

	c.JSON(http.StatusOK, responses.NewSuccessResponse("Collections retrieved successfully", gin.H{
		"collections": collections,
		"total":       total,
		"page":        q.Page,
		"pageSize":    q.PageSize,
		"totalPages":  q.TotalPages(total),
	}))
}

// UpdateCollection updates the collection's own fields and reconciles its
// membership (assigned links and sub-collections) in one transaction. A
// failure in any step rolls the whole edit back.
func (h *CollectionHandler) UpdateCollection(c *gin.Context) {
	currentUser, ok := currentUserID(c)
	if !ok {
		return
	}
	collectionID, ok := parseIDParam(c, "collectionId")
	if !ok {
		return
	}

	var req dto.UpdateCollectionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.NewErrorResponse("Invalid request format", err.Error()))
		return
	}
	if req.Color != nil && !req.Color.Valid() {
		c.JSON(http.StatusBadRequest, responses.NewErrorResponse("Invalid color", "color must be one of the palette values"))
		return
	}

	collection, err := h.guard.Collection(collectionID, currentUser)
	if err != nil {
		respondAccessError(c, "collection", err)
		return
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		collection.Name = req.Name
		collection.Description = req.Description
		collection.Color = req.Color
		if err := tx.Save(collection).Error; err != nil {
			return services.TranslateConstraint(err)
		}
		return services.SyncCollectionMembership(tx, collectionID, collection.OwnerID, req.Links, req.SubCollections)
	})
	if err != nil {
		if errors.Is(err, services.ErrDuplicateName) {
			c.JSON(http.StatusBadRequest, responses.NewErrorResponse("Validation failed", "name: a collection with this name already exists"))
			return
		}
		logger.Log.Error().Err(err).Msg("Failed to update collection")
		c.JSON(http.StatusInternalServerError, responses.NewErrorResponse("Failed to update collection", ""))
		return
	}

	if h.kafkaProducer != nil {
		event := events.NewResourceEvent(events.CollectionUpdated, events.ResourceTypeCollection, collection.ID, collection.OwnerID, currentUser)
		if err := h.kafkaProducer.PublishCollectionEvent(context.Background(), event); err != nil {
			logger.Log.Error().Err(err).Msg("Failed to publish collection updated event")
		}
	}
	if h.redisService != nil {
		if err := h.redisService.SetCollectionMetadata(context.Background(), collection); err != nil {
			logger.Log.Error().Err(err).Msg("Failed to update collection cache")
		}
	}

	c.JSON(http.StatusOK, responses.NewSuccessResponse("Collection updated successfully", collection))
}

// DeleteCollection removes a collection. Links are unassigned, never
// deleted; sub-collections and sharing grants go with it.
func (h *CollectionHandler) DeleteCollection(c *gin.Context) {
	currentUser, ok := currentUserID(c)
	if !ok {
		return
	}
	collectionID, ok := parseIDParam(c, "collectionId")
	if !ok {
		return
	}

	if err := access.DeleteCollection(h.db, collectionID, currentUser); err != nil {
		respondAccessError(c, "collection", err)
		return
	}

	if h.kafkaProducer != nil {
		event := events.NewResourceEvent(events.CollectionDeleted, events.ResourceTypeCollection, collectionID, currentUser, currentUser)
		if err := h.kafkaProducer.PublishCollectionEvent(context.Background(), event); err != nil {
			logger.Log.Error().Err(err).Msg("Failed to publish collection deleted event")
		}
	}
	if h.redisService != nil {
		if err := h.redisService.InvalidateCollection(context.Background(), collectionID); err != nil {
			logger.Log.Error().Err(err).Msg("Failed to invalidate collection cache")
		}
	}

	c.JSON(http.StatusOK, responses.NewSuccessResponse("Collection deleted successfully", nil))
}

// ShareCollection grants another user visibility on a collection. Only the
// owner can share.
func (h *CollectionHandler) ShareCollection(c *gin.Context) {
	currentUser, ok := currentUserID(c)
	if !ok {
		return
	}
	collectionID, ok := parseIDParam(c, "collectionId")
	if !ok {
		return
	}

	var req dto.ShareCollectionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.NewErrorResponse("Invalid request format", err.Error()))
		return
	}

	collection, err := h.guard.Collection(collectionID, currentUser)
	if err != nil {
		respondAccessError(c, "collection", err)
		return
	}
	if collection.OwnerID != currentUser {
		c.JSON(http.StatusForbidden, responses.NewErrorResponse("Only the owner can share this collection", ""))
		return
	}

	grant := models.UserToCollection{
		UserID:       req.UserID,
		CollectionID: collectionID,
	}
	err = h.db.Where("user_id = ? AND collection_id = ?", req.UserID, collectionID).
		FirstOrCreate(&grant).Error
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to share collection")
		c.JSON(http.StatusInternalServerError, responses.NewErrorResponse("Failed to share collection", ""))
		return
	}

	if h.kafkaProducer != nil {
		event := events.NewSharingEvent(events.CollectionShared, collectionID, collection.OwnerID, currentUser, req.UserID)
		if err := h.kafkaProducer.PublishCollectionEvent(context.Background(), event); err != nil {
			logger.Log.Error().Err(err).Msg("Failed to publish collection shared event")
		}
	}
	if h.redisService != nil {
		if err := h.redisService.AddCollectionAccess(context.Background(), collectionID, req.UserID); err != nil {
			logger.Log.Error().Err(err).Msg("Failed to update access control cache")
		}
	}

	c.JSON(http.StatusCreated, responses.NewSuccessResponse("Collection shared successfully", grant))
}

// RevokeSharing removes a user's grant on a collection.
func (h *CollectionHandler) RevokeSharing(c *gin.Context) {
	currentUser, ok := currentUserID(c)
	if !ok {
		return
	}
	collectionID, ok := parseIDParam(c, "collectionId")
	if !ok {
		return
	}
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	collection, err := h.guard.Collection(collectionID, currentUser)
	if err != nil {
		respondAccessError(c, "collection", err)
		return
	}
	if collection.OwnerID != currentUser {
		c.JSON(http.StatusForbidden, responses.NewErrorResponse("Only the owner can revoke sharing", ""))
		return
	}

	res := h.db.Where("collection_id = ? AND user_id = ?", collectionID, userID).
		Delete(&models.UserToCollection{})
	if res.Error != nil {
		logger.Log.Error().Err(res.Error).Msg("Failed to revoke sharing")
		c.JSON(http.StatusInternalServerError, responses.NewErrorResponse("Failed to revoke sharing", ""))
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, responses.NewErrorResponse("Sharing not found", ""))
		return
	}

	if h.kafkaProducer != nil {
		event := events.NewSharingEvent(events.CollectionUnshared, collectionID, collection.OwnerID, currentUser, userID)
		if err := h.kafkaProducer.PublishCollectionEvent(context.Background(), event); err != nil {
			logger.Log.Error().Err(err).Msg("Failed to publish collection unshared event")
		}
	}
	if h.redisService != nil {
		if err := h.redisService.RemoveCollectionAccess(context.Background(), collectionID, userID); err != nil {
			logger.Log.Error().Err(err).Msg("Failed to update access control cache")
		}
	}

	c.JSON(http.StatusOK, responses.NewSuccessResponse("Collection sharing revoked successfully", nil))
}
