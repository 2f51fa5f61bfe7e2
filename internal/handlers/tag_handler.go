package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fveracoechea/hyperlog-sub000/internal/access"
	"github.com/fveracoechea/hyperlog-sub000/internal/dto"
	"github.com/fveracoechea/hyperlog-sub000/internal/events"
	"github.com/fveracoechea/hyperlog-sub000/internal/kafka"
	"github.com/fveracoechea/hyperlog-sub000/internal/models"
	"github.com/fveracoechea/hyperlog-sub000/internal/query"
	"github.com/fveracoechea/hyperlog-sub000/internal/services"
	"github.com/fveracoechea/hyperlog-sub000/pkg/logger"
	"github.com/fveracoechea/hyperlog-sub000/pkg/responses"
)

type TagHandler struct {
	db            *gorm.DB
	guard         *access.Guard
	kafkaProducer *kafka.Producer
}

func NewTagHandler(db *gorm.DB, kafkaProducer *kafka.Producer) *TagHandler {
	return &TagHandler{
		db:            db,
		guard:         access.NewGuard(db),
		kafkaProducer: kafkaProducer,
	}
}

// CreateTag creates a new tag for the authenticated user.
func (h *TagHandler) CreateTag(c *gin.Context) {
	currentUser, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.CreateTagReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.NewErrorResponse("Invalid request format", err.Error()))
		return
	}

	tag := models.Tag{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     currentUser,
	}

	if err := h.db.Create(&tag).Error; err != nil {
		if err = services.TranslateConstraint(err); errors.Is(err, services.ErrDuplicateName) {
			c.JSON(http.StatusBadRequest, responses.NewErrorResponse("Validation failed", "name: a tag with this name already exists"))
			return
		}
		logger.Log.Error().Err(err).Msg("Failed to create tag")
		c.JSON(http.StatusInternalServerError, responses.NewErrorResponse("Failed to create tag", ""))
		return
	}

	if h.kafkaProducer != nil {
		event := events.NewResourceEvent(events.TagCreated, events.ResourceTypeTag, tag.ID, tag.OwnerID, currentUser)
		if err := h.kafkaProducer.PublishCollectionEvent(context.Background(), event); err != nil {
			logger.Log.Error().Err(err).Msg("Failed to publish tag created event")
		}
	}

	c.JSON(http.StatusCreated, responses.NewSuccessResponse("Tag created successfully", tag))
}

// GetTag retrieves a tag and the links carrying it.
func (h *TagHandler) GetTag(c *gin.Context) {
	currentUser, ok := currentUserID(c)
	if !ok {
		return
	}
	tagID, ok := parseIDParam(c, "tagId")
	if !ok {
		return
	}

	tag, err := h.guard.Tag(tagID, currentUser)
	if err != nil {
		respondAccessError(c, "tag", err)
		return
	}

	var links []models.Link
	if err := h.db.Where("tag_id = ?", tagID).Find(&links).Error; err != nil {
		logger.Log.Error().Err(err).Msg("Error fetching links for tag")
	}

	c.JSON(http.StatusOK, responses.NewSuccessResponse("Tag retrieved successfully", gin.H{
		"tag":   tag,
		"links": links,
	}))
}

// ListTags returns the user's tags, paginated, searchable and sortable.
func (h *TagHandler) ListTags(c *gin.Context) {
	currentUser, ok := currentUserID(c)
	if !ok {
		return
	}

	q := query.Build(query.Tags, c.Request.URL.Query())

	base := q.Filter(h.db.Model(&models.Tag{}).Where("owner_id = ?", currentUser))

	var total int64
	if err := base.Count(&total).Error; err != nil {
		logger.Log.Error().Err(err).Msg("Failed to count tags")
		c.JSON(http.StatusInternalServerError, responses.NewErrorResponse("Failed to retrieve tags", ""))
		return
	}

	var tags []models.Tag
	if err := q.Sort(q.Paginate(base)).Find(&tags).Error; err != nil {
		logger.Log.Error().Err(err).Msg("Failed to list tags")
		c.JSON(http.StatusInternalServerError, responses.NewErrorResponse("Failed to retrieve tags", ""))
		return
	}

	c.JSON(http.StatusOK, responses.NewSuccessResponse("Tags retrieved successfully", gin.H{
		"tags":       tags,
		"total":      total,
		"page":       q.Page,
		"pageSize":   q.PageSize,
		"totalPages": q.TotalPages(total),
	}))
}

// UpdateTag renames the tag and reconciles which links carry it, in one
// transaction.
func (h *TagHandler) UpdateTag(c *gin.Context) {
	currentUser, ok := currentUserID(c)
	if !ok {
		return
	}
	tagID, ok := parseIDParam(c, "tagId")
	if !ok {
		return
	}

	var req dto.UpdateTagReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.NewErrorResponse("Invalid request format", err.Error()))
		return
	}

	tag, err := h.guard.Tag(tagID, currentUser)
	if err != nil {
		respondAccessError(c, "tag", err)
		return
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		tag.Name = req.Name
		tag.Description = req.Description
		if err := tx.Save(tag).Error; err != nil {
			return services.TranslateConstraint(err)
		}
		return services.SyncTagLinks(tx, tagID, tag.OwnerID, req.Links)
	})
	if err != nil {
		if errors.Is(err, services.ErrDuplicateName) {
			c.JSON(http.StatusBadRequest, responses.NewErrorResponse("Validation failed", "name: a tag with this name already exists"))
			return
		}
		logger.Log.Error().Err(err).Msg("Failed to update tag")
		c.JSON(http.StatusInternalServerError, responses.NewErrorResponse("Failed to update tag", ""))
		return
	}

	if h.kafkaProducer != nil {
		event := events.NewResourceEvent(events.TagUpdated, events.ResourceTypeTag, tag.ID, tag.OwnerID, currentUser)
		if err := h.kafkaProducer.PublishCollectionEvent(context.Background(), event); err != nil {
			logger.Log.Error().Err(err).Msg("Failed to publish tag updated event")
		}
	}

	c.JSON(http.StatusOK, responses.NewSuccessResponse("Tag updated successfully", tag))
}

// DeleteTag removes a tag; links carrying it are unassigned, never deleted.
func (h *TagHandler) DeleteTag(c *gin.Context) {
	currentUser, ok := currentUserID(c)
	if !ok {
		return
	}
	tagID, ok := parseIDParam(c, "tagId")
	if !ok {
		return
	}

	if err := access.DeleteTag(h.db, tagID, currentUser); err != nil {
		respondAccessError(c, "tag", err)
		return
	}

	if h.kafkaProducer != nil {
		event := events.NewResourceEvent(events.TagDeleted, events.ResourceTypeTag, tagID, currentUser, currentUser)
		if err := h.kafkaProducer.PublishCollectionEvent(context.Background(), event); err != nil {
			logger.Log.Error().Err(err).Msg("Failed to publish tag deleted event")
		}
	}

	c.JSON(http.StatusOK, responses.NewSuccessResponse("Tag deleted successfully", nil))
}
