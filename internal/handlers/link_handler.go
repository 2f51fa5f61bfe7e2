package handlers

import (
	"context"
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
	"github.com/fveracoechea/hyperlog-sub000/internal/repositories"
	"github.com/fveracoechea/hyperlog-sub000/pkg/logger"
	"github.com/fveracoechea/hyperlog-sub000/pkg/responses"
)

type LinkHandler struct {
	db            *gorm.DB
	guard         *access.Guard
	repo          repositories.LinkRepository
	kafkaProducer *kafka.Producer
}

func NewLinkHandler(db *gorm.DB, kafkaProducer *kafka.Producer) *LinkHandler {
	return &LinkHandler{
		db:            db,
		guard:         access.NewGuard(db),
		repo:          repositories.NewLinkRepository(db),
		kafkaProducer: kafkaProducer,
	}
}

// CreateLink creates a new link for the authenticated user.
func (h *LinkHandler) CreateLink(c *gin.Context) {
	currentUser, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.CreateLinkReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.NewErrorResponse("Invalid request format", err.Error()))
		return
	}

	// A link may only be filed into a collection or tag the user can see.
	if req.CollectionID != nil {
		if _, err := h.guard.Collection(*req.CollectionID, currentUser); err != nil {
			respondAccessError(c, "collection", err)
			return
		}
	}
	if req.TagID != nil {
		if _, err := h.guard.Tag(*req.TagID, currentUser); err != nil {
			respondAccessError(c, "tag", err)
			return
		}
	}

	link := models.Link{
		URL:          req.URL,
		Title:        req.Title,
		Description:  req.Description,
		Notes:        req.Notes,
		OwnerID:      currentUser,
		CollectionID: req.CollectionID,
		TagID:        req.TagID,
	}

	if err := h.db.Create(&link).Error; err != nil {
		logger.Log.Error().Err(err).Msg("Failed to create link")
		c.JSON(http.StatusInternalServerError, responses.NewErrorResponse("Failed to create link", ""))
		return
	}

	if h.kafkaProducer != nil {
		event := events.NewResourceEvent(events.LinkCreated, events.ResourceTypeLink, link.ID, link.OwnerID, currentUser)
		if err := h.kafkaProducer.PublishLinkEvent(context.Background(), event); err != nil {
			logger.Log.Error().Err(err).Msg("Failed to publish link created event")
		}
	}

	c.JSON(http.StatusCreated, responses.NewSuccessResponse("Link created successfully", link))
}

// GetLink retrieves a single link.
func (h *LinkHandler) GetLink(c *gin.Context) {
	currentUser, ok := currentUserID(c)
	if !ok {
		return
	}
	linkID, ok := parseIDParam(c, "linkId")
	if !ok {
		return
	}

	link, err := h.guard.Link(linkID, currentUser)
	if err != nil {
		respondAccessError(c, "link", err)
		return
	}

	c.JSON(http.StatusOK, responses.NewSuccessResponse("Link retrieved successfully", link))
}

// ListLinks returns the user's links, paginated, searchable and sortable.
// Optional filters: collectionId, tagId, pinned.
func (h *LinkHandler) ListLinks(c *gin.Context) {
	currentUser, ok := currentUserID(c)
	if !ok {
		return
	}

	q := query.Build(query.Links, c.Request.URL.Query())

	base := h.db.Model(&models.Link{}).Where("owner_id = ?", currentUser)
	if raw := c.Query("collectionId"); raw != "" {
		if collectionID, err := uuid.Parse(raw); err == nil {
			base = base.Where("collection_id = ?", collectionID)
		}
	}
	if raw := c.Query("tagId"); raw != "" {
		if tagID, err := uuid.Parse(raw); err == nil {
			base = base.Where("tag_id = ?", tagID)
		}
	}
	if c.Query("pinned") == "true" {
		base = base.Where("is_pinned = ?", true)
	}
	base = q.Filter(base)

	// Count and page contents are two statements; they are not snapshot
	// consistent under concurrent writes.
	var total int64
	if err := base.Count(&total).Error; err != nil {
		logger.Log.Error().Err(err).Msg("Failed to count links")
		c.JSON(http.StatusInternalServerError, responses.NewErrorResponse("Failed to retrieve links", ""))
		return
	}

	var links []models.Link
	if err := q.Sort(q.Paginate(base)).Find(&links).Error; err != nil {
		logger.Log.Error().Err(err).Msg("Failed to list links")
		c.JSON(http.StatusInternalServerError, responses.NewErrorResponse("Failed to retrieve links", ""))
		return
	}

	c.JSON(http.StatusOK, responses.NewSuccessResponse("Links retrieved successfully", gin.H{
		"links":      links,
		"total":      total,
		"page":       q.Page,
		"pageSize":   q.PageSize,
		"totalPages": q.TotalPages(total),
	}))
}

// UpdateLink applies a partial edit to a link.
func (h *LinkHandler) UpdateLink(c *gin.Context) {
	currentUser, ok := currentUserID(c)
	if !ok {
		return
	}
	linkID, ok := parseIDParam(c, "linkId")
	if !ok {
		return
	}

	var req dto.UpdateLinkReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.NewErrorResponse("Invalid request format", err.Error()))
		return
	}

	link, err := h.guard.Link(linkID, currentUser)
	if err != nil {
		respondAccessError(c, "link", err)
		return
	}

	if req.CollectionID != nil {
		if _, err := h.guard.Collection(*req.CollectionID, currentUser); err != nil {
			respondAccessError(c, "collection", err)
			return
		}
		link.CollectionID = req.CollectionID
	}
	if req.TagID != nil {
		if _, err := h.guard.Tag(*req.TagID, currentUser); err != nil {
			respondAccessError(c, "tag", err)
			return
		}
		link.TagID = req.TagID
	}
	if req.URL != nil {
		link.URL = *req.URL
	}
	if req.Title != nil {
		link.Title = *req.Title
	}
	if req.Description != nil {
		link.Description = req.Description
	}
	if req.Notes != nil {
		link.Notes = req.Notes
	}
	if req.IsPinned != nil {
		link.IsPinned = *req.IsPinned
	}

	if err := h.db.Save(link).Error; err != nil {
		logger.Log.Error().Err(err).Msg("Failed to update link")
		c.JSON(http.StatusInternalServerError, responses.NewErrorResponse("Failed to update link", ""))
		return
	}

	if h.kafkaProducer != nil {
		event := events.NewResourceEvent(events.LinkUpdated, events.ResourceTypeLink, link.ID, link.OwnerID, currentUser)
		if err := h.kafkaProducer.PublishLinkEvent(context.Background(), event); err != nil {
			logger.Log.Error().Err(err).Msg("Failed to publish link updated event")
		}
	}

	c.JSON(http.StatusOK, responses.NewSuccessResponse("Link updated successfully", link))
}

// DeleteLink removes a link. Ownership is part of the delete statement, so a
// concurrent delete of the same link leaves exactly one winner.
func (h *LinkHandler) DeleteLink(c *gin.Context) {
	currentUser, ok := currentUserID(c)
	if !ok {
		return
	}
	linkID, ok := parseIDParam(c, "linkId")
	if !ok {
		return
	}

	if err := access.DeleteLink(h.db, linkID, currentUser); err != nil {
		respondAccessError(c, "link", err)
		return
	}

	if h.kafkaProducer != nil {
		event := events.NewResourceEvent(events.LinkDeleted, events.ResourceTypeLink, linkID, currentUser, currentUser)
		if err := h.kafkaProducer.PublishLinkEvent(context.Background(), event); err != nil {
			logger.Log.Error().Err(err).Msg("Failed to publish link deleted event")
		}
	}

	c.JSON(http.StatusOK, responses.NewSuccessResponse("Link deleted successfully", nil))
}

// VisitLink bumps the view counter and visit timestamp.
func (h *LinkHandler) VisitLink(c *gin.Context) {
	currentUser, ok := currentUserID(c)
	if !ok {
		return
	}
	linkID, ok := parseIDParam(c, "linkId")
	if !ok {
		return
	}

	if err := h.repo.RecordVisit(linkID, currentUser); err != nil {
		respondAccessError(c, "link", err)
		return
	}

	if h.kafkaProducer != nil {
		event := events.NewResourceEvent(events.LinkVisited, events.ResourceTypeLink, linkID, currentUser, currentUser)
		if err := h.kafkaProducer.PublishLinkEvent(context.Background(), event); err != nil {
			logger.Log.Error().Err(err).Msg("Failed to publish link visited event")
		}
	}

	c.JSON(http.StatusOK, responses.NewSuccessResponse("Visit recorded", nil))
}
