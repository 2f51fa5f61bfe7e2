package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fveracoechea/hyperlog-sub000/internal/access"
	"github.com/fveracoechea/hyperlog-sub000/pkg/logger"
	"github.com/fveracoechea/hyperlog-sub000/pkg/responses"
)

// currentUserID pulls the authenticated user id set by the auth middleware.
// It writes the 401 itself so handlers just bail out on !ok.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		logger.Log.Warn().Str("path", c.Request.URL.Path).Msg("Missing user_id in context")
		c.JSON(http.StatusUnauthorized, responses.NewErrorResponse("Authentication required", ""))
		return uuid.Nil, false
	}
	return v.(uuid.UUID), true
}

func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, responses.NewErrorResponse("Invalid "+name+" format", ""))
		return uuid.Nil, false
	}
	return id, true
}

// respondAccessError maps guard errors onto 404/403 and everything else onto
// a logged 500.
func respondAccessError(c *gin.Context, resource string, err error) {
	switch {
	case errors.Is(err, access.ErrNotFound):
		c.JSON(http.StatusNotFound, responses.NewErrorResponse(resource+" not found", ""))
	case errors.Is(err, access.ErrForbidden):
		c.JSON(http.StatusForbidden, responses.NewErrorResponse("You don't have permission to access this "+resource, ""))
	default:
		logger.Log.Error().Err(err).Str("resource", resource).Msg("Database error")
		c.JSON(http.StatusInternalServerError, responses.NewErrorResponse("Failed to process request", ""))
	}
}
