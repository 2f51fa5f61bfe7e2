package router

import (
	"github.com/gin-gonic/gin"

	"github.com/fveracoechea/hyperlog-sub000/internal/handlers"
)

// LinkRoutes defines routes for link management.
func LinkRoutes(rg *gin.RouterGroup, linkHandler *handlers.LinkHandler) {
	links := rg.Group("/links")
	{
		links.POST("", linkHandler.CreateLink)
		links.GET("", linkHandler.ListLinks)
		links.GET("/:linkId", linkHandler.GetLink)
		links.PUT("/:linkId", linkHandler.UpdateLink)
		links.DELETE("/:linkId", linkHandler.DeleteLink)
		links.POST("/:linkId/visit", linkHandler.VisitLink)
	}
}
