package router

import (
	"github.com/gin-gonic/gin"

	"github.com/fveracoechea/hyperlog-sub000/internal/handlers"
)

// TagRoutes defines routes for tag management.
func TagRoutes(rg *gin.RouterGroup, tagHandler *handlers.TagHandler) {
	tags := rg.Group("/tags")
	{
		tags.POST("", tagHandler.CreateTag)
		tags.GET("", tagHandler.ListTags)
		tags.GET("/:tagId", tagHandler.GetTag)
		tags.PUT("/:tagId", tagHandler.UpdateTag)
		tags.DELETE("/:tagId", tagHandler.DeleteTag)
	}
}
