package router

import (
	"github.com/gin-gonic/gin"

	"github.com/fveracoechea/hyperlog-sub000/internal/handlers"
)

// CollectionRoutes defines routes for collection management.
func CollectionRoutes(rg *gin.RouterGroup, collectionHandler *handlers.CollectionHandler) {
	collections := rg.Group("/collections")
	{
		collections.POST("", collectionHandler.CreateCollection)
		collections.GET("", collectionHandler.ListCollections)
		collections.GET("/:collectionId", collectionHandler.GetCollection)
		collections.PUT("/:collectionId", collectionHandler.UpdateCollection)
		collections.DELETE("/:collectionId", collectionHandler.DeleteCollection)

		// Sharing
		collections.POST("/:collectionId/share", collectionHandler.ShareCollection)
		collections.DELETE("/:collectionId/share/:userId", collectionHandler.RevokeSharing)
	}
}
