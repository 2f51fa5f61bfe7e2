package router

import (
	"github.com/gin-gonic/gin"

	"github.com/fveracoechea/hyperlog-sub000/internal/handlers"
	"github.com/fveracoechea/hyperlog-sub000/internal/middleware"
)

// Setup registers every API route under /api/v1 behind the auth middleware.
func Setup(r *gin.Engine, linkHandler *handlers.LinkHandler, collectionHandler *handlers.CollectionHandler, tagHandler *handlers.TagHandler, importHandler *handlers.ImportHandler) {
	v1 := r.Group("/api/v1")

	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	LinkRoutes(protected, linkHandler)
	CollectionRoutes(protected, collectionHandler)
	TagRoutes(protected, tagHandler)
	ImportRoutes(protected, importHandler)
}
