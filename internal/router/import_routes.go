package router

import (
	"github.com/gin-gonic/gin"

	"github.com/fveracoechea/hyperlog-sub000/internal/handlers"
)

// ImportRoutes defines routes for importing data.
func ImportRoutes(rg *gin.RouterGroup, importHandler *handlers.ImportHandler) {
	rg.POST("/import-links", importHandler.ImportLinks)
}
