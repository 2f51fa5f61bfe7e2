package middleware

import (
	"github.com/gin-gonic/gin"
	ginprometheus "github.com/zsais/go-gin-prometheus"
)

// SetupPrometheus exposes request metrics under /metrics.
func SetupPrometheus(r *gin.Engine) {
	p := ginprometheus.NewPrometheus("hyperlog")

	p.Use(r)
}
