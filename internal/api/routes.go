package api

import (
	"github.com/apack/pack/internal/config"
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, cfg *config.Config) {
	h := NewHandler(cfg)

	router.GET("/health", HandleHealth)
	router.GET("/info", h.HandleInfo)
	router.GET("/", h.HandleInfo)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/compress", h.HandleCompress)
		v1.POST("/compare", h.HandleCompare)
		v1.GET("/info", h.HandleInfo)
		v1.GET("/health", HandleHealth)
	}

	router.POST("/compress", h.HandleCompress)
	router.POST("/compare", h.HandleCompare)
}
