package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/webmediarec/backend/internal/handlers"
)

type RouterConfig struct {
	CORSOrigins           []string
	HealthHandler         *handlers.HealthHandler
	RecommendationHandler *handlers.RecommendationHandler
	EngagementHandler     *handlers.EngagementHandler
	MetricsHandler        *handlers.MetricsHandler
	DebugHandler          *handlers.DebugHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "X-Requested-With"},
		AllowCredentials: false,
	}))

	router.GET("/", cfg.HealthHandler.Root)
	router.GET("/health", cfg.HealthHandler.Health)

	debug := router.Group("/debug")
	{
		debug.GET("/users", cfg.DebugHandler.ListUsers)
		debug.GET("/items", cfg.DebugHandler.ListItems)
		debug.GET("/interactions", cfg.DebugHandler.ListInteractions)
	}

	api := router.Group("/api")
	{
		api.GET("/recommendations", cfg.RecommendationHandler.GetRecommendations)
		api.POST("/engagements", cfg.EngagementHandler.PostEngagement)
		api.GET("/metrics/pac", cfg.MetricsHandler.GetPaC)
	}

	return router
}
