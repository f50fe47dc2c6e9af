package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eathaven/backend/internal/api"
	"github.com/eathaven/backend/internal/middleware"
)

// SetupRouter configures the application routes
func SetupRouter(analyzeHandler *api.AnalyzeHandler) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true

	router.Use(middleware.RequestLogger())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.Metrics())
	router.Use(middleware.CORS())

	router.NoRoute(middleware.NoRoute)
	router.NoMethod(middleware.NoMethod)

	// Health check endpoints
	router.GET("/health", api.HealthCheck)
	router.GET("/api/health", api.HealthCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	analyzeHandler.RegisterRoutes(router.Group("/api"))

	return router
}
