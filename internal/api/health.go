package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Version is set at build time with -ldflags "-X github.com/eathaven/backend/internal/api.Version=..."
var Version = "dev"

// HealthCheck returns the health status of the API
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "EatHaven API is running",
		"version": Version,
	})
}
