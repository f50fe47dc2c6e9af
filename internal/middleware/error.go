package middleware

import (
	"net/http"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ErrorHandler recovers from panics in later handlers and answers with a JSON
// error instead of gin's plain text 500.
func ErrorHandler() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, err any) {
		log.FromContext(c.Request.Context()).WithFields(log.Fields{
			"panic":  err,
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).Error("recovered from panic")
		panicRecoveries.Inc()

		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal Server Error"})
	})
}

// NoRoute answers unknown paths with a JSON 404
func NoRoute(c *gin.Context) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
}

// NoMethod answers known paths hit with an unsupported method
func NoMethod(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, ErrorResponse{Error: "method not allowed"})
}
