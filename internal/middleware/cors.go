package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Allowed methods and headers for cross-origin requests
var (
	AllowedMethods = []string{http.MethodPost, http.MethodOptions}
	AllowedHeaders = []string{"Content-Type"}
)

// CORS allows any origin to call the API. Browser preflights are answered
// here with 200 and no body.
func CORS() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowAllOrigins:           true,
		AllowMethods:              AllowedMethods,
		AllowHeaders:              AllowedHeaders,
		OptionsResponseStatusCode: http.StatusOK,
	})
}

// SetCORSHeaders writes the CORS headers for requests the cors middleware
// skips, e.g. an OPTIONS probe without an Origin header.
func SetCORSHeaders(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Methods", strings.Join(AllowedMethods, ", "))
	c.Header("Access-Control-Allow-Headers", strings.Join(AllowedHeaders, ", "))
}
