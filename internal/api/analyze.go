package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"

	"github.com/eathaven/backend/config"
	"github.com/eathaven/backend/internal/middleware"
	"github.com/eathaven/backend/internal/model"
	"github.com/eathaven/backend/internal/service"
)

// CredentialFunc returns the upstream API key. It is called once per request.
type CredentialFunc func() (string, error)

// AnalyzeHandler handles fridge photo analysis requests
type AnalyzeHandler struct {
	analysis   service.IAnalysisService
	credential CredentialFunc
}

// NewAnalyzeHandler creates a new AnalyzeHandler instance
func NewAnalyzeHandler(analysis service.IAnalysisService, credential CredentialFunc) *AnalyzeHandler {
	return &AnalyzeHandler{
		analysis:   analysis,
		credential: credential,
	}
}

// RegisterRoutes registers the analysis routes
func (h *AnalyzeHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/analyze", h.Analyze)
	router.OPTIONS("/analyze", h.Preflight)
}

// Preflight answers OPTIONS requests that carry no Origin header. Browser
// preflights never get here; the CORS middleware handles them.
func (h *AnalyzeHandler) Preflight(c *gin.Context) {
	middleware.SetCORSHeaders(c)
	c.Status(http.StatusOK)
}

// Analyze forwards the photo to the vision model and returns its recipe JSON
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	logger := log.FromContext(c.Request.Context())

	// The credential is checked before the body so a misconfigured deployment
	// is reported as such whatever the caller sent.
	apiKey, err := h.credential()
	if err != nil {
		logger.WithError(err).Error("upstream credential unavailable")
		c.JSON(http.StatusInternalServerError, middleware.ErrorResponse{Error: config.ErrCredentialMissing.Error()})
		return
	}

	var req model.AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if strings.TrimSpace(req.Image) == "" {
			c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: service.ErrMissingImage.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{
			Error:   "invalid request body",
			Details: err.Error(),
		})
		return
	}

	result, err := h.analysis.Analyze(c.Request.Context(), apiKey, &req)
	if err != nil {
		if service.IsClientError(err) {
			logger.WithError(err).Warn("rejected analysis request")
		}
		status, body := errorResponse(err)
		c.JSON(status, body)
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", result)
}

// errorResponse maps service errors onto a status code and a body that never
// carries the image, the credential or the upstream response body.
func errorResponse(err error) (int, middleware.ErrorResponse) {
	var upstreamErr *service.UpstreamError
	var shapeErr *service.ShapeError

	switch {
	case errors.Is(err, service.ErrMissingImage):
		return http.StatusBadRequest, middleware.ErrorResponse{Error: service.ErrMissingImage.Error()}
	case errors.Is(err, service.ErrInvalidImage):
		return http.StatusBadRequest, middleware.ErrorResponse{Error: service.ErrInvalidImage.Error()}
	case errors.Is(err, service.ErrImageTooLarge):
		return http.StatusBadRequest, middleware.ErrorResponse{Error: service.ErrImageTooLarge.Error(), Details: err.Error()}
	case errors.As(err, &upstreamErr):
		return http.StatusInternalServerError, middleware.ErrorResponse{
			Error:   service.ErrUpstreamUnavailable.Error(),
			Details: fmt.Sprintf("upstream returned status %d", upstreamErr.StatusCode),
		}
	case errors.Is(err, service.ErrUpstreamUnavailable):
		return http.StatusInternalServerError, middleware.ErrorResponse{Error: service.ErrUpstreamUnavailable.Error()}
	case errors.Is(err, service.ErrEmptyCompletion):
		return http.StatusInternalServerError, middleware.ErrorResponse{Error: service.ErrEmptyCompletion.Error()}
	case errors.Is(err, service.ErrNoJSONObject):
		return http.StatusInternalServerError, middleware.ErrorResponse{Error: service.ErrNoJSONObject.Error()}
	case errors.As(err, &shapeErr):
		return http.StatusInternalServerError, middleware.ErrorResponse{
			Error:   "model response missing required fields",
			Details: strings.Join(shapeErr.Missing, ", "),
		}
	default:
		return http.StatusInternalServerError, middleware.ErrorResponse{Error: "Server error"}
	}
}
