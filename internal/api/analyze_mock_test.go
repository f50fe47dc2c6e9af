package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/eathaven/backend/internal/middleware"
	"github.com/eathaven/backend/internal/mocks"
	"github.com/eathaven/backend/internal/model"
	"github.com/eathaven/backend/internal/service"
)

func setupMockRouter(analysis *mocks.MockAnalysisService) *gin.Engine {
	router := gin.New()
	router.Use(middleware.CORS())
	NewAnalyzeHandler(analysis, staticCredential("sk-mock")).RegisterRoutes(router.Group("/api"))
	return router
}

func TestAnalyzeForwardsRequest(t *testing.T) {
	analysis := new(mocks.MockAnalysisService)
	analysis.On("Analyze", mock.Anything, "sk-mock", mock.MatchedBy(func(req *model.AnalysisRequest) bool {
		return req.Image == testImage &&
			req.Budget.String() == "20" &&
			req.People.String() == "4" &&
			req.Diet == "vegan"
	})).Return(json.RawMessage(`{"ingredients":["tofu"],"recipes":[]}`), nil)

	w := postAnalyze(setupMockRouter(analysis), `{"image":"`+testImage+`","budget":20,"people":"4","diet":"vegan"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `{"ingredients":["tofu"],"recipes":[]}`, w.Body.String())
	analysis.AssertExpectations(t)
}

func TestAnalyzeMapsServiceErrors(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantErr    string
	}{
		{service.ErrMissingImage, http.StatusBadRequest, "no image provided"},
		{fmt.Errorf("%w: 9000000 bytes exceeds limit", service.ErrImageTooLarge), http.StatusBadRequest, "image too large"},
		{&service.UpstreamError{Provider: "anthropic", StatusCode: http.StatusUnauthorized}, http.StatusInternalServerError, "upstream request failed"},
		{&service.ShapeError{Missing: []string{"recipes"}}, http.StatusInternalServerError, "model response missing required fields"},
	}

	for _, tt := range tests {
		t.Run(tt.wantErr, func(t *testing.T) {
			analysis := new(mocks.MockAnalysisService)
			analysis.On("Analyze", mock.Anything, "sk-mock", mock.Anything).Return(nil, tt.err)

			w := postAnalyze(setupMockRouter(analysis), `{"image":"`+testImage+`"}`)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantErr, decodeError(t, w).Error)
			analysis.AssertExpectations(t)
		})
	}
}
