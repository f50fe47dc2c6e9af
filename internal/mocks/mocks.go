package mocks

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"

	"github.com/eathaven/backend/internal/model"
	"github.com/eathaven/backend/internal/service"
)

// MockVisionClient is a mock implementation of service.IVisionClient
type MockVisionClient struct {
	mock.Mock
}

func (m *MockVisionClient) Provider() string {
	return "mock"
}

func (m *MockVisionClient) Complete(ctx context.Context, apiKey string, image service.ImagePayload, prompt string) (string, error) {
	args := m.Called(ctx, apiKey, image, prompt)
	return args.String(0), args.Error(1)
}

// MockAnalysisService is a mock implementation of service.IAnalysisService
type MockAnalysisService struct {
	mock.Mock
}

func (m *MockAnalysisService) Analyze(ctx context.Context, apiKey string, req *model.AnalysisRequest) (json.RawMessage, error) {
	args := m.Called(ctx, apiKey, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}
