package service

import (
	"context"
	"encoding/json"

	"github.com/eathaven/backend/internal/model"
)

// IVisionClient sends one image plus an instruction to a multimodal model and
// returns the text of the first content block of the answer.
type IVisionClient interface {
	Provider() string
	Complete(ctx context.Context, apiKey string, image ImagePayload, prompt string) (string, error)
}

// IAnalysisService turns a fridge photo into the model's recipe JSON
type IAnalysisService interface {
	Analyze(ctx context.Context, apiKey string, req *model.AnalysisRequest) (json.RawMessage, error)
}
