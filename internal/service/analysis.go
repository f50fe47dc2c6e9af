package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/apex/log"

	"github.com/eathaven/backend/internal/model"
)

var requiredArrayFields = []string{"ingredients", "recipes"}

// AnalysisService runs a single fridge photo analysis against the vision client
type AnalysisService struct {
	client        IVisionClient
	maxImageBytes int
}

// NewAnalysisService creates a new AnalysisService instance
func NewAnalysisService(client IVisionClient, maxImageBytes int) *AnalysisService {
	return &AnalysisService{
		client:        client,
		maxImageBytes: maxImageBytes,
	}
}

// Analyze normalizes the image, asks the model for recipes and returns the
// model's JSON object unchanged.
func (s *AnalysisService) Analyze(ctx context.Context, apiKey string, req *model.AnalysisRequest) (json.RawMessage, error) {
	if strings.TrimSpace(req.Image) == "" {
		return nil, ErrMissingImage
	}

	image := NormalizeImage(req.Image)
	size, err := ValidateImage(image, s.maxImageBytes)
	if err != nil {
		return nil, err
	}

	logger := log.FromContext(ctx).WithFields(log.Fields{
		"provider":    s.client.Provider(),
		"media_type":  image.MediaType,
		"image_bytes": size,
		"budget":      req.Budget.String(),
		"people":      req.People.String(),
		"diet":        req.Diet,
	})
	logger.Info("analyzing image")

	start := time.Now()
	text, err := s.client.Complete(ctx, apiKey, image, BuildAnalysisPrompt(req))
	elapsed := time.Since(start)
	observeUpstream(s.client.Provider(), err, elapsed)
	if err != nil {
		logger.WithError(err).WithField("duration", elapsed).Error("vision request failed")
		if errors.Is(err, ErrEmptyCompletion) {
			modelOutputRejected.WithLabelValues("empty").Inc()
		}
		return nil, err
	}

	raw, err := ExtractJSONObject(text)
	if err != nil {
		modelOutputRejected.WithLabelValues("invalid_json").Inc()
		logger.WithField("response_chars", len(text)).Warn("model answer contains no JSON object")
		return nil, err
	}

	if err := CheckResultShape(raw); err != nil {
		modelOutputRejected.WithLabelValues("missing_fields").Inc()
		logger.WithError(err).Warn("model answer has the wrong shape")
		return nil, err
	}

	fields := log.Fields{"duration": elapsed}
	var result model.AnalysisResult
	if json.Unmarshal(raw, &result) == nil {
		fields["ingredients"] = len(result.Ingredients)
		fields["recipes"] = len(result.Recipes)
	}
	logger.WithFields(fields).Info("analysis complete")

	return raw, nil
}

// CheckResultShape verifies the fields the frontend cannot render without.
// Nothing else is validated; prices and counts are passed through untouched.
func CheckResultShape(raw json.RawMessage) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return ErrNoJSONObject
	}

	var missing []string
	for _, field := range requiredArrayFields {
		value, ok := obj[field]
		if !ok || !isJSONArray(value) {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return &ShapeError{Missing: missing}
	}
	return nil
}

func isJSONArray(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return strings.HasPrefix(trimmed, "[")
}
