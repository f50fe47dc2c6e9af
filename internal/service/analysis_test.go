package service

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eathaven/backend/internal/model"
)

type fakeVisionClient struct {
	text  string
	err   error
	calls int

	apiKey string
	image  ImagePayload
	prompt string
}

func (f *fakeVisionClient) Provider() string { return "fake" }

func (f *fakeVisionClient) Complete(_ context.Context, apiKey string, image ImagePayload, prompt string) (string, error) {
	f.calls++
	f.apiKey = apiKey
	f.image = image
	f.prompt = prompt
	return f.text, f.err
}

var testImage = "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngHeader)

func newRequest(image string) *model.AnalysisRequest {
	return &model.AnalysisRequest{
		Image:  image,
		Budget: model.NewAmount(15),
		People: model.NewAmount(2),
		Diet:   "vegetarian",
	}
}

func TestAnalysisServiceAnalyze(t *testing.T) {
	client := &fakeVisionClient{text: "```json\n{\"ingredients\":[\"egg\"],\"recipes\":[]}\n```"}
	svc := NewAnalysisService(client, 1024)

	raw, err := svc.Analyze(context.Background(), "sk-test", newRequest(testImage))
	require.NoError(t, err)
	assert.JSONEq(t, `{"ingredients":["egg"],"recipes":[]}`, string(raw))

	assert.Equal(t, 1, client.calls)
	assert.Equal(t, "sk-test", client.apiKey)
	assert.Equal(t, "image/png", client.image.MediaType)
	assert.Equal(t, base64.StdEncoding.EncodeToString(pngHeader), client.image.Data)
	assert.Contains(t, client.prompt, "Budget: 15 EUR")
	assert.Contains(t, client.prompt, "People: 2")
	assert.Contains(t, client.prompt, "Diet: vegetarian")
}

func TestAnalysisServiceInputErrors(t *testing.T) {
	tests := []struct {
		name    string
		image   string
		wantErr error
	}{
		{"missing", "", ErrMissingImage},
		{"whitespace", "   ", ErrMissingImage},
		{"empty payload", "data:image/png;base64,", ErrMissingImage},
		{"not base64", "data:image/png;base64,%%%", ErrInvalidImage},
		{"too large", "data:image/png;base64," + base64.StdEncoding.EncodeToString(make([]byte, 2048)), ErrImageTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeVisionClient{}
			svc := NewAnalysisService(client, 1024)

			_, err := svc.Analyze(context.Background(), "sk-test", newRequest(tt.image))
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, IsClientError(err))
			assert.Zero(t, client.calls, "upstream must not be called for bad input")
		})
	}
}

func TestAnalysisServiceModelOutput(t *testing.T) {
	t.Run("prose only", func(t *testing.T) {
		svc := NewAnalysisService(&fakeVisionClient{text: "Sorry, I cannot help with that."}, 1024)
		_, err := svc.Analyze(context.Background(), "sk-test", newRequest(testImage))
		assert.ErrorIs(t, err, ErrNoJSONObject)
	})

	t.Run("missing recipes", func(t *testing.T) {
		svc := NewAnalysisService(&fakeVisionClient{text: `{"ingredients":["egg"]}`}, 1024)
		_, err := svc.Analyze(context.Background(), "sk-test", newRequest(testImage))

		var shapeErr *ShapeError
		require.ErrorAs(t, err, &shapeErr)
		assert.Equal(t, []string{"recipes"}, shapeErr.Missing)
	})

	t.Run("fields of the wrong type", func(t *testing.T) {
		svc := NewAnalysisService(&fakeVisionClient{text: `{"ingredients":"egg","recipes":{}}`}, 1024)
		_, err := svc.Analyze(context.Background(), "sk-test", newRequest(testImage))

		var shapeErr *ShapeError
		require.ErrorAs(t, err, &shapeErr)
		assert.Equal(t, []string{"ingredients", "recipes"}, shapeErr.Missing)
	})

	t.Run("nested recipe objects pass through untouched", func(t *testing.T) {
		text := `Sure! {"ingredients":["egg"],"ingredientCount":1,"daysEstimate":2,"recipes":[{"type":"budget","title":"Frittata","description":"x","missing":[{"item":"cheese","price":2.99}],"price":7.5}]} Enjoy!`
		svc := NewAnalysisService(&fakeVisionClient{text: text}, 1024)

		raw, err := svc.Analyze(context.Background(), "sk-test", newRequest(testImage))
		require.NoError(t, err)
		assert.Equal(t, text[len("Sure! "):len(text)-len(" Enjoy!")], string(raw))
	})
}

func TestAnalysisServiceUpstreamErrors(t *testing.T) {
	upstream := &UpstreamError{Provider: "fake", StatusCode: 529}
	svc := NewAnalysisService(&fakeVisionClient{err: upstream}, 1024)

	_, err := svc.Analyze(context.Background(), "sk-test", newRequest(testImage))
	assert.True(t, errors.Is(err, upstream))
	assert.False(t, IsClientError(err))
	assert.Equal(t, "status_error", upstreamOutcome(err))
}

func TestCheckResultShape(t *testing.T) {
	assert.NoError(t, CheckResultShape([]byte(`{"ingredients":[],"recipes":[]}`)))
	assert.NoError(t, CheckResultShape([]byte(`{"ingredients": [ ], "recipes": [], "extra": true}`)))
	assert.Error(t, CheckResultShape([]byte(`{}`)))
	assert.ErrorIs(t, CheckResultShape([]byte(`[]`)), ErrNoJSONObject)
}

func TestBuildAnalysisPrompt(t *testing.T) {
	prompt := BuildAnalysisPrompt(&model.AnalysisRequest{Budget: model.NewAmount(12.5), People: model.NewAmount(4)})

	assert.Contains(t, prompt, "Budget: 12.5 EUR")
	assert.Contains(t, prompt, "People: 4")
	assert.Contains(t, prompt, "Diet: no restrictions")
	assert.Contains(t, prompt, "JSON only, no markdown fencing")
	for _, rt := range model.RecipeTypes {
		assert.Contains(t, prompt, `"`+string(rt)+`"`)
	}
}
