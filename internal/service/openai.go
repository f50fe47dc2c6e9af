package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/apex/log"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIClient calls an OpenAI compatible chat completion endpoint
type OpenAIClient struct {
	client    *openai.Client
	model     string
	maxTokens int
}

// NewOpenAIClient creates a new OpenAIClient instance. The SDK's own retries
// are disabled; a failed call is reported as is.
func NewOpenAIClient(apiURL, model string, maxTokens int, timeout time.Duration) *OpenAIClient {
	return &OpenAIClient{
		client: openai.NewClient(
			option.WithBaseURL(apiURL),
			option.WithMaxRetries(0),
			option.WithHTTPClient(&http.Client{Timeout: timeout}),
		),
		model:     model,
		maxTokens: maxTokens,
	}
}

// Provider implements IVisionClient
func (c *OpenAIClient) Provider() string {
	return "openai"
}

// Complete sends the image as a data URL part followed by the prompt
func (c *OpenAIClient) Complete(ctx context.Context, apiKey string, image ImagePayload, prompt string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.F(openai.ChatModel(c.model)),
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.UserMessageParts(
				openai.ImagePart(image.DataURL()),
				openai.TextPart(prompt),
			),
		}),
		MaxTokens: openai.F(int64(c.maxTokens)),
	}, option.WithAPIKey(apiKey))
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			log.FromContext(ctx).WithFields(log.Fields{
				"provider": c.Provider(),
				"status":   apiErr.StatusCode,
				"message":  truncate(apiErr.Message, maxLoggedBody),
			}).Error("upstream API request failed")
			return "", &UpstreamError{Provider: c.Provider(), StatusCode: apiErr.StatusCode}
		}
		return "", fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyCompletion
	}

	return resp.Choices[0].Message.Content, nil
}
