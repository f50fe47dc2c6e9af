package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/apex/log"
)

const (
	anthropicVersion = "2023-06-01"
	maxResponseBytes = 4 << 20
	maxLoggedBody    = 512
)

// AnthropicClient calls the Anthropic Messages API
type AnthropicClient struct {
	apiURL    string
	model     string
	maxTokens int
	client    *http.Client
}

// NewAnthropicClient creates a new AnthropicClient instance
func NewAnthropicClient(apiURL, model string, maxTokens int, timeout time.Duration) *AnthropicClient {
	return &AnthropicClient{
		apiURL:    apiURL,
		model:     model,
		maxTokens: maxTokens,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// anthropicRequest represents a request to the Messages API
type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string             `json:"role"`
	Content []anthropicContent `json:"content"`
}

type anthropicContent struct {
	Type   string                `json:"type"`
	Text   string                `json:"text,omitempty"`
	Source *anthropicImageSource `json:"source,omitempty"`
}

type anthropicImageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

// anthropicResponse holds the parts of the Messages API response we read
type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

// Provider implements IVisionClient
func (c *AnthropicClient) Provider() string {
	return "anthropic"
}

// Complete sends the image and prompt as a single user message
func (c *AnthropicClient) Complete(ctx context.Context, apiKey string, image ImagePayload, prompt string) (string, error) {
	reqBody := anthropicRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages: []anthropicMessage{
			{
				Role: "user",
				Content: []anthropicContent{
					{
						Type: "image",
						Source: &anthropicImageSource{
							Type:      "base64",
							MediaType: image.MediaType,
							Data:      image.Data,
						},
					},
					{
						Type: "text",
						Text: prompt,
					},
				},
			},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("%w: failed to read response: %v", ErrUpstreamUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.FromContext(ctx).WithFields(log.Fields{
			"provider": c.Provider(),
			"status":   resp.StatusCode,
			"body":     truncate(string(body), maxLoggedBody),
		}).Error("upstream API request failed")
		return "", &UpstreamError{Provider: c.Provider(), StatusCode: resp.StatusCode}
	}

	var result anthropicResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", ErrUpstreamUnavailable, err)
	}

	if len(result.Content) == 0 || result.Content[0].Text == "" {
		return "", ErrEmptyCompletion
	}

	if result.StopReason == "max_tokens" {
		log.FromContext(ctx).WithField("max_tokens", c.maxTokens).Warn("model output was truncated")
	}

	return result.Content[0].Text, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
