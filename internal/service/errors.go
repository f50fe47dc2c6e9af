package service

import (
	"errors"
	"fmt"
	"strings"
)

// Client input errors
var (
	ErrMissingImage  = errors.New("no image provided")
	ErrInvalidImage  = errors.New("image is not valid base64")
	ErrImageTooLarge = errors.New("image too large")
)

// Upstream and response shape errors
var (
	ErrUpstreamUnavailable = errors.New("upstream request failed")
	ErrEmptyCompletion     = errors.New("empty completion from model")
	ErrNoJSONObject        = errors.New("invalid JSON from model")
)

// UpstreamError is returned when the inference API answers with a non-2xx status
type UpstreamError struct {
	Provider   string
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s API returned status %d", e.Provider, e.StatusCode)
}

// ShapeError is returned when the model's JSON lacks required fields
type ShapeError struct {
	Missing []string
}

func (e *ShapeError) Error() string {
	return "model response missing required fields: " + strings.Join(e.Missing, ", ")
}

// IsClientError reports whether err was caused by the caller's input
func IsClientError(err error) bool {
	return errors.Is(err, ErrMissingImage) ||
		errors.Is(err, ErrInvalidImage) ||
		errors.Is(err, ErrImageTooLarge)
}
