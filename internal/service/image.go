package service

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultMediaType is used whenever the image type cannot be determined
const DefaultMediaType = "image/jpeg"

var supportedMediaTypes = map[string]string{
	"image/jpeg": "image/jpeg",
	"image/jpg":  "image/jpeg",
	"image/png":  "image/png",
	"image/webp": "image/webp",
	"image/gif":  "image/gif",
}

// ImagePayload is an image ready to be sent upstream
type ImagePayload struct {
	MediaType string
	Data      string // standard base64, no data URI prefix
}

// DataURL renders the payload back into a data URI
func (p ImagePayload) DataURL() string {
	return "data:" + p.MediaType + ";base64," + p.Data
}

// NormalizeImage splits a data URI or raw base64 string into media type and
// payload. The payload is everything after the first comma, or the whole
// input when there is none.
func NormalizeImage(image string) ImagePayload {
	image = strings.TrimSpace(image)

	prefix, data, found := strings.Cut(image, ",")
	if !found {
		return ImagePayload{MediaType: DefaultMediaType, Data: image}
	}

	if mediaType, ok := declaredMediaType(prefix); ok {
		return ImagePayload{MediaType: mediaType, Data: data}
	}

	return ImagePayload{MediaType: sniffMediaType(data), Data: data}
}

// ValidateImage checks that the payload is decodable and within maxBytes.
// It returns the decoded size.
func ValidateImage(p ImagePayload, maxBytes int) (int, error) {
	if p.Data == "" {
		return 0, ErrMissingImage
	}

	// Cheap upper bound before decoding anything.
	if maxBytes > 0 && base64.StdEncoding.DecodedLen(len(p.Data)) > maxBytes+2 {
		return 0, fmt.Errorf("%w: limit is %d bytes", ErrImageTooLarge, maxBytes)
	}

	raw, err := base64.StdEncoding.DecodeString(p.Data)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if maxBytes > 0 && len(raw) > maxBytes {
		return 0, fmt.Errorf("%w: %d bytes, limit is %d", ErrImageTooLarge, len(raw), maxBytes)
	}
	return len(raw), nil
}

// declaredMediaType reads the media type from a "data:<type>;base64" prefix
func declaredMediaType(prefix string) (string, bool) {
	rest, ok := strings.CutPrefix(strings.ToLower(strings.TrimSpace(prefix)), "data:")
	if !ok {
		return "", false
	}
	mediaType, _, _ := strings.Cut(rest, ";")
	normalized, ok := supportedMediaTypes[strings.TrimSpace(mediaType)]
	return normalized, ok
}

func sniffMediaType(data string) string {
	// The first 64 base64 chars decode to 48 bytes, enough for every image magic number.
	head := data
	if len(head) > 64 {
		head = head[:64]
	}
	raw, err := base64.StdEncoding.DecodeString(head)
	if err != nil {
		return DefaultMediaType
	}
	if normalized, ok := supportedMediaTypes[mimetype.Detect(raw).String()]; ok {
		return normalized
	}
	return DefaultMediaType
}
