// Package media converts image files to and from the data URLs stored in
// photo records.
package media

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
)

// MaxImageBytes caps the size of an imported image.
const MaxImageBytes = 10 << 20

var (
	ErrNotImage       = errors.New("file is not a supported image")
	ErrTooLarge       = fmt.Errorf("image exceeds %d MB", MaxImageBytes>>20)
	ErrInvalidDataURL = errors.New("invalid data URL")
)

var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// EncodeDataURL sniffs the image type and returns a base64 data URL.
func EncodeDataURL(data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrNotImage
	}
	if len(data) > MaxImageBytes {
		return "", ErrTooLarge
	}
	mime := http.DetectContentType(data)
	if !allowedTypes[mime] {
		return "", fmt.Errorf("%w (detected %s)", ErrNotImage, mime)
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// ReadFile loads an image file and encodes it with EncodeDataURL.
func ReadFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if info.Size() > MaxImageBytes {
		return "", ErrTooLarge
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	return EncodeDataURL(data)
}

// DecodeDataURL returns the media type and bytes of a base64 data URL.
func DecodeDataURL(s string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return "", nil, ErrInvalidDataURL
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, ErrInvalidDataURL
	}
	mime, isBase64 := strings.CutSuffix(header, ";base64")
	if !isBase64 {
		return "", nil, fmt.Errorf("%w: only base64 payloads are supported", ErrInvalidDataURL)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrInvalidDataURL, err)
	}
	return mime, data, nil
}

// Describe summarizes a data URL for listings, e.g. "image/png, 12.3 KB".
func Describe(dataURL string) string {
	mime, data, err := DecodeDataURL(dataURL)
	if err != nil {
		return "unreadable"
	}
	return fmt.Sprintf("%s, %.1f KB", mime, float64(len(data))/1024)
}
