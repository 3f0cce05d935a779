// Package vision prepares uploaded images for the hosted vision model:
// decode, bounded downscale, JPEG re-encode. Keeping the encoded payload
// small matters because the image travels base64-inlined in the request.
package vision

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Image preprocessing errors
var (
	ErrEmptyImage   = errors.New("vision: empty image data")
	ErrInvalidImage = errors.New("vision: invalid image data")
)

// Preprocessing defaults.
const (
	// DefaultMaxEdge is the longest edge after downscaling. Vision models
	// see no benefit beyond this size and larger payloads slow the request.
	DefaultMaxEdge = 1024

	// jpegQuality is the re-encode quality.
	jpegQuality = 85
)

// DecodeImage decodes image data in any supported format (PNG, JPEG, GIF,
// WebP). This is a pure function with no side effects.
func DecodeImage(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	return img, nil
}

// DownscaleToFit scales an image down so its longest edge is at most
// maxEdge, preserving aspect ratio. Images already within bounds are
// returned unchanged. Uses CatmullRom resampling for quality.
func DownscaleToFit(img image.Image, maxEdge int) image.Image {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	longest := max(width, height)
	if longest <= maxEdge {
		return img
	}

	scale := float64(maxEdge) / float64(longest)
	newWidth := max(1, int(float64(width)*scale))
	newHeight := max(1, int(float64(height)*scale))

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

// EncodeJPEG re-encodes an image as JPEG.
func EncodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("vision: jpeg encode failed: %w", err)
	}
	return buf.Bytes(), nil
}

// Prepare runs the full upload pipeline: decode, downscale to fit maxEdge
// (DefaultMaxEdge when maxEdge <= 0), JPEG re-encode. Returns the encoded
// bytes and their MIME type.
func Prepare(data []byte, maxEdge int) ([]byte, string, error) {
	if maxEdge <= 0 {
		maxEdge = DefaultMaxEdge
	}

	img, err := DecodeImage(data)
	if err != nil {
		return nil, "", err
	}

	encoded, err := EncodeJPEG(DownscaleToFit(img, maxEdge))
	if err != nil {
		return nil, "", err
	}

	return encoded, "image/jpeg", nil
}
