package vision

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	ErrDecode = errors.New("vision: cannot decode image")
	// ErrTooManyPixels is always returned wrapped together with ErrDecode.
	ErrTooManyPixels = errors.New("vision: image dimensions exceed pixel limit")
)

// Decode decodes an uploaded photograph. The header is read first and images
// whose width*height exceeds maxPixels are rejected before any pixel buffer is
// allocated; maxPixels <= 0 disables the check. Failures wrap ErrDecode.
func Decode(data []byte, maxPixels int) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", fmt.Errorf("%w: empty payload", ErrDecode)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, "", fmt.Errorf("%w: %s image has no pixels", ErrDecode, format)
	}
	if maxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > int64(maxPixels) {
		return nil, "", fmt.Errorf("%w: %w: %s image is %dx%d, limit is %d pixels",
			ErrDecode, ErrTooManyPixels, format, cfg.Width, cfg.Height, maxPixels)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrDecode, err)
	}

	if b := img.Bounds(); b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, "", fmt.Errorf("%w: %s image has no pixels", ErrDecode, format)
	}

	return img, format, nil
}
