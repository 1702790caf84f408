package vision

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

const (
	labelBandHeight = 50
	labelBandWidth  = 220
	labelLineHeight = 14
)

var (
	Red   = color.RGBA{R: 255, A: 255}
	Green = color.RGBA{G: 255, A: 255}
	white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	black = color.RGBA{A: 255}
)

// Annotate draws box and a text label above it, returning the result as PNG bytes.
func Annotate(img image.Image, box BoundingBox, lines []string, outline color.RGBA) ([]byte, error) {
	mat, err := imageToMat(img)
	if err != nil {
		return nil, fmt.Errorf("convert image: %w", err)
	}
	defer mat.Close()

	gocv.Rectangle(&mat, box.Rect(), outline, 3)

	bandTop := box.Y - labelBandHeight
	if bandTop < 0 {
		bandTop = 0
	}
	band := image.Rect(box.X, bandTop, box.X+labelBandWidth, box.Y)
	if band.Dy() > 0 {
		gocv.Rectangle(&mat, band, black, -1)
	}

	textY := box.Y - labelBandHeight + 5
	if textY < 0 {
		textY = 0
	}
	for i, line := range lines {
		pos := image.Point{X: box.X + 5, Y: textY + (i+1)*labelLineHeight}
		gocv.PutText(&mat, line, pos, gocv.FontHersheyPlain, 1.0, white, 1)
	}

	buf, err := gocv.IMEncode(gocv.PNGFileExt, mat)
	if err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	defer buf.Close()

	out := make([]byte, buf.Len())
	copy(out, buf.GetBytes())
	return out, nil
}
