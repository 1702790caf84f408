// Package vision locates the subject of a photograph with classical edge and
// contour analysis and renders the detection back onto the image.
package vision

import (
	"errors"
	"fmt"
	"image"
)

// Mode selects the contour selection policy applied after contour extraction.
type Mode int

const (
	// ModeSimple picks the contour with the largest enclosed area, whatever its shape.
	ModeSimple Mode = iota
	// ModeFiltered drops small and blob-like candidates and maximises area * aspect.
	ModeFiltered
)

func (m Mode) String() string {
	switch m {
	case ModeSimple:
		return "simple"
	case ModeFiltered:
		return "filtered"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

var ErrEmptyImage = errors.New("vision: image has no pixels")

// BoundingBox is an axis-aligned pixel rectangle inside the image.
//
// Fallback is set when no contour qualified and the box is the whole frame.
// Callers of ModeFiltered only consume Width and Height; position is not
// meaningful for them and the fallback box is reported at the origin.
type BoundingBox struct {
	X        int  `json:"x"`
	Y        int  `json:"y"`
	Width    int  `json:"width"`
	Height   int  `json:"height"`
	Fallback bool `json:"fallback"`
}

func (b BoundingBox) Rect() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.Width, b.Y+b.Height)
}

func (b BoundingBox) Area() int {
	return b.Width * b.Height
}

// Aspect is the ratio of the longer side to the shorter one, the shorter side clamped to 1.
func (b BoundingBox) Aspect() float64 {
	return aspect(b.Width, b.Height)
}

func boxFromRect(r image.Rectangle) BoundingBox {
	return BoundingBox{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}

func frameBox(width, height int) BoundingBox {
	return BoundingBox{Width: width, Height: height, Fallback: true}
}

// Candidate is one external contour reduced to what the selection policies need.
type Candidate struct {
	Rect        image.Rectangle
	ContourArea float64
}

// Params tunes the extraction pipeline.
type Params struct {
	BlurKernel      int     // Gaussian kernel side, odd
	BlurSigma       float64 // 0 lets OpenCV derive sigma from the kernel size
	CannyLow        float32
	CannyHigh       float32
	MinAreaFraction float64 // filtered mode: minimum bbox area as a fraction of the frame
	MinAspect       float64 // filtered mode: minimum long/short side ratio
	MaxPixels       int     // decode limit on width*height, 0 for none
}

// DefaultMaxPixels bounds a decoded upload to roughly 160 MB of RGBA.
const DefaultMaxPixels = 40_000_000

// DefaultParams returns the parameters the weight model's feature mapping was designed around.
func DefaultParams() Params {
	return Params{
		BlurKernel:      5,
		BlurSigma:       0,
		CannyLow:        50,
		CannyHigh:       150,
		MinAreaFraction: 0.05,
		MinAspect:       1.5,
		MaxPixels:       DefaultMaxPixels,
	}
}

func (p Params) Validate() error {
	if p.BlurKernel <= 0 || p.BlurKernel%2 == 0 {
		return fmt.Errorf("blur kernel must be a positive odd number, got %d", p.BlurKernel)
	}
	if p.CannyLow < 0 || p.CannyHigh < p.CannyLow {
		return fmt.Errorf("invalid canny thresholds %v/%v", p.CannyLow, p.CannyHigh)
	}
	if p.MinAreaFraction < 0 || p.MinAreaFraction > 1 {
		return fmt.Errorf("min area fraction must be within [0,1], got %v", p.MinAreaFraction)
	}
	if p.MinAspect < 1 {
		return fmt.Errorf("min aspect must be >= 1, got %v", p.MinAspect)
	}
	if p.MaxPixels < 0 {
		return fmt.Errorf("max pixels must not be negative, got %d", p.MaxPixels)
	}
	return nil
}

func aspect(w, h int) float64 {
	long, short := w, h
	if short > long {
		long, short = short, long
	}
	if short < 1 {
		short = 1
	}
	return float64(long) / float64(short)
}
