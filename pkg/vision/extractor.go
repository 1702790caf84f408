package vision

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"gocv.io/x/gocv"
)

// Extractor finds the bounding box believed to enclose the photographed subject.
// It holds no mutable state and is safe for concurrent use.
type Extractor struct {
	params Params
}

func NewExtractor(params Params) (*Extractor, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("extractor params: %w", err)
	}
	return &Extractor{params: params}, nil
}

// Decode decodes data under the extractor's pixel limit.
func (e *Extractor) Decode(data []byte) (image.Image, string, error) {
	return Decode(data, e.params.MaxPixels)
}

// Extract converts img to an OpenCV Mat and runs ExtractMat.
func (e *Extractor) Extract(img image.Image, mode Mode) (BoundingBox, error) {
	mat, err := imageToMat(img)
	if err != nil {
		return BoundingBox{}, fmt.Errorf("convert image: %w", err)
	}
	defer mat.Close()

	return e.ExtractMat(mat, mode)
}

// ExtractMat runs grayscale, blur, Canny and external contour search on a BGR,
// BGRA or single-channel Mat, then applies the mode's selection policy.
func (e *Extractor) ExtractMat(mat gocv.Mat, mode Mode) (BoundingBox, error) {
	if mat.Empty() || mat.Cols() <= 0 || mat.Rows() <= 0 {
		return BoundingBox{}, ErrEmptyImage
	}

	cands := e.Candidates(mat)
	return SelectCandidate(cands, mat.Cols(), mat.Rows(), mode, e.params), nil
}

// Candidates returns the bounding rectangle and enclosed area of every external
// contour of the edge map, in the order OpenCV reports them.
func (e *Extractor) Candidates(mat gocv.Mat) []Candidate {
	gray := gocv.NewMat()
	defer gray.Close()
	switch mat.Channels() {
	case 1:
		mat.CopyTo(&gray)
	case 4:
		gocv.CvtColor(mat, &gray, gocv.ColorBGRAToGray)
	default:
		gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	k := e.params.BlurKernel
	gocv.GaussianBlur(gray, &blurred, image.Point{X: k, Y: k}, e.params.BlurSigma, e.params.BlurSigma, gocv.BorderDefault)

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(blurred, &edges, e.params.CannyLow, e.params.CannyHigh)

	contours := gocv.FindContours(edges, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	cands := make([]Candidate, 0, contours.Size())
	for i := 0; i < contours.Size(); i++ {
		contour := contours.At(i)
		cands = append(cands, Candidate{
			Rect:        gocv.BoundingRect(contour),
			ContourArea: gocv.ContourArea(contour),
		})
	}
	return cands
}

// imageToMat copies img into a BGR Mat, dropping alpha. Straight-alpha sources
// keep the colour of transparent pixels.
func imageToMat(img image.Image) (gocv.Mat, error) {
	if img == nil {
		return gocv.Mat{}, ErrEmptyImage
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return gocv.Mat{}, ErrEmptyImage
	}

	bgr := make([]byte, 0, 3*w*h)
	switch src := img.(type) {
	case *image.NRGBA:
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			row := src.Pix[src.PixOffset(bounds.Min.X, y):]
			for x := 0; x < w; x++ {
				p := row[4*x : 4*x+4]
				bgr = append(bgr, p[2], p[1], p[0])
			}
		}
	case *image.NRGBA64, *image.Paletted:
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				r, g, b := straightRGB(img.At(x, y))
				bgr = append(bgr, b, g, r)
			}
		}
	default:
		rgba, ok := img.(*image.RGBA)
		if !ok || rgba.Rect.Min != (image.Point{}) || rgba.Stride != 4*w {
			rgba = image.NewRGBA(image.Rect(0, 0, w, h))
			draw.Draw(rgba, rgba.Rect, img, bounds.Min, draw.Src)
		}
		for i := 0; i < 4*w*h; i += 4 {
			bgr = append(bgr, rgba.Pix[i+2], rgba.Pix[i+1], rgba.Pix[i])
		}
	}

	mat, err := gocv.NewMatFromBytes(h, w, gocv.MatTypeCV8UC3, bgr)
	if err != nil {
		return gocv.Mat{}, err
	}
	defer mat.Close()

	return mat.Clone(), nil
}

func straightRGB(c color.Color) (r, g, b uint8) {
	switch c := c.(type) {
	case color.NRGBA:
		return c.R, c.G, c.B
	case color.NRGBA64:
		return uint8(c.R >> 8), uint8(c.G >> 8), uint8(c.B >> 8)
	default:
		r32, g32, b32, _ := c.RGBA()
		return uint8(r32 >> 8), uint8(g32 >> 8), uint8(b32 >> 8)
	}
}
