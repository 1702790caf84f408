package vision

import (
	"image"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func candidate(x, y, w, h int) Candidate {
	return Candidate{Rect: image.Rect(x, y, x+w, y+h), ContourArea: float64(w * h)}
}

func TestSelectCandidateNoContoursFallsBack(t *testing.T) {
	for _, mode := range []Mode{ModeSimple, ModeFiltered} {
		box := SelectCandidate(nil, 640, 480, mode, DefaultParams())
		assert.Equal(t, BoundingBox{Width: 640, Height: 480, Fallback: true}, box, mode.String())
	}
}

func TestSelectLargestIgnoresShape(t *testing.T) {
	cands := []Candidate{
		candidate(0, 0, 20, 5),
		candidate(10, 10, 50, 50),
		candidate(100, 100, 60, 10),
	}

	box := SelectCandidate(cands, 200, 200, ModeSimple, DefaultParams())
	assert.Equal(t, BoundingBox{X: 10, Y: 10, Width: 50, Height: 50}, box)
}

func TestSelectLargestUsesContourAreaNotBoxArea(t *testing.T) {
	diagonal := Candidate{Rect: image.Rect(0, 0, 100, 100), ContourArea: 50}
	solid := Candidate{Rect: image.Rect(0, 0, 40, 40), ContourArea: 1600}

	box := SelectCandidate([]Candidate{diagonal, solid}, 200, 200, ModeSimple, DefaultParams())
	assert.Equal(t, 40, box.Width)
}

func TestSelectLargestTieKeepsFirst(t *testing.T) {
	cands := []Candidate{candidate(1, 1, 10, 10), candidate(50, 50, 10, 10)}

	box := SelectCandidate(cands, 100, 100, ModeSimple, DefaultParams())
	assert.Equal(t, 1, box.X)
}

func TestSelectFilteredDropsSmallAndSquare(t *testing.T) {
	// frame 200x100 -> minimum area 1000
	cands := []Candidate{
		candidate(0, 0, 90, 10),   // area 900, too small
		candidate(10, 10, 60, 60), // square
		candidate(20, 30, 120, 40),
	}

	box := SelectCandidate(cands, 200, 100, ModeFiltered, DefaultParams())
	assert.Equal(t, BoundingBox{X: 20, Y: 30, Width: 120, Height: 40}, box)
}

func TestSelectFilteredMaximisesAreaTimesAspect(t *testing.T) {
	cands := []Candidate{
		candidate(0, 0, 100, 50), // 5000 * 2 = 10000
		candidate(0, 0, 150, 30), // 4500 * 5 = 22500
		candidate(0, 0, 120, 60), // 7200 * 2 = 14400
	}

	box := SelectCandidate(cands, 400, 200, ModeFiltered, DefaultParams())
	assert.Equal(t, 150, box.Width)
	assert.Equal(t, 30, box.Height)
}

func TestSelectFilteredTieKeepsFirst(t *testing.T) {
	cands := []Candidate{candidate(5, 5, 100, 40), candidate(60, 60, 40, 100)}

	box := SelectCandidate(cands, 200, 200, ModeFiltered, DefaultParams())
	assert.Equal(t, 5, box.X)
}

func TestSelectFilteredNothingSurvives(t *testing.T) {
	cands := []Candidate{candidate(0, 0, 50, 50), candidate(0, 0, 4, 2)}

	box := SelectCandidate(cands, 300, 150, ModeFiltered, DefaultParams())
	assert.True(t, box.Fallback)
	assert.Equal(t, 300, box.Width)
	assert.Equal(t, 150, box.Height)
}

func TestSelectFilteredNeverViolatesThresholds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	params := DefaultParams()

	for iter := 0; iter < 300; iter++ {
		w, h := 50+rng.Intn(600), 50+rng.Intn(600)
		cands := make([]Candidate, rng.Intn(12))
		for i := range cands {
			cw, ch := 1+rng.Intn(w), 1+rng.Intn(h)
			x, y := rng.Intn(w-cw+1), rng.Intn(h-ch+1)
			cands[i] = candidate(x, y, cw, ch)
		}

		box := SelectCandidate(cands, w, h, ModeFiltered, params)
		if box.Fallback {
			assert.Equal(t, w, box.Width)
			assert.Equal(t, h, box.Height)
			continue
		}
		assert.GreaterOrEqual(t, float64(box.Area()), params.MinAreaFraction*float64(w*h))
		assert.GreaterOrEqual(t, box.Aspect(), params.MinAspect)
		assert.LessOrEqual(t, box.X+box.Width, w)
		assert.LessOrEqual(t, box.Y+box.Height, h)
	}
}

func TestParamsValidate(t *testing.T) {
	assert.NoError(t, DefaultParams().Validate())

	p := DefaultParams()
	p.BlurKernel = 4
	assert.Error(t, p.Validate())

	p = DefaultParams()
	p.CannyHigh = 10
	assert.Error(t, p.Validate())

	p = DefaultParams()
	p.MinAspect = 0.5
	assert.Error(t, p.Validate())
}

func TestBoundingBoxAspect(t *testing.T) {
	assert.Equal(t, 3.0, BoundingBox{Width: 30, Height: 10}.Aspect())
	assert.Equal(t, 3.0, BoundingBox{Width: 10, Height: 30}.Aspect())
	assert.Equal(t, 7.0, BoundingBox{Width: 7, Height: 0}.Aspect())
}
