// Package morphometry maps a detected pixel bounding box to the morphometric
// inputs of the weight model.
//
// A single photograph carries no scale reference, so the mapping is a fixed
// linear pixel-to-centimetre proxy rather than a calibrated measurement.
package morphometry

import "FishBiomass/internal/entity"

const (
	Length1Divisor = 10.0
	Length2Divisor = 9.0
	Length3Divisor = 8.0
	HeightDivisor  = 10.0
	WidthDivisor   = 20.0
)

// ToFeatures derives the feature vector from box dimensions only; position is irrelevant.
func ToFeatures(widthPx, heightPx float64) entity.FeatureVector {
	return entity.FeatureVector{
		Length1: widthPx / Length1Divisor,
		Length2: widthPx / Length2Divisor,
		Length3: widthPx / Length3Divisor,
		Height:  heightPx / HeightDivisor,
		Width:   widthPx / WidthDivisor,
	}
}
