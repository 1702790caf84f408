// Package estimator maps a morphometric feature vector to a fish weight in grams.
//
// The fitted model is an opaque artifact to the rest of the service; callers
// depend only on the Estimator capability.
package estimator

import (
	"context"
	"errors"

	"FishBiomass/internal/entity"
)

var (
	ErrUnavailable     = errors.New("estimator: model unavailable")
	ErrNegativeFeature = errors.New("estimator: features must be non-negative")
)

type Estimator interface {
	Estimate(ctx context.Context, features entity.FeatureVector) (float64, error)
}
