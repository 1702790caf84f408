package estimator

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"FishBiomass/internal/entity"

	"gonum.org/v1/gonum/floats"
)

// LinearModel is an ordinary least squares fit over the five morphometric features.
// It is immutable after loading and safe to share across goroutines.
type LinearModel struct {
	FeatureNames []string  `json:"feature_names"`
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
	TrainedRows  int       `json:"trained_rows,omitempty"`
	HoldoutMAE   float64   `json:"holdout_mae,omitempty"`
}

func NewLinearModel(coefficients [5]float64, intercept float64) *LinearModel {
	names := entity.FeatureNames
	return &LinearModel{
		FeatureNames: names[:],
		Coefficients: coefficients[:],
		Intercept:    intercept,
	}
}

// Load reads and validates a model artifact. Every failure wraps ErrUnavailable.
func Load(path string) (*LinearModel, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrUnavailable, path, err)
	}

	var m LinearModel
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrUnavailable, path, err)
	}

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, path, err)
	}

	return &m, nil
}

func (m *LinearModel) Validate() error {
	if len(m.FeatureNames) != len(entity.FeatureNames) {
		return fmt.Errorf("expected %d features, got %d", len(entity.FeatureNames), len(m.FeatureNames))
	}
	for i, name := range entity.FeatureNames {
		if m.FeatureNames[i] != name {
			return fmt.Errorf("feature %d is %q, expected %q", i, m.FeatureNames[i], name)
		}
	}
	if len(m.Coefficients) != len(entity.FeatureNames) {
		return fmt.Errorf("expected %d coefficients, got %d", len(entity.FeatureNames), len(m.Coefficients))
	}
	for _, v := range append([]float64{m.Intercept}, m.Coefficients...) {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("non-finite parameter %v", v)
		}
	}
	return nil
}

// Save writes the artifact as indented JSON, creating parent directories.
func (m *LinearModel) Save(path string) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	raw, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(raw, '\n'), 0o644)
}

// Raw returns the unclamped linear response.
func (m *LinearModel) Raw(features entity.FeatureVector) float64 {
	x := features.Values()
	return m.Intercept + floats.Dot(m.Coefficients, x[:])
}

// Estimate returns the predicted weight in grams, clamped at zero.
func (m *LinearModel) Estimate(_ context.Context, features entity.FeatureVector) (float64, error) {
	if !features.IsNonNegative() {
		return 0, ErrNegativeFeature
	}
	return math.Max(0, m.Raw(features)), nil
}
