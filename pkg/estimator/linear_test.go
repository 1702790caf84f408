package estimator

import (
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"FishBiomass/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleModel() *LinearModel {
	return NewLinearModel([5]float64{12.0, 9.0, 8.5, 18.0, 35.0}, -750)
}

func TestEstimateManualSample(t *testing.T) {
	features := entity.FeatureVector{Length1: 23.2, Length2: 25.4, Length3: 30.0, Height: 11.52, Width: 4.02}

	weight, err := sampleModel().Estimate(context.Background(), features)
	require.NoError(t, err)
	assert.InDelta(t, 360.06, weight, 1e-6)
}

func TestEstimateOutputDomainIsNonNegative(t *testing.T) {
	m := NewLinearModel([5]float64{62.3, -6.5, -29.0, 28.2, 22.4}, -499.6)
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 1000; i++ {
		var x [5]float64
		for j := range x {
			x[j] = rng.Float64() * 80
		}
		weight, err := m.Estimate(context.Background(), entity.FeatureVectorFrom(x))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, weight, 0.0)
	}

	weight, err := m.Estimate(context.Background(), entity.FeatureVector{})
	require.NoError(t, err)
	assert.Equal(t, 0.0, weight)
}

func TestEstimateRejectsNegativeFeatures(t *testing.T) {
	_, err := sampleModel().Estimate(context.Background(), entity.FeatureVector{Length1: -1})
	assert.ErrorIs(t, err, ErrNegativeFeature)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models", "model.json")
	require.NoError(t, sampleModel().Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, sampleModel().Coefficients, loaded.Coefficients)
	assert.Equal(t, -750.0, loaded.Intercept)
}

func TestLoadFailuresAreUnavailable(t *testing.T) {
	dir := t.TempDir()

	corrupt := filepath.Join(dir, "corrupt.json")
	require.NoError(t, os.WriteFile(corrupt, []byte("{not json"), 0o644))

	wrongOrder := filepath.Join(dir, "order.json")
	require.NoError(t, os.WriteFile(wrongOrder, []byte(`{
		"feature_names": ["Length2", "Length1", "Length3", "Height", "Width"],
		"coefficients": [1, 2, 3, 4, 5],
		"intercept": 0
	}`), 0o644))

	short := filepath.Join(dir, "short.json")
	require.NoError(t, os.WriteFile(short, []byte(`{
		"feature_names": ["Length1", "Length2", "Length3", "Height", "Width"],
		"coefficients": [1, 2, 3],
		"intercept": 0
	}`), 0o644))

	for _, path := range []string{filepath.Join(dir, "missing.json"), corrupt, wrongOrder, short} {
		_, err := Load(path)
		assert.ErrorIs(t, err, ErrUnavailable, path)
	}
}

func TestBundledModelArtifactLoads(t *testing.T) {
	m, err := Load(filepath.Join("..", "..", "models", "linear_regression_fish.json"))
	require.NoError(t, err)

	weight, err := m.Estimate(context.Background(), entity.FeatureVector{Length1: 23.2, Length2: 25.4, Length3: 30.0, Height: 11.52, Width: 4.02})
	require.NoError(t, err)
	assert.Greater(t, weight, 0.0)
}
