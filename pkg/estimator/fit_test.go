package estimator

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitRecoversExactCoefficients(t *testing.T) {
	want := [5]float64{20.5, -3.0, 7.25, 15.0, 40.0}
	const intercept = -320.0

	rng := rand.New(rand.NewSource(3))
	rows := make([][5]float64, 60)
	weights := make([]float64, len(rows))
	for i := range rows {
		for j := range rows[i] {
			rows[i][j] = 5 + rng.Float64()*40
		}
		weights[i] = intercept
		for j, c := range want {
			weights[i] += c * rows[i][j]
		}
	}

	m, err := Fit(rows, weights)
	require.NoError(t, err)

	assert.InDelta(t, intercept, m.Intercept, 1e-6)
	for j := range want {
		assert.InDelta(t, want[j], m.Coefficients[j], 1e-6)
	}
	assert.Equal(t, 60, m.TrainedRows)
	assert.InDelta(t, 0, MeanAbsoluteError(m, rows, weights), 1e-6)
}

func TestFitNeedsEnoughRows(t *testing.T) {
	_, err := Fit(make([][5]float64, 3), make([]float64, 3))
	assert.ErrorIs(t, err, ErrNotEnoughRows)
}

func TestFitRowCountMismatch(t *testing.T) {
	_, err := Fit(make([][5]float64, 10), make([]float64, 9))
	assert.Error(t, err)
}

func TestFitRankDeficient(t *testing.T) {
	rows := make([][5]float64, 10)
	weights := make([]float64, 10)
	for i := range rows {
		rows[i] = [5]float64{1, 1, 1, 1, 1}
		weights[i] = float64(i)
	}

	_, err := Fit(rows, weights)
	assert.Error(t, err)
}

func TestMeanAbsoluteErrorEmpty(t *testing.T) {
	assert.Equal(t, 0.0, MeanAbsoluteError(sampleModel(), nil, nil))
}
