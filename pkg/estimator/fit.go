package estimator

import (
	"errors"
	"fmt"
	"math"

	"FishBiomass/internal/entity"

	"gonum.org/v1/gonum/mat"
)

const minFitRows = len(entity.FeatureNames) + 1

var ErrNotEnoughRows = errors.New("estimator: not enough rows to fit")

// Fit solves the least squares problem [1 X] * beta = y by QR decomposition.
func Fit(rows [][5]float64, weights []float64) (*LinearModel, error) {
	if len(rows) != len(weights) {
		return nil, fmt.Errorf("row count mismatch: %d features vs %d weights", len(rows), len(weights))
	}
	n := len(rows)
	if n < minFitRows {
		return nil, fmt.Errorf("%w: need %d, got %d", ErrNotEnoughRows, minFitRows, n)
	}

	cols := len(entity.FeatureNames) + 1
	A := mat.NewDense(n, cols, nil)
	for i, row := range rows {
		A.Set(i, 0, 1)
		for j, v := range row {
			A.Set(i, j+1, v)
		}
	}
	b := mat.NewVecDense(n, append([]float64(nil), weights...))

	var qr mat.QR
	qr.Factorize(A)

	var params mat.VecDense
	if err := qr.SolveVecTo(&params, false, b); err != nil {
		return nil, fmt.Errorf("solve least squares: %w", err)
	}

	var coef [5]float64
	for j := range coef {
		coef[j] = params.AtVec(j + 1)
	}
	model := NewLinearModel(coef, params.AtVec(0))
	model.TrainedRows = n

	if err := model.Validate(); err != nil {
		return nil, err
	}
	return model, nil
}

// MeanAbsoluteError evaluates the unclamped model on a labelled set.
func MeanAbsoluteError(m *LinearModel, rows [][5]float64, weights []float64) float64 {
	if len(rows) == 0 {
		return 0
	}
	var sum float64
	for i, row := range rows {
		sum += math.Abs(m.Raw(entity.FeatureVectorFrom(row)) - weights[i])
	}
	return sum / float64(len(rows))
}
