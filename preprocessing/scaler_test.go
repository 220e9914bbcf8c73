package preprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/scigo-attrsel/pkg/errors"
)

func TestStandardScaler(t *testing.T) {
	X := mat.NewDense(4, 3, []float64{
		1, 10, 5,
		2, 20, 5,
		3, 30, 5,
		4, 40, 5,
	})

	s := NewStandardScalerDefault()
	assert.False(t, s.IsFitted())
	Xs, err := s.FitTransform(X)
	require.NoError(t, err)
	assert.True(t, s.IsFitted())
	assert.InDeltaSlice(t, []float64{2.5, 25, 5}, s.Mean, 1e-12)
	assert.Equal(t, 1.0, s.Scale[2], "constant column keeps unit scale")

	col := make([]float64, 4)
	for j := 0; j < 2; j++ {
		mat.Col(col, j, Xs)
		mean := stat.Mean(col, nil)
		assert.InDelta(t, 0, mean, 1e-12)
		assert.InDelta(t, 1, stat.MomentAbout(2, col, mean, nil), 1e-12)
	}
	mat.Col(col, 2, Xs)
	assert.Equal(t, []float64{0, 0, 0, 0}, col)

	back, err := s.InverseTransform(Xs)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(X, back, 1e-12))
}

func TestStandardScaler_Options(t *testing.T) {
	X := mat.NewDense(2, 1, []float64{2, 6})

	s := NewStandardScaler(false, true)
	Xs, err := s.FitTransform(X)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, Xs.At(0, 0), 1e-12)
	assert.InDelta(t, 3.0, Xs.At(1, 0), 1e-12)

	s = NewStandardScaler(true, false)
	Xs, err = s.FitTransform(X)
	require.NoError(t, err)
	assert.InDelta(t, -2.0, Xs.At(0, 0), 1e-12)
}

func TestStandardScaler_Errors(t *testing.T) {
	s := NewStandardScalerDefault()
	_, err := s.Transform(mat.NewDense(1, 1, nil))
	assert.ErrorIs(t, err, errors.ErrNotFitted)

	assert.ErrorIs(t, s.Fit(&mat.Dense{}), errors.ErrEmptyData)

	require.NoError(t, s.Fit(mat.NewDense(2, 2, []float64{1, 2, 3, 4})))
	var de *errors.DimensionError
	_, err = s.Transform(mat.NewDense(1, 3, nil))
	assert.True(t, errors.As(err, &de))
}
