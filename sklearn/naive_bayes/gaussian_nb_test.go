package naive_bayes

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	scigoErrors "github.com/YuminosukeSato/scigo-attrsel/pkg/errors"
)

func TestGaussianNB_Fit(t *testing.T) {
	X := mat.NewDense(6, 2, []float64{
		1, 10,
		2, 12,
		3, 14,
		7, 10,
		8, 12,
		9, 14,
	})
	y := mat.NewDense(6, 1, []float64{0, 0, 0, 1, 1, 1})

	nb := NewGaussianNB()
	require.NoError(t, nb.Fit(X, y))
	assert.True(t, nb.state.IsFitted())
	assert.Equal(t, []int{0, 1}, nb.Classes())

	theta := nb.Theta()
	assert.InDeltaSlice(t, []float64{2, 12}, theta[0], 1e-12)
	assert.InDeltaSlice(t, []float64{8, 12}, theta[1], 1e-12)
	assert.InDeltaSlice(t, []float64{0.5, 0.5}, nb.classPrior_, 1e-12)
	// population variance of {1,2,3} is 2/3
	assert.InDelta(t, 2.0/3.0, nb.var_[0][0], 1e-6)

	score, err := nb.Score(X, y)
	require.NoError(t, err)
	assert.Equal(t, 1.0, score)
}

func TestGaussianNB_PredictProba(t *testing.T) {
	X := mat.NewDense(8, 1, []float64{-2.1, -1.9, -2.0, -2.2, 2.0, 2.1, 1.9, 2.2})
	y := mat.NewDense(8, 1, []float64{3, 3, 3, 3, 5, 5, 5, 5})

	nb := NewGaussianNB()
	require.NoError(t, nb.Fit(X, y))
	assert.Equal(t, []int{3, 5}, nb.Classes())

	points := mat.NewDense(3, 1, []float64{-2, 0, 2})
	proba, err := nb.PredictProba(points)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		assert.InDelta(t, 1.0, proba.At(i, 0)+proba.At(i, 1), 1e-12)
	}
	assert.Greater(t, proba.At(0, 0), 0.99)
	assert.InDelta(t, 0.5, proba.At(1, 0), 0.05)
	assert.Greater(t, proba.At(2, 1), 0.99)

	pred, err := nb.Predict(points)
	require.NoError(t, err)
	assert.Equal(t, 3.0, pred.At(0, 0))
	assert.Equal(t, 5.0, pred.At(2, 0))
}

func TestGaussianNB_ConstantFeature(t *testing.T) {
	// zero variance everywhere still gives finite probabilities
	X := mat.NewDense(4, 1, []float64{1, 1, 1, 1})
	y := mat.NewDense(4, 1, []float64{0, 1, 0, 1})

	nb := NewGaussianNB()
	require.NoError(t, nb.Fit(X, y))
	proba, err := nb.PredictProba(mat.NewDense(1, 1, []float64{1}))
	require.NoError(t, err)
	assert.False(t, math.IsNaN(proba.At(0, 0)))
	assert.InDelta(t, 0.5, proba.At(0, 0), 1e-9)
}

func TestGaussianNB_SingleClass(t *testing.T) {
	nb := NewGaussianNB()
	require.NoError(t, nb.Fit(mat.NewDense(2, 1, []float64{1, 2}), mat.NewDense(2, 1, []float64{4, 4})))
	pred, err := nb.Predict(mat.NewDense(1, 1, []float64{100}))
	require.NoError(t, err)
	assert.Equal(t, 4.0, pred.At(0, 0))
}

func TestGaussianNB_Errors(t *testing.T) {
	nb := NewGaussianNB()
	X := mat.NewDense(2, 2, []float64{1, 2, 3, 4})

	_, err := nb.Predict(X)
	assert.ErrorIs(t, err, scigoErrors.ErrNotFitted)
	var nf *scigoErrors.NotFittedError
	require.True(t, scigoErrors.As(err, &nf))
	assert.Equal(t, "GaussianNB", nf.ModelName)

	err = nb.Fit(&mat.Dense{}, &mat.Dense{})
	assert.ErrorIs(t, err, scigoErrors.ErrEmptyData)

	var de *scigoErrors.DimensionError
	err = nb.Fit(X, mat.NewDense(3, 1, nil))
	assert.True(t, scigoErrors.As(err, &de))

	require.NoError(t, nb.Fit(X, mat.NewDense(2, 1, []float64{0, 1})))
	_, err = nb.PredictProba(mat.NewDense(1, 3, nil))
	require.True(t, scigoErrors.As(err, &de))
	assert.Equal(t, 2, de.Expected)

	var ve *scigoErrors.ValidationError
	err = NewGaussianNB(WithVarSmoothing(-1)).Fit(X, mat.NewDense(2, 1, []float64{0, 1}))
	assert.True(t, scigoErrors.As(err, &ve))
	assert.Equal(t, map[string]interface{}{"var_smoothing": 1e-9}, NewGaussianNB().GetParams())
}

func TestGaussianNB_RefitReplacesState(t *testing.T) {
	nb := NewGaussianNB()
	require.NoError(t, nb.Fit(mat.NewDense(2, 1, []float64{0, 1}), mat.NewDense(2, 1, []float64{0, 1})))
	require.NoError(t, nb.Fit(mat.NewDense(3, 2, []float64{0, 0, 1, 1, 2, 2}), mat.NewDense(3, 1, []float64{7, 8, 9})))
	assert.Equal(t, []int{7, 8, 9}, nb.Classes())
	nFeatures, nSamples := nb.state.Dimensions()
	assert.Equal(t, 2, nFeatures)
	assert.Equal(t, 3, nSamples)
}
