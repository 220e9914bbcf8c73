// Package naive_bayes implements naive Bayes classifiers.
package naive_bayes

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/scigo-attrsel/core/model"
	"github.com/YuminosukeSato/scigo-attrsel/metrics"
	scigoErrors "github.com/YuminosukeSato/scigo-attrsel/pkg/errors"
	"github.com/YuminosukeSato/scigo-attrsel/pkg/log"
)

// GaussianNB is a naive Bayes classifier with one normal distribution per
// class and feature.
type GaussianNB struct {
	state  *model.StateManager
	logger log.Logger

	// Hyperparameters
	varSmoothing float64 // fraction of the largest feature variance added to all variances

	// Learned parameters
	classes_    []int
	classPrior_ []float64   // nClasses
	theta_      [][]float64 // nClasses × nFeatures means
	var_        [][]float64 // nClasses × nFeatures variances
	epsilon_    float64
}

// GaussianNBOption configures a GaussianNB.
type GaussianNBOption func(*GaussianNB)

// WithVarSmoothing sets the portion of the largest variance added to every
// variance for stability.
func WithVarSmoothing(v float64) GaussianNBOption {
	return func(nb *GaussianNB) {
		nb.varSmoothing = v
	}
}

// NewGaussianNB creates an unfitted GaussianNB.
func NewGaussianNB(opts ...GaussianNBOption) *GaussianNB {
	nb := &GaussianNB{
		state:        model.NewStateManager(),
		logger:       log.GetLoggerWithName("GaussianNB"),
		varSmoothing: 1e-9,
	}
	for _, opt := range opts {
		opt(nb)
	}
	return nb
}

// Fit estimates class priors and per-class feature means and variances.
func (nb *GaussianNB) Fit(X, y mat.Matrix) (err error) {
	defer scigoErrors.Recover(&err, "GaussianNB.Fit")

	if nb.varSmoothing < 0 {
		return scigoErrors.NewValidationError("var_smoothing", "must be non-negative", nb.varSmoothing)
	}
	nSamples, nFeatures := X.Dims()
	if nSamples == 0 || nFeatures == 0 {
		return scigoErrors.NewModelError("GaussianNB.Fit", "empty data", scigoErrors.ErrEmptyData)
	}
	yRows, yCols := y.Dims()
	if yRows != nSamples {
		return scigoErrors.NewDimensionError("GaussianNB.Fit", nSamples, yRows, 0)
	}
	if yCols != 1 {
		return scigoErrors.NewDimensionError("GaussianNB.Fit", 1, yCols, 1)
	}
	if err := scigoErrors.CheckMatrix("GaussianNB.Fit", X); err != nil {
		return err
	}

	byClass := make(map[int][]int)
	for i := 0; i < nSamples; i++ {
		label := int(y.At(i, 0))
		byClass[label] = append(byClass[label], i)
	}
	classes := make([]int, 0, len(byClass))
	for c := range byClass {
		classes = append(classes, c)
	}
	sort.Ints(classes)

	// Smoothing is relative to the widest feature over all samples.
	column := make([]float64, nSamples)
	maxVar := 0.0
	for j := 0; j < nFeatures; j++ {
		mat.Col(column, j, X)
		mean := stat.Mean(column, nil)
		maxVar = math.Max(maxVar, stat.MomentAbout(2, column, mean, nil))
	}
	epsilon := nb.varSmoothing * maxVar
	if epsilon == 0 {
		epsilon = math.Max(nb.varSmoothing, 1e-12)
	}

	prior := make([]float64, len(classes))
	theta := make([][]float64, len(classes))
	variance := make([][]float64, len(classes))
	for k, c := range classes {
		rows := byClass[c]
		prior[k] = float64(len(rows)) / float64(nSamples)
		theta[k] = make([]float64, nFeatures)
		variance[k] = make([]float64, nFeatures)
		values := make([]float64, len(rows))
		for j := 0; j < nFeatures; j++ {
			for r, i := range rows {
				values[r] = X.At(i, j)
			}
			mean := stat.Mean(values, nil)
			theta[k][j] = mean
			variance[k][j] = stat.MomentAbout(2, values, mean, nil) + epsilon
		}
	}

	nb.classes_ = classes
	nb.classPrior_ = prior
	nb.theta_ = theta
	nb.var_ = variance
	nb.epsilon_ = epsilon
	nb.state.SetFitted(nFeatures, nSamples)

	nb.logger.Debug("GaussianNB fitted",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, nSamples,
		log.FeaturesKey, nFeatures,
		log.ClassesKey, len(classes),
	)
	return nil
}

// jointLogLikelihood returns log P(c) + log P(x|c) for every class.
func (nb *GaussianNB) jointLogLikelihood(row []float64) []float64 {
	jll := make([]float64, len(nb.classes_))
	for k := range nb.classes_ {
		sum := math.Log(nb.classPrior_[k])
		for j, x := range row {
			v := nb.var_[k][j]
			d := x - nb.theta_[k][j]
			sum -= 0.5 * (math.Log(2*math.Pi*v) + d*d/v)
		}
		jll[k] = sum
	}
	return jll
}

func (nb *GaussianNB) checkInput(method string, X mat.Matrix) error {
	if err := nb.state.RequireFitted("GaussianNB", method); err != nil {
		return err
	}
	_, cols := X.Dims()
	return nb.state.RequireFeatures("GaussianNB."+method, cols)
}

// PredictProba returns the posterior probability of every class.
func (nb *GaussianNB) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if err := nb.checkInput("PredictProba", X); err != nil {
		return nil, err
	}
	rows, cols := X.Dims()
	proba := mat.NewDense(rows, len(nb.classes_), nil)
	row := make([]float64, cols)
	for i := 0; i < rows; i++ {
		mat.Row(row, i, X)
		jll := nb.jointLogLikelihood(row)
		norm := floats.LogSumExp(jll)
		for k, l := range jll {
			proba.Set(i, k, math.Exp(l-norm))
		}
	}
	return proba, nil
}

// Predict returns the most probable class per row. Ties go to the smaller
// label.
func (nb *GaussianNB) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := nb.checkInput("Predict", X); err != nil {
		return nil, err
	}
	rows, cols := X.Dims()
	pred := mat.NewDense(rows, 1, nil)
	row := make([]float64, cols)
	for i := 0; i < rows; i++ {
		mat.Row(row, i, X)
		pred.Set(i, 0, float64(nb.classes_[floats.MaxIdx(nb.jointLogLikelihood(row))]))
	}
	return pred, nil
}

// Score returns the mean accuracy on X and y.
func (nb *GaussianNB) Score(X, y mat.Matrix) (float64, error) {
	pred, err := nb.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.Accuracy(y, pred)
}

// Classes returns the sorted class labels seen during Fit.
func (nb *GaussianNB) Classes() []int {
	return append([]int(nil), nb.classes_...)
}

// Theta returns a copy of the per-class feature means.
func (nb *GaussianNB) Theta() [][]float64 {
	out := make([][]float64, len(nb.theta_))
	for k := range nb.theta_ {
		out[k] = append([]float64(nil), nb.theta_[k]...)
	}
	return out
}

// GetParams returns the model hyperparameters.
func (nb *GaussianNB) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"var_smoothing": nb.varSmoothing,
	}
}
