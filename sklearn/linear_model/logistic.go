// Package linear_model implements linear classifiers.
package linear_model

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scigo-attrsel/core/model"
	"github.com/YuminosukeSato/scigo-attrsel/metrics"
	scigoErrors "github.com/YuminosukeSato/scigo-attrsel/pkg/errors"
	"github.com/YuminosukeSato/scigo-attrsel/pkg/log"
	"github.com/YuminosukeSato/scigo-attrsel/preprocessing"
)

// LogisticRegression is an L2-regularised logistic regression classifier
// trained by gradient descent. More than two classes are handled
// one-vs-rest.
type LogisticRegression struct {
	state  *model.StateManager // State management (composition)
	logger log.Logger

	// Hyperparameters
	penalty      string  // "l2" or "none"
	C            float64 // Inverse regularization strength
	fitIntercept bool
	learningRate float64 // initial step size, decays as lr/(1+0.1·iter)
	maxIter      int
	tol          float64 // stop when the largest gradient component is below tol
	randomState  int64   // seed for the initial weights; negative starts from zero
	standardize  bool

	// Model parameters
	coef_      [][]float64 // one row for binary problems, one per class otherwise
	intercept_ []float64
	classes_   []int
	nIter_     []int
	scaler     *preprocessing.StandardScaler // nil unless standardize
}

// LogisticRegressionOption is a functional option for LogisticRegression.
type LogisticRegressionOption func(*LogisticRegression)

// NewLogisticRegression creates a new LogisticRegression classifier.
func NewLogisticRegression(opts ...LogisticRegressionOption) *LogisticRegression {
	lr := &LogisticRegression{
		state:        model.NewStateManager(),
		logger:       log.GetLoggerWithName("LogisticRegression"),
		penalty:      "l2",
		C:            1.0,
		fitIntercept: true,
		learningRate: 1.0,
		maxIter:      200,
		tol:          1e-4,
		randomState:  -1,
		standardize:  true,
	}
	for _, opt := range opts {
		opt(lr)
	}
	return lr
}

// WithLRPenalty sets the regularization type, "l2" or "none".
func WithLRPenalty(penalty string) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.penalty = penalty
	}
}

// WithLRC sets the inverse regularization strength.
func WithLRC(c float64) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.C = c
	}
}

// WithLogisticFitIntercept sets whether to fit an intercept.
func WithLogisticFitIntercept(fit bool) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.fitIntercept = fit
	}
}

// WithLRLearningRate sets the initial gradient step.
func WithLRLearningRate(rate float64) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.learningRate = rate
	}
}

// WithLRMaxIter sets the maximum number of iterations per binary problem.
func WithLRMaxIter(maxIter int) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.maxIter = maxIter
	}
}

// WithLRTol sets the tolerance for the stopping criterion.
func WithLRTol(tol float64) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.tol = tol
	}
}

// WithLRRandomState seeds small random initial weights.
func WithLRRandomState(seed int64) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.randomState = seed
	}
}

// WithLRStandardize sets whether features are standardised before training.
// Coefficients then refer to the standardised features.
func WithLRStandardize(on bool) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.standardize = on
	}
}

func (lr *LogisticRegression) validateParams() error {
	switch {
	case lr.penalty != "l2" && lr.penalty != "none":
		return scigoErrors.NewValidationError("penalty", "must be \"l2\" or \"none\"", lr.penalty)
	case lr.C <= 0:
		return scigoErrors.NewValidationError("C", "must be positive", lr.C)
	case lr.learningRate <= 0:
		return scigoErrors.NewValidationError("learning_rate", "must be positive", lr.learningRate)
	case lr.maxIter < 1:
		return scigoErrors.NewValidationError("max_iter", "must be at least 1", lr.maxIter)
	case lr.tol < 0:
		return scigoErrors.NewValidationError("tol", "must be non-negative", lr.tol)
	}
	return nil
}

// Fit trains the model on X and the n×1 label column y.
func (lr *LogisticRegression) Fit(X, y mat.Matrix) (err error) {
	defer scigoErrors.Recover(&err, "LogisticRegression.Fit")
	raw := X

	if err := lr.validateParams(); err != nil {
		return err
	}
	nSamples, nFeatures := X.Dims()
	if nSamples == 0 || nFeatures == 0 {
		return scigoErrors.NewModelError("LogisticRegression.Fit", "empty data", scigoErrors.ErrEmptyData)
	}
	yRows, yCols := y.Dims()
	if yRows != nSamples {
		return scigoErrors.NewDimensionError("LogisticRegression.Fit", nSamples, yRows, 0)
	}
	if yCols != 1 {
		return scigoErrors.NewDimensionError("LogisticRegression.Fit", 1, yCols, 1)
	}
	if err := scigoErrors.CheckMatrix("LogisticRegression.Fit", X); err != nil {
		return err
	}

	classes := uniqueLabels(y)
	if len(classes) < 2 {
		return scigoErrors.NewValueError("LogisticRegression.Fit",
			fmt.Sprintf("needs samples of at least 2 classes, got %d", len(classes)))
	}

	var scaler *preprocessing.StandardScaler
	if lr.standardize {
		scaler = preprocessing.NewStandardScalerDefault()
		Xs, err := scaler.FitTransform(X)
		if err != nil {
			return err
		}
		X = Xs
	}

	var rng *rand.Rand
	if lr.randomState >= 0 {
		rng = rand.New(rand.NewSource(lr.randomState))
	}

	// Binary problems fit the second class against the first.
	positives := classes[1:]
	if len(classes) > 2 {
		positives = classes
	}
	coef := make([][]float64, len(positives))
	intercept := make([]float64, len(positives))
	nIter := make([]int, len(positives))
	target := mat.NewVecDense(nSamples, nil)
	for k, c := range positives {
		for i := 0; i < nSamples; i++ {
			if int(y.At(i, 0)) == c {
				target.SetVec(i, 1)
			} else {
				target.SetVec(i, 0)
			}
		}
		w := make([]float64, nFeatures)
		if rng != nil {
			for j := range w {
				w[j] = rng.NormFloat64() * 0.01
			}
		}
		iters, converged := lr.descend(X, target, w, &intercept[k])
		coef[k] = w
		nIter[k] = iters
		if !converged {
			scigoErrors.Warn(scigoErrors.NewConvergenceWarning("LogisticRegression", iters,
				fmt.Sprintf("gradient did not fall below tol=%g for class %d; increase max_iter", lr.tol, c)))
		}
	}

	lr.coef_ = coef
	lr.intercept_ = intercept
	lr.classes_ = classes
	lr.nIter_ = nIter
	lr.scaler = scaler
	lr.state.SetFitted(nFeatures, nSamples)

	if lr.logger.Enabled(context.Background(), log.LevelDebug) {
		fields := []any{
			log.OperationKey, log.OperationFit,
			log.SamplesKey, nSamples,
			log.FeaturesKey, nFeatures,
			log.ClassesKey, len(classes),
			log.IterationKey, nIter,
		}
		if len(classes) == 2 {
			if loss, ok := lr.trainingLogLoss(raw, y); ok {
				fields = append(fields, log.LossKey, loss)
			}
		}
		lr.logger.Debug("LogisticRegression fitted", fields...)
	}
	return nil
}

// trainingLogLoss returns the binary log loss of the fitted model on its
// training data. ok is false when the loss cannot be computed.
func (lr *LogisticRegression) trainingLogLoss(X, y mat.Matrix) (loss float64, ok bool) {
	proba, err := lr.PredictProba(X)
	if err != nil {
		return 0, false
	}
	dense, isDense := proba.(*mat.Dense)
	if !isDense {
		return 0, false
	}
	nSamples, _ := y.Dims()
	yBin := mat.NewDense(nSamples, 1, nil)
	for i := 0; i < nSamples; i++ {
		if int(y.At(i, 0)) == lr.classes_[1] {
			yBin.Set(i, 0, 1)
		}
	}
	loss, err = metrics.BinaryLogLoss(yBin, dense.ColView(1))
	if err != nil {
		return 0, false
	}
	return loss, true
}

// descend runs gradient descent on one binary problem, updating w and b in
// place. It returns the iterations used and whether tol was reached.
func (lr *LogisticRegression) descend(X mat.Matrix, target *mat.VecDense, w []float64, b *float64) (int, bool) {
	nSamples, nFeatures := X.Dims()
	weights := mat.NewVecDense(nFeatures, w)
	z := mat.NewVecDense(nSamples, nil)
	residual := mat.NewVecDense(nSamples, nil)
	grad := mat.NewVecDense(nFeatures, nil)
	lambda := 0.0
	if lr.penalty == "l2" {
		lambda = 1.0 / (lr.C * float64(nSamples))
	}

	for iter := 0; iter < lr.maxIter; iter++ {
		z.MulVec(X, weights)
		for i := 0; i < nSamples; i++ {
			residual.SetVec(i, sigmoid(z.AtVec(i)+*b)-target.AtVec(i))
		}
		grad.MulVec(X.T(), residual)
		grad.ScaleVec(1/float64(nSamples), grad)
		if lambda > 0 {
			grad.AddScaledVec(grad, lambda, weights)
		}
		gradB := 0.0
		if lr.fitIntercept {
			gradB = mat.Sum(residual) / float64(nSamples)
		}

		maxGrad := math.Abs(gradB)
		if n := mat.Norm(grad, math.Inf(1)); n > maxGrad {
			maxGrad = n
		}
		if maxGrad < lr.tol {
			return iter, true
		}

		step := lr.learningRate / (1.0 + 0.1*float64(iter))
		weights.AddScaledVec(weights, -step, grad)
		*b -= step * gradB
	}
	return lr.maxIter, false
}

func uniqueLabels(y mat.Matrix) []int {
	rows, _ := y.Dims()
	seen := make(map[int]bool)
	for i := 0; i < rows; i++ {
		seen[int(y.At(i, 0))] = true
	}
	classes := make([]int, 0, len(seen))
	for c := range seen {
		classes = append(classes, c)
	}
	sort.Ints(classes)
	return classes
}

func (lr *LogisticRegression) checkInput(method string, X mat.Matrix) error {
	if err := lr.state.RequireFitted("LogisticRegression", method); err != nil {
		return err
	}
	_, cols := X.Dims()
	return lr.state.RequireFeatures("LogisticRegression."+method, cols)
}

// PredictProba returns probability estimates for each class. One-vs-rest
// scores are normalised to sum to one.
func (lr *LogisticRegression) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if err := lr.checkInput("PredictProba", X); err != nil {
		return nil, err
	}
	if lr.scaler != nil {
		Xs, err := lr.scaler.Transform(X)
		if err != nil {
			return nil, err
		}
		X = Xs
	}
	nSamples, _ := X.Dims()
	nClasses := len(lr.classes_)
	probas := mat.NewDense(nSamples, nClasses, nil)
	scores := mat.NewVecDense(nSamples, nil)

	for k := range lr.coef_ {
		scores.MulVec(X, mat.NewVecDense(len(lr.coef_[k]), lr.coef_[k]))
		col := k
		if nClasses == 2 {
			col = 1
		}
		for i := 0; i < nSamples; i++ {
			probas.Set(i, col, sigmoid(scores.AtVec(i)+lr.intercept_[k]))
		}
	}

	row := make([]float64, nClasses)
	for i := 0; i < nSamples; i++ {
		if nClasses == 2 {
			probas.Set(i, 0, 1-probas.At(i, 1))
			continue
		}
		mat.Row(row, i, probas)
		sum := floats.Sum(row)
		if sum == 0 {
			floats.AddConst(1/float64(nClasses), row)
		} else {
			floats.Scale(1/sum, row)
		}
		probas.SetRow(i, row)
	}
	return probas, nil
}

// Predict returns the most probable class per row.
func (lr *LogisticRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	proba, err := lr.PredictProba(X)
	if err != nil {
		return nil, err
	}
	nSamples, nClasses := proba.Dims()
	predictions := mat.NewDense(nSamples, 1, nil)
	row := make([]float64, nClasses)
	for i := 0; i < nSamples; i++ {
		mat.Row(row, i, proba)
		predictions.Set(i, 0, float64(lr.classes_[floats.MaxIdx(row)]))
	}
	return predictions, nil
}

// Score returns the mean accuracy on the given test data and labels.
func (lr *LogisticRegression) Score(X, y mat.Matrix) (float64, error) {
	predictions, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.Accuracy(y, predictions)
}

// Classes returns the sorted class labels seen during Fit.
func (lr *LogisticRegression) Classes() []int {
	return append([]int(nil), lr.classes_...)
}

// NIter returns the iterations used per binary problem.
func (lr *LogisticRegression) NIter() []int {
	return append([]int(nil), lr.nIter_...)
}

// Coef returns a copy of the fitted coefficients.
func (lr *LogisticRegression) Coef() [][]float64 {
	out := make([][]float64, len(lr.coef_))
	for k := range lr.coef_ {
		out[k] = append([]float64(nil), lr.coef_[k]...)
	}
	return out
}

// GetParams returns the model hyperparameters.
func (lr *LogisticRegression) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"penalty":       lr.penalty,
		"C":             lr.C,
		"fit_intercept": lr.fitIntercept,
		"learning_rate": lr.learningRate,
		"max_iter":      lr.maxIter,
		"tol":           lr.tol,
		"random_state":  lr.randomState,
		"standardize":   lr.standardize,
	}
}

// SetParams sets the model hyperparameters. Nothing changes unless every
// value has the right type and the result is valid.
func (lr *LogisticRegression) SetParams(params map[string]interface{}) error {
	next := *lr
	for key, value := range params {
		ok := true
		switch key {
		case "penalty":
			next.penalty, ok = value.(string)
		case "C":
			next.C, ok = value.(float64)
		case "fit_intercept":
			next.fitIntercept, ok = value.(bool)
		case "learning_rate":
			next.learningRate, ok = value.(float64)
		case "max_iter":
			next.maxIter, ok = value.(int)
		case "tol":
			next.tol, ok = value.(float64)
		case "random_state":
			next.randomState, ok = value.(int64)
		case "standardize":
			next.standardize, ok = value.(bool)
		default:
			return scigoErrors.NewValidationError(key, "unknown parameter", value)
		}
		if !ok {
			return scigoErrors.NewValidationError(key, fmt.Sprintf("unexpected type %T", value), value)
		}
	}
	if err := next.validateParams(); err != nil {
		return err
	}
	*lr = next
	return nil
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1.0 / (1.0 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1.0 + e)
}
