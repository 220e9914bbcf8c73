package linear_model

import (
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
)

// nIterNoChange is the number of epochs without a tol improvement of the
// mean loss after which Fit stops.
const nIterNoChange = 5

// PassiveAggressiveClassifier is an online large-margin classifier. Every
// class gets a one-vs-rest weight vector updated one sample at a time: a
// sample inside the margin moves the weights just enough to fix it, bounded
// by C.
type PassiveAggressiveClassifier struct {
	state  *model.StateManager
	logger log.Logger

	// Hyperparameters
	C            float64 // aggressiveness bound
	fitIntercept bool
	maxIter      int     // passes over the training data
	tol          float64 // minimum mean-loss improvement per epoch
	randomState  int64   // shuffles each epoch when non-negative
	average      bool    // predict with the averaged weights
	loss         string  // "hinge" (PA-I) or "squared_hinge" (PA-II)

	// Learned parameters
	coef_         [][]float64 // nClasses × nFeatures
	intercept_    []float64
	avgCoef_      [][]float64
	avgIntercept_ []float64
	classes_      []int
	nIter_        int
	t_            int64 // samples seen, for averaging
	rng           *rand.Rand
}

// PassiveAggressiveOption configures a PassiveAggressiveClassifier.
type PassiveAggressiveOption func(*PassiveAggressiveClassifier)

// WithPAC sets the maximum step size.
func WithPAC(c float64) PassiveAggressiveOption {
	return func(pa *PassiveAggressiveClassifier) {
		pa.C = c
	}
}

// WithPAMaxIter sets the maximum number of epochs.
func WithPAMaxIter(maxIter int) PassiveAggressiveOption {
	return func(pa *PassiveAggressiveClassifier) {
		pa.maxIter = maxIter
	}
}

// WithPATol sets the stopping tolerance.
func WithPATol(tol float64) PassiveAggressiveOption {
	return func(pa *PassiveAggressiveClassifier) {
		pa.tol = tol
	}
}

// WithPAFitIntercept sets whether to fit an intercept.
func WithPAFitIntercept(fit bool) PassiveAggressiveOption {
	return func(pa *PassiveAggressiveClassifier) {
		pa.fitIntercept = fit
	}
}

// WithPALoss sets the loss, "hinge" or "squared_hinge".
func WithPALoss(loss string) PassiveAggressiveOption {
	return func(pa *PassiveAggressiveClassifier) {
		pa.loss = loss
	}
}

// WithPARandomState shuffles the samples of every epoch with seed.
func WithPARandomState(seed int64) PassiveAggressiveOption {
	return func(pa *PassiveAggressiveClassifier) {
		pa.randomState = seed
	}
}

// WithPAAverage makes predictions use the average of all weight vectors seen
// during training.
func WithPAAverage(on bool) PassiveAggressiveOption {
	return func(pa *PassiveAggressiveClassifier) {
		pa.average = on
	}
}

// NewPassiveAggressiveClassifier creates an unfitted classifier.
func NewPassiveAggressiveClassifier(opts ...PassiveAggressiveOption) *PassiveAggressiveClassifier {
	pa := &PassiveAggressiveClassifier{
		state:        model.NewStateManager(),
		logger:       log.GetLoggerWithName("PassiveAggressiveClassifier"),
		C:            1.0,
		fitIntercept: true,
		maxIter:      1000,
		tol:          1e-3,
		randomState:  -1,
		loss:         "hinge",
	}
	for _, opt := range opts {
		opt(pa)
	}
	return pa
}

func (pa *PassiveAggressiveClassifier) validateParams() error {
	switch {
	case pa.C <= 0:
		return scigoErrors.NewValidationError("C", "must be positive", pa.C)
	case pa.maxIter < 1:
		return scigoErrors.NewValidationError("max_iter", "must be at least 1", pa.maxIter)
	case pa.tol < 0:
		return scigoErrors.NewValidationError("tol", "must be non-negative", pa.tol)
	case pa.loss != "hinge" && pa.loss != "squared_hinge":
		return scigoErrors.NewValidationError("loss", "must be \"hinge\" or \"squared_hinge\"", pa.loss)
	}
	return nil
}

func (pa *PassiveAggressiveClassifier) checkTraining(op string, X, y mat.Matrix) error {
	nSamples, nFeatures := X.Dims()
	if nSamples == 0 || nFeatures == 0 {
		return scigoErrors.NewModelError(op, "empty data", scigoErrors.ErrEmptyData)
	}
	yRows, yCols := y.Dims()
	if yRows != nSamples {
		return scigoErrors.NewDimensionError(op, nSamples, yRows, 0)
	}
	if yCols != 1 {
		return scigoErrors.NewDimensionError(op, 1, yCols, 1)
	}
	return scigoErrors.CheckMatrix(op, X)
}

// reset returns to the unfitted state with zero weights sized for classes
// and nFeatures.
func (pa *PassiveAggressiveClassifier) reset(classes []int, nFeatures int) {
	pa.state.Reset()
	k := len(classes)
	pa.classes_ = classes
	pa.coef_ = make([][]float64, k)
	pa.avgCoef_ = make([][]float64, k)
	pa.intercept_ = make([]float64, k)
	pa.avgIntercept_ = make([]float64, k)
	for c := 0; c < k; c++ {
		pa.coef_[c] = make([]float64, nFeatures)
		pa.avgCoef_[c] = make([]float64, nFeatures)
	}
	pa.nIter_ = 0
	pa.t_ = 0
	pa.rng = nil
	if pa.randomState >= 0 {
		pa.rng = rand.New(rand.NewSource(pa.randomState))
	}
}

// Fit trains from scratch on X and the n×1 label column y, making passes
// until the mean loss stops improving by tol or maxIter is reached.
func (pa *PassiveAggressiveClassifier) Fit(X, y mat.Matrix) (err error) {
	defer scigoErrors.Recover(&err, "PassiveAggressiveClassifier.Fit")

	if err := pa.validateParams(); err != nil {
		return err
	}
	if err := pa.checkTraining("PassiveAggressiveClassifier.Fit", X, y); err != nil {
		return err
	}
	classes := uniqueLabels(y)
	if len(classes) < 2 {
		return scigoErrors.NewValueError("PassiveAggressiveClassifier.Fit",
			fmt.Sprintf("needs samples of at least 2 classes, got %d", len(classes)))
	}
	nSamples, nFeatures := X.Dims()
	pa.reset(classes, nFeatures)

	best := math.Inf(1)
	noChange := 0
	converged := false
	loss := 0.0
	for pa.nIter_ < pa.maxIter {
		loss = pa.epoch(X, y)
		pa.nIter_++
		if loss > best-pa.tol {
			noChange++
		} else {
			noChange = 0
		}
		best = math.Min(best, loss)
		if noChange >= nIterNoChange {
			converged = true
			break
		}
	}
	if !converged {
		scigoErrors.Warn(scigoErrors.NewConvergenceWarning("PassiveAggressiveClassifier", pa.nIter_,
			fmt.Sprintf("mean loss still improving by more than tol=%g; increase max_iter", pa.tol)))
	}
	pa.state.SetFitted(nFeatures, nSamples)

	pa.logger.Debug("PassiveAggressiveClassifier fitted",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, nSamples,
		log.FeaturesKey, nFeatures,
		log.ClassesKey, len(classes),
		log.IterationKey, pa.nIter_,
		log.LossKey, loss,
	)
	return nil
}

// PartialFit runs one pass over X and y without resetting the weights. The
// first call fixes the label set: classes when given, otherwise the labels
// of y. Later calls must use the same width and known labels.
func (pa *PassiveAggressiveClassifier) PartialFit(X, y mat.Matrix, classes []int) (err error) {
	defer scigoErrors.Recover(&err, "PassiveAggressiveClassifier.PartialFit")

	if err := pa.validateParams(); err != nil {
		return err
	}
	if err := pa.checkTraining("PassiveAggressiveClassifier.PartialFit", X, y); err != nil {
		return err
	}
	nSamples, nFeatures := X.Dims()

	if !pa.state.IsFitted() {
		if classes == nil {
			classes = uniqueLabels(y)
		} else {
			classes = sortedUnique(classes)
		}
		if len(classes) < 2 {
			return scigoErrors.NewValueError("PassiveAggressiveClassifier.PartialFit",
				fmt.Sprintf("needs at least 2 classes, got %d", len(classes)))
		}
		pa.reset(classes, nFeatures)
	} else if err := pa.state.RequireFeatures("PassiveAggressiveClassifier.PartialFit", nFeatures); err != nil {
		return err
	}
	for i := 0; i < nSamples; i++ {
		if pa.classIndex(int(y.At(i, 0))) < 0 {
			return scigoErrors.NewValidationError("y", "label not in the classes of the first PartialFit", y.At(i, 0))
		}
	}

	loss := pa.epoch(X, y)
	pa.nIter_++
	_, seen := pa.state.Dimensions()
	pa.state.SetFitted(nFeatures, seen+nSamples)

	pa.logger.Debug("PassiveAggressiveClassifier updated",
		log.OperationKey, log.OperationPartialFit,
		log.SamplesKey, nSamples,
		log.LossKey, loss,
	)
	return nil
}

// epoch makes one pass over the samples and returns the mean hinge loss
// summed over the one-vs-rest problems.
func (pa *PassiveAggressiveClassifier) epoch(X, y mat.Matrix) float64 {
	nSamples, nFeatures := X.Dims()
	order := make([]int, nSamples)
	for i := range order {
		order[i] = i
	}
	if pa.rng != nil {
		pa.rng.Shuffle(nSamples, func(a, b int) { order[a], order[b] = order[b], order[a] })
	}

	row := make([]float64, nFeatures)
	total := 0.0
	for _, i := range order {
		mat.Row(row, i, X)
		total += pa.update(row, pa.classIndex(int(y.At(i, 0))))
	}
	return total / float64(nSamples)
}

// update applies one passive-aggressive step per class for a sample of
// class index target and returns the summed hinge loss before the step.
func (pa *PassiveAggressiveClassifier) update(x []float64, target int) float64 {
	sqNorm := floats.Dot(x, x)
	if pa.fitIntercept {
		sqNorm++
	}
	total := 0.0
	for c := range pa.coef_ {
		sign := -1.0
		if c == target {
			sign = 1
		}
		margin := sign * (floats.Dot(pa.coef_[c], x) + pa.intercept_[c])
		hinge := math.Max(0, 1-margin)
		total += hinge
		if hinge == 0 || sqNorm == 0 {
			continue
		}

		var tau float64
		if pa.loss == "squared_hinge" {
			tau = hinge / (sqNorm + 1/(2*pa.C))
		} else {
			tau = math.Min(pa.C, hinge/sqNorm)
		}
		floats.AddScaled(pa.coef_[c], sign*tau, x)
		if pa.fitIntercept {
			pa.intercept_[c] += sign * tau
		}
	}

	// running mean of the weights after every sample
	pa.t_++
	step := 1 / float64(pa.t_)
	for c := range pa.coef_ {
		for j, w := range pa.coef_[c] {
			pa.avgCoef_[c][j] += (w - pa.avgCoef_[c][j]) * step
		}
		pa.avgIntercept_[c] += (pa.intercept_[c] - pa.avgIntercept_[c]) * step
	}
	return total
}

func (pa *PassiveAggressiveClassifier) classIndex(label int) int {
	for k, c := range pa.classes_ {
		if c == label {
			return k
		}
	}
	return -1
}

// DecisionFunction returns the one-vs-rest score of every class.
func (pa *PassiveAggressiveClassifier) DecisionFunction(X mat.Matrix) (mat.Matrix, error) {
	if err := pa.state.RequireFitted("PassiveAggressiveClassifier", "DecisionFunction"); err != nil {
		return nil, err
	}
	nSamples, nFeatures := X.Dims()
	if err := pa.state.RequireFeatures("PassiveAggressiveClassifier.DecisionFunction", nFeatures); err != nil {
		return nil, err
	}
	coef, intercept := pa.coef_, pa.intercept_
	if pa.average {
		coef, intercept = pa.avgCoef_, pa.avgIntercept_
	}
	scores := mat.NewDense(nSamples, len(pa.classes_), nil)
	row := make([]float64, nFeatures)
	for i := 0; i < nSamples; i++ {
		mat.Row(row, i, X)
		for c := range coef {
			scores.Set(i, c, floats.Dot(coef[c], row)+intercept[c])
		}
	}
	return scores, nil
}

// PredictProba returns the sigmoids of the decision scores normalised to sum
// to one. The values rank classes like Predict but are not calibrated.
func (pa *PassiveAggressiveClassifier) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	scores, err := pa.DecisionFunction(X)
	if err != nil {
		return nil, err
	}
	nSamples, nClasses := scores.Dims()
	proba := mat.NewDense(nSamples, nClasses, nil)
	row := make([]float64, nClasses)
	for i := 0; i < nSamples; i++ {
		mat.Row(row, i, scores)
		for c, s := range row {
			row[c] = sigmoid(s)
		}
		floats.Scale(1/floats.Sum(row), row)
		proba.SetRow(i, row)
	}
	return proba, nil
}

// Predict returns the class with the highest decision score per row. Ties
// go to the smaller label.
func (pa *PassiveAggressiveClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	scores, err := pa.DecisionFunction(X)
	if err != nil {
		return nil, err
	}
	nSamples, nClasses := scores.Dims()
	pred := mat.NewDense(nSamples, 1, nil)
	row := make([]float64, nClasses)
	for i := 0; i < nSamples; i++ {
		mat.Row(row, i, scores)
		pred.Set(i, 0, float64(pa.classes_[floats.MaxIdx(row)]))
	}
	return pred, nil
}

// Score returns the mean accuracy on X and y.
func (pa *PassiveAggressiveClassifier) Score(X, y mat.Matrix) (float64, error) {
	pred, err := pa.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.Accuracy(y, pred)
}

// Classes returns the sorted class labels.
func (pa *PassiveAggressiveClassifier) Classes() []int {
	return append([]int(nil), pa.classes_...)
}

// NIter returns the number of passes made over training data.
func (pa *PassiveAggressiveClassifier) NIter() int { return pa.nIter_ }

// Coef returns a copy of the weights used for prediction.
func (pa *PassiveAggressiveClassifier) Coef() [][]float64 {
	src := pa.coef_
	if pa.average {
		src = pa.avgCoef_
	}
	out := make([][]float64, len(src))
	for c := range src {
		out[c] = append([]float64(nil), src[c]...)
	}
	return out
}

// GetParams returns the model hyperparameters.
func (pa *PassiveAggressiveClassifier) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"C":             pa.C,
		"fit_intercept": pa.fitIntercept,
		"max_iter":      pa.maxIter,
		"tol":           pa.tol,
		"random_state":  pa.randomState,
		"average":       pa.average,
		"loss":          pa.loss,
	}
}

func sortedUnique(v []int) []int {
	seen := make(map[int]bool, len(v))
	out := make([]int, 0, len(v))
	for _, x := range v {
		if !seen[x] {
			seen[x] = true
			out = append(out, x)
		}
	}
	sort.Ints(out)
	return out
}

