// Package meta provides classifiers that wrap other classifiers.
package meta

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scigo-attrsel/attrsel"
	"github.com/YuminosukeSato/scigo-attrsel/core/model"
	"github.com/YuminosukeSato/scigo-attrsel/dataset"
	"github.com/YuminosukeSato/scigo-attrsel/metrics"
	scigoErrors "github.com/YuminosukeSato/scigo-attrsel/pkg/errors"
	"github.com/YuminosukeSato/scigo-attrsel/pkg/log"
	"github.com/YuminosukeSato/scigo-attrsel/sklearn/naive_bayes"
)

const modelName = "AttributeSelectedClassifier"

// AttributeSelectedClassifier reduces the training data to the attributes
// chosen by an attribute selection run and trains a base classifier on the
// result. Predictions are reduced the same way before they reach the base
// classifier. The fitted selection is available through AttributeSelection.
//
// A classifier is not safe for concurrent use by Fit and other methods.
type AttributeSelectedClassifier struct {
	state  *model.StateManager
	logger log.Logger
	id     string

	evaluator attrsel.Evaluator
	search    attrsel.SearchMethod
	factory   model.ClassifierFactory

	mu         sync.RWMutex
	selection  *attrsel.Selection
	classifier model.Classifier
	classAttr  dataset.Attribute
}

// Option configures an AttributeSelectedClassifier.
type Option func(*AttributeSelectedClassifier)

// WithEvaluator sets the attribute or subset evaluator.
func WithEvaluator(e attrsel.Evaluator) Option {
	return func(a *AttributeSelectedClassifier) {
		a.evaluator = e
	}
}

// WithSearch sets the search method. It must match the evaluator: subset
// searches need a subset evaluator and Ranker needs an attribute evaluator.
func WithSearch(s attrsel.SearchMethod) Option {
	return func(a *AttributeSelectedClassifier) {
		a.search = s
	}
}

// WithBaseClassifier sets the factory for the classifier trained on the
// reduced data. Every Fit builds a new instance.
func WithBaseClassifier(f model.ClassifierFactory) Option {
	return func(a *AttributeSelectedClassifier) {
		a.factory = f
	}
}

// WithLogger sets the logger. Estimator fields are added to it.
func WithLogger(l log.Logger) Option {
	return func(a *AttributeSelectedClassifier) {
		a.logger = l
	}
}

// NewAttributeSelectedClassifier creates an unfitted classifier. Without
// options it selects with CfsSubsetEval and BestFirst and trains GaussianNB.
func NewAttributeSelectedClassifier(opts ...Option) *AttributeSelectedClassifier {
	a := &AttributeSelectedClassifier{
		state:     model.NewStateManager(),
		id:        uuid.NewString(),
		evaluator: attrsel.NewCfsSubsetEval(),
		search:    attrsel.NewBestFirst(),
		factory: func() model.Classifier {
			return naive_bayes.NewGaussianNB()
		},
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = log.GetLoggerWithName(modelName)
	}
	a.logger = a.logger.With(
		log.ModelNameKey, modelName,
		log.EstimatorIDKey, a.id,
	)
	return a
}

// ID returns the estimator's unique identifier.
func (a *AttributeSelectedClassifier) ID() string { return a.id }

// Fit selects attributes on ds and trains a new base classifier on the
// selected attributes. The selection and the classifier replace the previous
// ones only when both steps succeed.
//
// Errors from the evaluator, the search and the base classifier are
// returned unchanged.
func (a *AttributeSelectedClassifier) Fit(ds *dataset.Dataset) error {
	if ds == nil {
		return scigoErrors.NewValueError(modelName+".Fit", "nil dataset")
	}
	if a.factory == nil {
		return scigoErrors.NewValidationError("base_classifier", "must not be nil", nil)
	}
	started := time.Now()
	a.logger.Debug("Fitting",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.SamplesKey, ds.NumInstances(),
		log.FeaturesKey, ds.NumFeatures(),
		log.ClassAttributeKey, ds.ClassAttribute().Name,
	)

	sel, err := attrsel.Select(ds, a.evaluator, a.search, attrsel.WithLogger(a.logger))
	if err != nil {
		a.logFailure(err)
		return err
	}
	reduced, err := sel.ReduceDimensionality(ds.Features())
	if err != nil {
		a.logFailure(err)
		return err
	}

	clf := a.factory()
	if clf == nil {
		return scigoErrors.NewValidationError("base_classifier", "factory returned nil", nil)
	}
	if err := clf.Fit(reduced, ds.Labels()); err != nil {
		a.logFailure(err)
		return err
	}

	a.mu.Lock()
	a.selection = sel
	a.classifier = clf
	a.classAttr = ds.ClassAttribute()
	a.state.SetFitted(ds.NumFeatures(), ds.NumInstances())
	a.mu.Unlock()

	a.logger.Info("Model fitted",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, ds.NumInstances(),
		log.FeaturesKey, ds.NumFeatures(),
		log.SelectedKey, sel.NumberAttributesSelected(),
		log.SelectedNamesKey, sel.SelectedNames(),
		log.DurationMsKey, time.Since(started).Milliseconds(),
	)
	return nil
}

func (a *AttributeSelectedClassifier) logFailure(err error) {
	a.logger.Error("Fit failed", err,
		log.OperationKey, log.OperationFit,
		log.ErrorCodeKey, errorCode(err),
	)
}

func errorCode(err error) string {
	var (
		de *scigoErrors.DimensionError
		ve *scigoErrors.ValidationError
		va *scigoErrors.ValueError
	)
	switch {
	case scigoErrors.Is(err, scigoErrors.ErrNotFitted):
		return log.ErrorNotFitted
	case scigoErrors.Is(err, scigoErrors.ErrEmptyData):
		return log.ErrorEmptyData
	case scigoErrors.As(err, &de):
		return log.ErrorDimensionMismatch
	case scigoErrors.As(err, &ve), scigoErrors.As(err, &va):
		return log.ErrorInvalidInput
	}
	return log.ErrorTrainingFailed
}

// fitted returns the current selection and classifier, or a NotFittedError
// naming method.
func (a *AttributeSelectedClassifier) fitted(method string) (*attrsel.Selection, model.Classifier, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if err := a.state.RequireFitted(modelName, method); err != nil {
		return nil, nil, err
	}
	return a.selection, a.classifier, nil
}

// AttributeSelection returns the selection computed by the most recent
// successful Fit. Before the first Fit it returns a NotFittedError, which
// matches errors.ErrNotFitted under errors.Is.
func (a *AttributeSelectedClassifier) AttributeSelection() (*attrsel.Selection, error) {
	sel, _, err := a.fitted("AttributeSelection")
	if err != nil {
		return nil, err
	}
	return sel, nil
}

// BaseClassifier returns the classifier trained by the most recent
// successful Fit.
func (a *AttributeSelectedClassifier) BaseClassifier() (model.Classifier, error) {
	_, clf, err := a.fitted("BaseClassifier")
	if err != nil {
		return nil, err
	}
	return clf, nil
}

// Predict returns the predicted class label of every row of X. X has the
// feature layout of dataset.Features on the training data.
func (a *AttributeSelectedClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	sel, clf, err := a.fitted("Predict")
	if err != nil {
		return nil, err
	}
	reduced, err := sel.ReduceDimensionality(X)
	if err != nil {
		return nil, err
	}
	pred, err := clf.Predict(reduced)
	if err != nil {
		return nil, err
	}
	rows, _ := X.Dims()
	a.logger.Debug("Predicted",
		log.OperationKey, log.OperationPredict,
		log.PhaseKey, log.PhaseInference,
		log.PredsKey, rows,
	)
	return pred, nil
}

// PredictProba returns class probabilities in the order of Classes.
func (a *AttributeSelectedClassifier) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	sel, clf, err := a.fitted("PredictProba")
	if err != nil {
		return nil, err
	}
	reduced, err := sel.ReduceDimensionality(X)
	if err != nil {
		return nil, err
	}
	return clf.PredictProba(reduced)
}

// PredictInstance predicts the class label of a single feature row.
func (a *AttributeSelectedClassifier) PredictInstance(row []float64) (float64, error) {
	sel, clf, err := a.fitted("PredictInstance")
	if err != nil {
		return 0, err
	}
	reduced, err := sel.ReduceInstance(row)
	if err != nil {
		return 0, err
	}
	pred, err := clf.Predict(mat.NewDense(1, len(reduced), reduced))
	if err != nil {
		return 0, err
	}
	return pred.At(0, 0), nil
}

// Score returns the accuracy on ds.
func (a *AttributeSelectedClassifier) Score(ds *dataset.Dataset) (float64, error) {
	if ds == nil {
		return 0, scigoErrors.NewValueError(modelName+".Score", "nil dataset")
	}
	pred, err := a.Predict(ds.Features())
	if err != nil {
		return 0, err
	}
	acc, err := metrics.Accuracy(ds.Labels(), pred)
	if err != nil {
		return 0, err
	}
	a.logger.Debug("Scored",
		log.OperationKey, log.OperationScore,
		log.SamplesKey, ds.NumInstances(),
		log.AccuracyKey, acc,
	)
	return acc, nil
}

// Classes returns the class labels known to the base classifier, or nil
// before Fit.
func (a *AttributeSelectedClassifier) Classes() []int {
	_, clf, err := a.fitted("Classes")
	if err != nil {
		return nil
	}
	return clf.Classes()
}

// GetParams returns the evaluator, the search and the base classifier's
// parameters prefixed with "classifier__".
func (a *AttributeSelectedClassifier) GetParams() map[string]interface{} {
	params := map[string]interface{}{}
	if a.evaluator != nil {
		params["evaluator"] = a.evaluator.Name()
	}
	if a.search != nil {
		params["search"] = a.search.Name()
	}
	if a.factory != nil {
		base := a.factory()
		params["classifier"] = fmt.Sprintf("%T", base)
		if pg, ok := base.(model.ParameterGetter); ok {
			for k, v := range pg.GetParams() {
				params["classifier__"+k] = v
			}
		}
	}
	return params
}

// String renders the selection report followed by the base classifier.
func (a *AttributeSelectedClassifier) String() string {
	sel, clf, err := a.fitted("String")
	if err != nil {
		return modelName + ": not fitted"
	}
	a.mu.RLock()
	class := a.classAttr
	a.mu.RUnlock()

	var b strings.Builder
	b.WriteString(sel.String())
	fmt.Fprintf(&b, "\nHeader of reduced data: %s", strings.Join(sel.SelectedNames(), ", "))
	fmt.Fprintf(&b, ", %s\n", class.Name)
	fmt.Fprintf(&b, "\nClassifier model: %T\n", clf)
	if pg, ok := clf.(model.ParameterGetter); ok {
		params := pg.GetParams()
		keys := make([]string, 0, len(params))
		for k := range params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "  %s = %v\n", k, params[k])
		}
	}
	return b.String()
}
