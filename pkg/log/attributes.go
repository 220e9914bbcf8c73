// Package log defines standard attribute keys for attribute selection and
// classification.
//
// Keys follow a hierarchical "category.name" convention so that log output
// can be filtered by prefix.

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the estimator type.
	// Examples: "AttributeSelectedClassifier", "GaussianNB"
	ModelNameKey = "model.name"

	// EstimatorIDKey is a per-instance identifier (a UUID).
	EstimatorIDKey = "estimator.id"

	// OperationKey is one of the Operation* values below.
	OperationKey = "ml.operation"

	// ComponentKey names the package doing the work.
	ComponentKey = "ml.component"

	// PhaseKey is one of the Phase* values below.
	PhaseKey = "ml.phase"
)

// Data Shape
const (
	// SamplesKey is the number of instances.
	SamplesKey = "data.samples"

	// FeaturesKey is the number of non-class attributes.
	FeaturesKey = "data.features"

	// ClassesKey is the number of class labels.
	ClassesKey = "data.classes"

	// ClassAttributeKey is the name of the class attribute.
	ClassAttributeKey = "data.class_attribute"
)

// Attribute Selection
const (
	// EvaluatorKey names the subset or attribute evaluator.
	EvaluatorKey = "selection.evaluator"

	// SearchKey names the search method.
	SearchKey = "selection.search"

	// SelectedKey is the number of attributes kept.
	SelectedKey = "selection.selected"

	// SelectedNamesKey lists the names of the kept attributes.
	SelectedNamesKey = "selection.selected_names"

	// MeritKey is the merit of the chosen subset.
	MeritKey = "selection.merit"

	// EvaluatedKey is the number of subsets or attributes scored.
	EvaluatedKey = "selection.evaluated"

	// CacheHitsKey is the number of subset evaluations served from cache.
	CacheHitsKey = "selection.cache_hits"
)

// Performance Metrics
const (
	// DurationMsKey is the wall time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// AccuracyKey is classification accuracy in [0, 1].
	AccuracyKey = "metrics.accuracy"

	// LossKey is a training loss value.
	LossKey = "metrics.loss"

	// IterationKey is the current iteration of an iterative process.
	IterationKey = "training.iteration"

	// PredsKey is the number of predictions made.
	PredsKey = "preds.count"
)

// Error Context
const (
	// ErrorCodeKey is one of the Error* codes below.
	ErrorCodeKey = "error.code"

	// ErrorTypeKey is the Go type name of the error.
	ErrorTypeKey = "error.type"
)

// Standard attribute values.
const (
	OperationFit        = "fit"
	OperationPartialFit = "partial_fit"
	OperationPredict    = "predict"
	OperationSelect     = "select"
	OperationScore      = "score"

	PhaseTraining  = "training"
	PhaseInference = "inference"

	ErrorNotFitted         = "NOT_FITTED"
	ErrorDimensionMismatch = "DIMENSION_MISMATCH"
	ErrorEmptyData         = "EMPTY_DATA"
	ErrorInvalidInput      = "INVALID_INPUT"
	ErrorEmptySelection    = "EMPTY_SELECTION"
	ErrorTrainingFailed    = "TRAINING_FAILED"
)
