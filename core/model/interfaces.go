// Package model provides the estimator interfaces shared by base classifiers
// and the attribute-selecting meta classifier.
package model

import (
	"gonum.org/v1/gonum/mat"
)

// Fitter is a model that learns from a feature matrix and a label column.
type Fitter interface {
	// Fit trains the model. y is an n×1 matrix of class labels.
	Fit(X, y mat.Matrix) error
}

// Predictor is a model that predicts one label per row.
type Predictor interface {
	// Predict returns an n×1 matrix of predicted labels.
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Classifier combines interfaces for classification models.
type Classifier interface {
	Fitter
	Predictor

	// PredictProba returns an n×len(Classes()) matrix of class probabilities.
	PredictProba(X mat.Matrix) (mat.Matrix, error)

	// Classes returns the sorted class labels seen during fitting.
	Classes() []int
}

// ClassifierFactory builds an unfitted classifier. Composite models call it
// once per Fit so that no state survives from an earlier fit.
type ClassifierFactory func() Classifier

// ParameterGetter is the interface for models that expose their parameters.
type ParameterGetter interface {
	// GetParams returns the model's hyperparameters.
	GetParams() map[string]interface{}
}
