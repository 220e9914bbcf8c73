// Package scigo provides attribute selection for classification in Go.
//
// The central type is meta.AttributeSelectedClassifier. It runs an attribute
// selection on the training data, trains a base classifier on the selected
// attributes and keeps the selection so callers can inspect which attributes
// the model uses.
//
// # Installation
//
//	go get github.com/YuminosukeSato/scigo-attrsel
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//	    "os"
//
//	    "github.com/YuminosukeSato/scigo-attrsel/dataset"
//	    "github.com/YuminosukeSato/scigo-attrsel/sklearn/meta"
//	)
//
//	func main() {
//	    f, err := os.Open("weather.csv")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    defer f.Close()
//
//	    ds, err := dataset.LoadCSV(f)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    clf := meta.NewAttributeSelectedClassifier()
//	    if err := clf.Fit(ds); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    sel, _ := clf.AttributeSelection()
//	    fmt.Println("Selected:", sel.SelectedNames())
//	}
//
// # Packages
//
//   - attrsel: Evaluators (CfsSubsetEval, InfoGainAttributeEval,
//     CorrelationAttributeEval), searches (BestFirst, GreedyStepwise, Ranker)
//     and the Selection result
//   - dataset: Attribute metadata, instances and CSV loading
//   - sklearn/meta: AttributeSelectedClassifier
//   - sklearn/naive_bayes: GaussianNB
//   - sklearn/linear_model: LogisticRegression, PassiveAggressiveClassifier
//   - metrics: Classification metrics
//   - preprocessing: StandardScaler
//   - plot: Charts of a Selection
//   - core/model: Core interfaces and fitted state
//   - core/parallel: Parallel processing utilities
//   - pkg/errors, pkg/log: Error types and structured logging
//
// The attrsel command runs a selection and a classifier on a CSV file.
//
// # License
//
// Released under the MIT License.
package scigo
