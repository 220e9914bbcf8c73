// Command attrsel selects attributes from a CSV dataset, trains a classifier
// on the selected attributes and prints the selection report.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexflint/go-arg"

	"github.com/YuminosukeSato/scigo-attrsel/attrsel"
	"github.com/YuminosukeSato/scigo-attrsel/core/model"
	"github.com/YuminosukeSato/scigo-attrsel/dataset"
	scigoErrors "github.com/YuminosukeSato/scigo-attrsel/pkg/errors"
	"github.com/YuminosukeSato/scigo-attrsel/pkg/log"
	"github.com/YuminosukeSato/scigo-attrsel/plot"
	"github.com/YuminosukeSato/scigo-attrsel/sklearn/linear_model"
	"github.com/YuminosukeSato/scigo-attrsel/sklearn/meta"
	"github.com/YuminosukeSato/scigo-attrsel/sklearn/naive_bayes"
)

type args struct {
	Input       string   `arg:"--input,required,env:ATTRSEL_INPUT" help:"CSV file with a header row"`
	Class       string   `arg:"--class" help:"name of the class column (default: last column)"`
	Nominal     []string `arg:"--nominal" help:"columns to read as nominal even when they are numeric"`
	Evaluator   string   `arg:"--evaluator" default:"cfs" help:"cfs, infogain or correlation"`
	Search      string   `arg:"--search" default:"bestfirst" help:"bestfirst, greedy or ranker"`
	Direction   string   `arg:"--direction" default:"forward" help:"forward or backward (bestfirst, greedy)"`
	Bins        int      `arg:"--bins" default:"10" help:"equal-frequency bins for numeric attributes"`
	NumToSelect int      `arg:"--num-to-select" default:"-1" help:"attributes kept by ranker; -1 keeps all"`
	Threshold   float64  `arg:"--threshold" default:"-1e308" help:"ranker drops attributes scoring at or below this"`
	Classifier  string   `arg:"--classifier" default:"nb" help:"nb, logistic or pa (passive aggressive)"`
	Chart       string   `arg:"--chart" help:"write a chart of the selection; format from the extension (png, svg, pdf)"`
	LogLevel    string   `arg:"--log-level,env:ATTRSEL_LOG_LEVEL" default:"warn" help:"debug, info, warn or error"`
}

func (args) Version() string {
	return "attrsel 0.1.0"
}

func (args) Description() string {
	return `Attribute-selected classification: select attributes, train a classifier on them, report the selection.`
}

func main() {
	var a args
	arg.MustParse(&a)

	if err := log.SetupLogger(os.Stderr, a.LogLevel); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := run(a, os.Stdout); err != nil {
		slog.Error("attrsel failed", log.ErrAttr(err))
		os.Exit(1)
	}
}

func run(a args, out io.Writer) error {
	f, err := os.Open(a.Input)
	if err != nil {
		return scigoErrors.Wrap(err, "open input")
	}
	defer f.Close()

	opts := []dataset.CSVOption{dataset.WithNominalColumns(a.Nominal...)}
	if a.Class != "" {
		opts = append(opts, dataset.WithClassColumn(a.Class))
	}
	ds, err := dataset.LoadCSV(f, opts...)
	if err != nil {
		return err
	}

	clf, err := buildClassifier(a)
	if err != nil {
		return err
	}
	if err := clf.Fit(ds); err != nil {
		return err
	}
	sel, err := clf.AttributeSelection()
	if err != nil {
		return err
	}
	acc, err := clf.Score(ds)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, clf.String())
	fmt.Fprintf(out, "Training accuracy: %.4f\n", acc)

	if a.Chart != "" {
		if err := writeChart(sel, a.Chart); err != nil {
			return err
		}
		fmt.Fprintf(out, "Chart written to %s\n", a.Chart)
	}
	return nil
}

func buildClassifier(a args) (*meta.AttributeSelectedClassifier, error) {
	var direction attrsel.Direction
	switch strings.ToLower(a.Direction) {
	case "forward":
		direction = attrsel.Forward
	case "backward":
		direction = attrsel.Backward
	default:
		return nil, scigoErrors.NewValidationError("direction", "must be forward or backward", a.Direction)
	}

	var evaluator attrsel.Evaluator
	switch strings.ToLower(a.Evaluator) {
	case "cfs":
		evaluator = attrsel.NewCfsSubsetEval(attrsel.WithBins(a.Bins))
	case "infogain":
		evaluator = attrsel.NewInfoGainAttributeEval(a.Bins)
	case "correlation":
		evaluator = attrsel.NewCorrelationAttributeEval()
	default:
		return nil, scigoErrors.NewValidationError("evaluator", "must be cfs, infogain or correlation", a.Evaluator)
	}

	var search attrsel.SearchMethod
	switch strings.ToLower(a.Search) {
	case "bestfirst":
		search = attrsel.NewBestFirst(attrsel.WithDirection(direction))
	case "greedy":
		search = attrsel.NewGreedyStepwise(direction)
	case "ranker":
		search = attrsel.NewRanker(attrsel.WithNumToSelect(a.NumToSelect), attrsel.WithThreshold(a.Threshold))
	default:
		return nil, scigoErrors.NewValidationError("search", "must be bestfirst, greedy or ranker", a.Search)
	}

	var factory model.ClassifierFactory
	switch strings.ToLower(a.Classifier) {
	case "nb":
		factory = func() model.Classifier { return naive_bayes.NewGaussianNB() }
	case "logistic":
		factory = func() model.Classifier { return linear_model.NewLogisticRegression() }
	case "pa":
		factory = func() model.Classifier { return linear_model.NewPassiveAggressiveClassifier() }
	default:
		return nil, scigoErrors.NewValidationError("classifier", "must be nb, logistic or pa", a.Classifier)
	}

	return meta.NewAttributeSelectedClassifier(
		meta.WithEvaluator(evaluator),
		meta.WithSearch(search),
		meta.WithBaseClassifier(factory),
	), nil
}

func writeChart(sel *attrsel.Selection, path string) (err error) {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if format == "" {
		format = "png"
	}
	f, err := os.Create(path)
	if err != nil {
		return scigoErrors.Wrap(err, "create chart")
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return plot.RankingChart(sel, f, format)
}
