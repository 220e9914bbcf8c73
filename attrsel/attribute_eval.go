package attrsel

import (
	"github.com/YuminosukeSato/scigo-attrsel/dataset"
	scigoErrors "github.com/YuminosukeSato/scigo-attrsel/pkg/errors"
)

// InfoGainAttributeEval scores an attribute by its information gain with
// respect to the class, in bits. Numeric attributes are discretised into
// equal-frequency bins first.
type InfoGainAttributeEval struct {
	bins  int
	gains []float64
	class int
}

// NewInfoGainAttributeEval creates an InfoGainAttributeEval using bins
// equal-frequency bins for numeric attributes (DefaultBins if bins < 2).
func NewInfoGainAttributeEval(bins int) *InfoGainAttributeEval {
	if bins < 2 {
		bins = DefaultBins
	}
	return &InfoGainAttributeEval{bins: bins}
}

// Name implements Evaluator.
func (e *InfoGainAttributeEval) Name() string { return "InfoGainAttributeEval" }

// Build implements Evaluator. Every gain is computed here so that
// EvaluateAttribute is a read-only lookup.
func (e *InfoGainAttributeEval) Build(ds *dataset.Dataset) error {
	e.class = ds.ClassIndex()
	classCodes := columnCodes(ds, e.class, e.bins)
	e.gains = make([]float64, ds.NumAttributes())
	for _, j := range ds.FeatureIndices() {
		e.gains[j] = infoGain(columnCodes(ds, j, e.bins), classCodes)
	}
	return nil
}

// EvaluateAttribute implements AttributeEvaluator.
func (e *InfoGainAttributeEval) EvaluateAttribute(index int) (float64, error) {
	if e.gains == nil {
		return 0, scigoErrors.NewNotFittedError(e.Name(), "EvaluateAttribute")
	}
	if index < 0 || index >= len(e.gains) || index == e.class {
		return 0, scigoErrors.NewValidationError("index", "not a feature index of the built dataset", index)
	}
	return e.gains[index], nil
}

// CorrelationAttributeEval scores an attribute by its absolute Pearson
// correlation with the class. The nominal class is expanded into one
// indicator per value and the per-value correlations are averaged, weighted
// by class frequency. Nominal attributes are expanded the same way.
type CorrelationAttributeEval struct {
	ds *dataset.Dataset
}

// NewCorrelationAttributeEval creates a CorrelationAttributeEval.
func NewCorrelationAttributeEval() *CorrelationAttributeEval {
	return &CorrelationAttributeEval{}
}

// Name implements Evaluator.
func (e *CorrelationAttributeEval) Name() string { return "CorrelationAttributeEval" }

// Build implements Evaluator.
func (e *CorrelationAttributeEval) Build(ds *dataset.Dataset) error {
	e.ds = ds
	return nil
}

// EvaluateAttribute implements AttributeEvaluator.
func (e *CorrelationAttributeEval) EvaluateAttribute(index int) (float64, error) {
	if e.ds == nil {
		return 0, scigoErrors.NewNotFittedError(e.Name(), "EvaluateAttribute")
	}
	if index < 0 || index >= e.ds.NumAttributes() || index == e.ds.ClassIndex() {
		return 0, scigoErrors.NewValidationError("index", "not a feature index of the built dataset", index)
	}

	classCol := e.ds.Column(e.ds.ClassIndex())
	classIndicators, classWeights := indicators(classCol, e.ds.NumClasses())

	attr := e.ds.Attribute(index)
	col := e.ds.Column(index)
	if !attr.IsNominal() {
		return weightedCorrelation(col, classIndicators, classWeights), nil
	}

	attrIndicators, attrWeights := indicators(col, len(attr.Values))
	total := 0.0
	for v, ind := range attrIndicators {
		if attrWeights[v] == 0 {
			continue
		}
		total += attrWeights[v] * weightedCorrelation(ind, classIndicators, classWeights)
	}
	return total, nil
}

// indicators expands nominal codes into one 0/1 column per value, with the
// relative frequency of each value.
func indicators(codes []float64, numValues int) ([][]float64, []float64) {
	out := make([][]float64, numValues)
	weights := make([]float64, numValues)
	for v := range out {
		out[v] = make([]float64, len(codes))
	}
	for i, c := range codes {
		out[int(c)][i] = 1
		weights[int(c)]++
	}
	for v := range weights {
		weights[v] /= float64(len(codes))
	}
	return out, weights
}

func weightedCorrelation(x []float64, classIndicators [][]float64, classWeights []float64) float64 {
	total := 0.0
	for v, ind := range classIndicators {
		if classWeights[v] == 0 {
			continue
		}
		total += classWeights[v] * absCorrelation(x, ind)
	}
	return total
}
