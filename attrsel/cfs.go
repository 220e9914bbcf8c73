package attrsel

import (
	"math"
	"sort"

	"github.com/YuminosukeSato/scigo-attrsel/dataset"
	scigoErrors "github.com/YuminosukeSato/scigo-attrsel/pkg/errors"
)

// CfsSubsetEval scores a subset by correlation-based feature selection:
// subsets whose attributes correlate strongly with the class and weakly with
// each other score highest.
//
//	merit(S) = Σ r_cf / sqrt(k + 2·Σ_{i<j} r_ff)
//
// Every correlation is symmetric uncertainty over discretised attributes.
// Attribute-attribute correlations are computed on first use and memoised.
type CfsSubsetEval struct {
	bins              int
	locallyPredictive bool

	ds         *dataset.Dataset
	codes      [][]int   // per attribute, nil for the class
	classCorr  []float64 // r_cf per attribute
	featCorr   [][]float64
	classIndex int
}

// CfsOption configures a CfsSubsetEval.
type CfsOption func(*CfsSubsetEval)

// WithBins sets the number of equal-frequency bins for numeric attributes.
func WithBins(bins int) CfsOption {
	return func(c *CfsSubsetEval) { c.bins = bins }
}

// WithLocallyPredictive enables adding, after search, attributes that
// correlate with the class more than with any selected attribute.
func WithLocallyPredictive(on bool) CfsOption {
	return func(c *CfsSubsetEval) { c.locallyPredictive = on }
}

// NewCfsSubsetEval creates a CfsSubsetEval. Locally predictive attributes
// are added by default.
func NewCfsSubsetEval(opts ...CfsOption) *CfsSubsetEval {
	c := &CfsSubsetEval{bins: DefaultBins, locallyPredictive: true}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name implements Evaluator.
func (c *CfsSubsetEval) Name() string { return "CfsSubsetEval" }

// Build implements Evaluator.
func (c *CfsSubsetEval) Build(ds *dataset.Dataset) error {
	if c.bins < 2 {
		return scigoErrors.NewValidationError("bins", "must be at least 2", c.bins)
	}
	n := ds.NumAttributes()
	c.ds = ds
	c.classIndex = ds.ClassIndex()
	c.codes = make([][]int, n)
	c.classCorr = make([]float64, n)
	c.featCorr = make([][]float64, n)

	classCodes := columnCodes(ds, c.classIndex, c.bins)
	if entropyBits(classCodes) == 0 {
		scigoErrors.Warn(scigoErrors.NewUndefinedMetricWarning("symmetric_uncertainty", "a class attribute with a single observed value", 0))
	}
	for j := 0; j < n; j++ {
		c.featCorr[j] = make([]float64, n)
		for k := range c.featCorr[j] {
			c.featCorr[j][k] = math.NaN()
		}
		if j == c.classIndex {
			continue
		}
		c.codes[j] = columnCodes(ds, j, c.bins)
		c.classCorr[j] = symmetricUncertainty(c.codes[j], classCodes)
	}
	return nil
}

func (c *CfsSubsetEval) correlation(i, j int) float64 {
	if i == j {
		return 1
	}
	if v := c.featCorr[i][j]; !math.IsNaN(v) {
		return v
	}
	v := symmetricUncertainty(c.codes[i], c.codes[j])
	c.featCorr[i][j] = v
	c.featCorr[j][i] = v
	return v
}

func (c *CfsSubsetEval) checkSubset(op string, subset []int) error {
	if c.ds == nil {
		return scigoErrors.NewNotFittedError(c.Name(), op)
	}
	for _, j := range subset {
		if j < 0 || j >= len(c.codes) || j == c.classIndex {
			return scigoErrors.NewValidationError("subset", "not a feature index of the built dataset", j)
		}
	}
	return nil
}

// EvaluateSubset implements SubsetEvaluator. The empty subset scores 0.
func (c *CfsSubsetEval) EvaluateSubset(subset []int) (float64, error) {
	if err := c.checkSubset("EvaluateSubset", subset); err != nil {
		return 0, err
	}
	k := len(subset)
	if k == 0 {
		return 0, nil
	}
	num := 0.0
	den := float64(k)
	for a, i := range subset {
		num += c.classCorr[i]
		for _, j := range subset[a+1:] {
			den += 2 * c.correlation(i, j)
		}
	}
	return scigoErrors.SafeDivide(num, math.Sqrt(den)), nil
}

// ClassCorrelation returns r_cf for attribute index.
func (c *CfsSubsetEval) ClassCorrelation(index int) (float64, error) {
	if err := c.checkSubset("ClassCorrelation", []int{index}); err != nil {
		return 0, err
	}
	return c.classCorr[index], nil
}

// PostProcess implements PostProcessor. Candidates are tried in order of
// decreasing class correlation; a candidate is added when its class
// correlation is strictly greater than its correlation with every attribute
// already selected.
func (c *CfsSubsetEval) PostProcess(subset []int) ([]int, error) {
	if err := c.checkSubset("PostProcess", subset); err != nil {
		return nil, err
	}
	out := append([]int(nil), subset...)
	if !c.locallyPredictive {
		return out, nil
	}

	in := make(map[int]bool, len(out))
	for _, j := range out {
		in[j] = true
	}
	var candidates []int
	for j := range c.codes {
		if j != c.classIndex && !in[j] && c.classCorr[j] > 0 {
			candidates = append(candidates, j)
		}
	}
	sort.SliceStable(candidates, func(a, b int) bool {
		return c.classCorr[candidates[a]] > c.classCorr[candidates[b]]
	})

	for _, cand := range candidates {
		ok := true
		for _, s := range out {
			if c.correlation(cand, s) >= c.classCorr[cand] {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, cand)
		}
	}
	sort.Ints(out)
	return out, nil
}
