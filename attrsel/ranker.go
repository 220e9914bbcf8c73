package attrsel

import (
	"math"
	"sort"

	"github.com/YuminosukeSato/scigo-attrsel/core/parallel"
	"github.com/YuminosukeSato/scigo-attrsel/dataset"
	scigoErrors "github.com/YuminosukeSato/scigo-attrsel/pkg/errors"
)

// parallelThreshold is the attribute count above which Ranker scores
// attributes concurrently.
const parallelThreshold = 32

// Ranker scores every attribute independently and orders them by score.
type Ranker struct {
	numToSelect int
	threshold   float64
}

// RankerOption configures a Ranker.
type RankerOption func(*Ranker)

// WithNumToSelect keeps the top n attributes. -1 keeps all of them.
func WithNumToSelect(n int) RankerOption {
	return func(r *Ranker) { r.numToSelect = n }
}

// WithThreshold drops attributes scoring at or below t.
func WithThreshold(t float64) RankerOption {
	return func(r *Ranker) { r.threshold = t }
}

// NewRanker creates a Ranker keeping every attribute.
func NewRanker(opts ...RankerOption) *Ranker {
	r := &Ranker{numToSelect: -1, threshold: -math.MaxFloat64}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Name implements SearchMethod.
func (r *Ranker) Name() string { return "Ranker" }

// Rank implements RankingSearch. Ties keep attribute order.
func (r *Ranker) Rank(eval AttributeEvaluator, ds *dataset.Dataset) ([]RankedAttribute, error) {
	if r.numToSelect == 0 || r.numToSelect < -1 {
		return nil, scigoErrors.NewValidationError("numToSelect", "must be -1 or positive", r.numToSelect)
	}

	features := ds.FeatureIndices()
	ranked := make([]RankedAttribute, len(features))
	errs := make([]error, len(features))
	parallel.ForEach(len(features), parallelThreshold, func(p int) {
		j := features[p]
		var score float64
		errs[p] = scigoErrors.SafeExecute("Ranker.Rank", func() (err error) {
			score, err = eval.EvaluateAttribute(j)
			return err
		})
		ranked[p] = RankedAttribute{Index: j, Name: ds.Attribute(j).Name, Score: score}
	})
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	sort.SliceStable(ranked, func(a, b int) bool { return ranked[a].Score > ranked[b].Score })

	out := ranked[:0]
	for _, ra := range ranked {
		if ra.Score <= r.threshold {
			break
		}
		out = append(out, ra)
	}
	if r.numToSelect > 0 && len(out) > r.numToSelect {
		out = out[:r.numToSelect]
	}
	return out, nil
}
