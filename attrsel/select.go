package attrsel

import (
	"fmt"
	"time"

	"github.com/YuminosukeSato/scigo-attrsel/dataset"
	scigoErrors "github.com/YuminosukeSato/scigo-attrsel/pkg/errors"
	"github.com/YuminosukeSato/scigo-attrsel/pkg/log"
)

type selectConfig struct {
	logger log.Logger
}

// SelectOption configures Select.
type SelectOption func(*selectConfig)

// WithLogger sets the logger Select reports to.
func WithLogger(l log.Logger) SelectOption {
	return func(c *selectConfig) { c.logger = l }
}

// Select builds eval on ds, runs search and returns the resulting Selection.
//
// A SubsetEvaluator must be paired with a SubsetSearch and an
// AttributeEvaluator with a RankingSearch. If the search keeps no attribute,
// the single attribute with the highest symmetric uncertainty with the class
// is selected instead, so a classifier can always be trained on the result.
//
// Errors from the evaluator and the search are returned unchanged.
func Select(ds *dataset.Dataset, eval Evaluator, search SearchMethod, opts ...SelectOption) (*Selection, error) {
	cfg := &selectConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = log.GetLoggerWithName("attrsel")
	}
	if ds == nil {
		return nil, scigoErrors.NewValueError("Select", "nil dataset")
	}
	if eval == nil || search == nil {
		return nil, scigoErrors.NewValidationError("evaluator/search", "must not be nil", fmt.Sprintf("%T/%T", eval, search))
	}
	if ds.NumFeatures() == 0 {
		return nil, scigoErrors.NewValueError("Select", "dataset has no attributes besides the class")
	}

	logger := cfg.logger.With(
		log.EvaluatorKey, eval.Name(),
		log.SearchKey, search.Name(),
	)
	started := time.Now()

	if err := eval.Build(ds); err != nil {
		return nil, err
	}

	sel := &Selection{
		numFeatures:  ds.NumFeatures(),
		numInstances: ds.NumInstances(),
		className:    ds.ClassAttribute().Name,
		evaluator:    eval.Name(),
		search:       search.Name(),
	}

	var subset []int
	subsetEval, isSubsetEval := eval.(SubsetEvaluator)
	subsetSearch, isSubsetSearch := search.(SubsetSearch)
	attrEval, isAttrEval := eval.(AttributeEvaluator)
	rankSearch, isRankSearch := search.(RankingSearch)

	switch {
	case isSubsetEval && isSubsetSearch:
		res, err := subsetSearch.Search(subsetEval, ds)
		if err != nil {
			return nil, err
		}
		subset = res.Subset
		if pp, ok := eval.(PostProcessor); ok {
			if subset, err = pp.PostProcess(subset); err != nil {
				return nil, err
			}
		}
		sel.numEvaluated = res.Evaluated
		sel.cacheHits = res.CacheHits
		if sel.merit, err = subsetEval.EvaluateSubset(subset); err != nil {
			return nil, err
		}

	case isAttrEval && isRankSearch:
		ranking, err := rankSearch.Rank(attrEval, ds)
		if err != nil {
			return nil, err
		}
		sel.ranking = ranking
		sel.numEvaluated = ds.NumFeatures()
		for _, ra := range ranking {
			subset = append(subset, ra.Index)
		}
		if len(ranking) > 0 {
			sel.merit = ranking[0].Score
		}

	default:
		return nil, scigoErrors.NewValidationError("search",
			fmt.Sprintf("%s cannot be used with %s", search.Name(), eval.Name()), search.Name())
	}

	subset, err := validateSubset(ds, subset)
	if err != nil {
		return nil, err
	}
	if len(subset) == 0 {
		subset = []int{bestSingleAttribute(ds)}
		sel.fallback = true
		logger.Warn("Search selected no attributes; keeping the best single attribute",
			log.SelectedNamesKey, ds.Attribute(subset[0]).Name,
			log.ErrorCodeKey, log.ErrorEmptySelection,
		)
	}

	positions := make(map[int]int, ds.NumFeatures())
	sel.featureNames = make([]string, 0, ds.NumFeatures())
	for p, j := range ds.FeatureIndices() {
		positions[j] = p
		sel.featureNames = append(sel.featureNames, ds.Attribute(j).Name)
	}
	sel.selected = subset
	sel.names = make([]string, len(subset))
	sel.columns = make([]int, len(subset))
	for i, j := range subset {
		sel.names[i] = ds.Attribute(j).Name
		sel.columns[i] = positions[j]
	}

	logger.Info("Attribute selection finished",
		log.OperationKey, log.OperationSelect,
		log.SamplesKey, ds.NumInstances(),
		log.FeaturesKey, ds.NumFeatures(),
		log.SelectedKey, len(subset),
		log.SelectedNamesKey, sel.names,
		log.MeritKey, sel.merit,
		log.EvaluatedKey, sel.numEvaluated,
		log.CacheHitsKey, sel.cacheHits,
		log.DurationMsKey, time.Since(started).Milliseconds(),
	)
	return sel, nil
}

// validateSubset rejects class or out-of-range indices and drops duplicates,
// keeping first occurrences.
func validateSubset(ds *dataset.Dataset, subset []int) ([]int, error) {
	seen := make(map[int]bool, len(subset))
	out := make([]int, 0, len(subset))
	for _, j := range subset {
		if j < 0 || j >= ds.NumAttributes() || j == ds.ClassIndex() {
			return nil, scigoErrors.NewValidationError("subset", "search returned an index that is not a feature", j)
		}
		if seen[j] {
			continue
		}
		seen[j] = true
		out = append(out, j)
	}
	return out, nil
}

// bestSingleAttribute returns the feature with the highest symmetric
// uncertainty with the class; ties go to the lowest index.
func bestSingleAttribute(ds *dataset.Dataset) int {
	classCodes := columnCodes(ds, ds.ClassIndex(), DefaultBins)
	best, bestSU := -1, -1.0
	for _, j := range ds.FeatureIndices() {
		su := symmetricUncertainty(columnCodes(ds, j, DefaultBins), classCodes)
		if su > bestSU {
			best, bestSU = j, su
		}
	}
	return best
}
