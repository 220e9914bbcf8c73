package attrsel

import (
	"github.com/YuminosukeSato/scigo-attrsel/dataset"
)

// Evaluator is the part every evaluator shares: it is prepared on a dataset
// before any scoring call.
type Evaluator interface {
	// Name identifies the evaluator in reports and logs.
	Name() string

	// Build prepares the evaluator for ds. Calling Build again discards
	// everything learned from an earlier dataset.
	Build(ds *dataset.Dataset) error
}

// SubsetEvaluator scores a set of attributes as a whole.
type SubsetEvaluator interface {
	Evaluator

	// EvaluateSubset returns the merit of subset, a list of attribute indices
	// of the built dataset. Higher is better.
	EvaluateSubset(subset []int) (float64, error)
}

// AttributeEvaluator scores one attribute at a time. Implementations must
// allow concurrent EvaluateAttribute calls after Build.
type AttributeEvaluator interface {
	Evaluator

	// EvaluateAttribute returns the worth of attribute index. Higher is better.
	EvaluateAttribute(index int) (float64, error)
}

// PostProcessor may adjust the subset found by a search, e.g. to add
// locally predictive attributes.
type PostProcessor interface {
	PostProcess(subset []int) ([]int, error)
}

// SearchMethod is the part every search shares.
type SearchMethod interface {
	// Name identifies the search in reports and logs.
	Name() string
}

// SubsetResult is what a SubsetSearch found.
type SubsetResult struct {
	Subset    []int
	Merit     float64
	Evaluated int
	CacheHits int
}

// SubsetSearch explores attribute subsets using a SubsetEvaluator.
type SubsetSearch interface {
	SearchMethod
	Search(eval SubsetEvaluator, ds *dataset.Dataset) (SubsetResult, error)
}

// RankedAttribute is one row of an attribute ranking.
type RankedAttribute struct {
	Index int
	Name  string
	Score float64
}

// RankingSearch orders attributes by an AttributeEvaluator.
type RankingSearch interface {
	SearchMethod
	Rank(eval AttributeEvaluator, ds *dataset.Dataset) ([]RankedAttribute, error)
}
