package attrsel

import (
	"github.com/YuminosukeSato/scigo-attrsel/dataset"
)

// GreedyStepwise adds (forward) or removes (backward) one attribute at a
// time, always taking the single change with the highest merit, and stops as
// soon as no change improves the current subset. Backward steps that leave
// the merit unchanged are still taken.
type GreedyStepwise struct {
	direction Direction
}

// NewGreedyStepwise creates a GreedyStepwise search moving in direction d.
func NewGreedyStepwise(d Direction) *GreedyStepwise {
	return &GreedyStepwise{direction: d}
}

// Name implements SearchMethod.
func (g *GreedyStepwise) Name() string { return "GreedyStepwise" }

// Search implements SubsetSearch.
func (g *GreedyStepwise) Search(eval SubsetEvaluator, ds *dataset.Dataset) (SubsetResult, error) {
	features := ds.FeatureIndices()
	current := newSubsetMask(ds.NumAttributes())
	if g.direction == Backward {
		for _, j := range features {
			current.set(j, true)
		}
	}

	result := SubsetResult{}
	merit, err := eval.EvaluateSubset(current.indices())
	if err != nil {
		return SubsetResult{}, err
	}
	result.Evaluated++

	forward := g.direction == Forward
	for {
		bestJ := -1
		bestMerit := 0.0
		for _, j := range features {
			if current.has(j) == forward {
				continue
			}
			current.set(j, forward)
			m, err := eval.EvaluateSubset(current.indices())
			current.set(j, !forward)
			if err != nil {
				return SubsetResult{}, err
			}
			result.Evaluated++
			if bestJ < 0 || m > bestMerit {
				bestJ = j
				bestMerit = m
			}
		}
		if bestJ < 0 || !g.accept(bestMerit, merit) {
			break
		}
		current.set(bestJ, forward)
		merit = bestMerit
	}

	result.Subset = current.indices()
	result.Merit = merit
	return result, nil
}

// accept reports whether a step to candidate merit is taken. Going backward
// a step that keeps the merit is taken too, since it yields a smaller subset.
func (g *GreedyStepwise) accept(candidate, current float64) bool {
	if g.direction == Backward {
		return candidate-current > -improvementEpsilon
	}
	return candidate-current > improvementEpsilon
}
