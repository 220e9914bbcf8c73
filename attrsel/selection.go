package attrsel

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"

	scigoErrors "github.com/YuminosukeSato/scigo-attrsel/pkg/errors"
)

// Selection is the fitted outcome of an attribute selection run. It is
// immutable: accessors return copies.
type Selection struct {
	selected     []int // dataset attribute indices
	names        []string
	columns      []int // positions of selected in the feature matrix
	featureNames []string
	numFeatures  int
	numInstances int
	className    string

	ranking      []RankedAttribute
	merit        float64
	evaluator    string
	search       string
	numEvaluated int
	cacheHits    int
	fallback     bool
}

// SelectedAttributes returns the selected attribute indices of the dataset
// the selection was fitted on. Subset searches return them ascending,
// ranking searches in rank order. The class index is never included.
func (s *Selection) SelectedAttributes() []int {
	return append([]int(nil), s.selected...)
}

// SelectedNames returns the names of the selected attributes.
func (s *Selection) SelectedNames() []string {
	return append([]string(nil), s.names...)
}

// FeatureNames returns the names of all candidate attributes in feature
// matrix order.
func (s *Selection) FeatureNames() []string {
	return append([]string(nil), s.featureNames...)
}

// NumberAttributesSelected returns the number of selected attributes.
func (s *Selection) NumberAttributesSelected() int { return len(s.selected) }

// Ranking returns the full ranking for ranking searches, nil otherwise.
func (s *Selection) Ranking() []RankedAttribute {
	if s.ranking == nil {
		return nil
	}
	return append([]RankedAttribute(nil), s.ranking...)
}

// Merit returns the evaluator's merit of the selected subset. For ranking
// searches it is the score of the top attribute.
func (s *Selection) Merit() float64 { return s.merit }

// Evaluator returns the name of the evaluator used.
func (s *Selection) Evaluator() string { return s.evaluator }

// Search returns the name of the search method used.
func (s *Selection) Search() string { return s.search }

// NumEvaluated returns how many subsets or attributes were scored.
func (s *Selection) NumEvaluated() int { return s.numEvaluated }

// CacheHits returns how many subset evaluations the lookup cache avoided.
func (s *Selection) CacheHits() int { return s.cacheHits }

// NumInstances returns the size of the dataset the selection was fitted on.
func (s *Selection) NumInstances() int { return s.numInstances }

// UsedFallback reports whether the search selected nothing and the single
// attribute most correlated with the class was kept instead.
func (s *Selection) UsedFallback() bool { return s.fallback }

// IsSelected reports whether attribute index was selected.
func (s *Selection) IsSelected(index int) bool {
	for _, j := range s.selected {
		if j == index {
			return true
		}
	}
	return false
}

// ReduceDimensionality projects a feature matrix onto the selected
// attributes. X must have the column layout of dataset.Features on the
// dataset the selection was fitted on.
func (s *Selection) ReduceDimensionality(X mat.Matrix) (out *mat.Dense, err error) {
	defer scigoErrors.Recover(&err, "Selection.ReduceDimensionality")

	rows, cols := X.Dims()
	if cols != s.numFeatures {
		return nil, scigoErrors.NewDimensionError("ReduceDimensionality", s.numFeatures, cols, 1)
	}
	out = mat.NewDense(rows, len(s.columns), nil)
	for p, c := range s.columns {
		for i := 0; i < rows; i++ {
			out.Set(i, p, X.At(i, c))
		}
	}
	return out, nil
}

// ReduceInstance projects one feature row onto the selected attributes.
func (s *Selection) ReduceInstance(row []float64) ([]float64, error) {
	if len(row) != s.numFeatures {
		return nil, scigoErrors.NewDimensionError("ReduceInstance", s.numFeatures, len(row), 1)
	}
	out := make([]float64, len(s.columns))
	for p, c := range s.columns {
		out[p] = row[c]
	}
	return out, nil
}

// String renders a report of the selection.
func (s *Selection) String() string {
	var b strings.Builder
	b.WriteString("=== Attribute Selection on all input data ===\n\n")
	fmt.Fprintf(&b, "Search Method:\t%s\n", s.search)
	fmt.Fprintf(&b, "Evaluator:\t%s\n", s.evaluator)
	fmt.Fprintf(&b, "Class:\t\t%s\n", s.className)
	fmt.Fprintf(&b, "Instances:\t%d\n", s.numInstances)
	fmt.Fprintf(&b, "Evaluated:\t%d\n", s.numEvaluated)

	if s.ranking != nil {
		if len(s.ranking) > 0 {
			b.WriteString("\nRanked attributes:\n")
		}
		for _, ra := range s.ranking {
			fmt.Fprintf(&b, " %8.4f %4d %s\n", ra.Score, ra.Index+1, ra.Name)
		}
	} else {
		fmt.Fprintf(&b, "Merit of best subset found: %.4f\n", s.merit)
	}

	oneBased := make([]string, len(s.selected))
	for i, j := range s.selected {
		oneBased[i] = fmt.Sprint(j + 1)
	}
	fmt.Fprintf(&b, "\nSelected attributes: %s : %d\n", strings.Join(oneBased, ","), len(s.selected))
	for _, n := range s.names {
		fmt.Fprintf(&b, "                     %s\n", n)
	}
	if s.fallback {
		b.WriteString("\n(search selected nothing; kept the attribute most correlated with the class)\n")
	}
	return b.String()
}
