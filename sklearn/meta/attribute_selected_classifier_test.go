package meta

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scigo-attrsel/attrsel"
	"github.com/YuminosukeSato/scigo-attrsel/core/model"
	"github.com/YuminosukeSato/scigo-attrsel/dataset"
	scigoErrors "github.com/YuminosukeSato/scigo-attrsel/pkg/errors"
	"github.com/YuminosukeSato/scigo-attrsel/pkg/log"
	"github.com/YuminosukeSato/scigo-attrsel/sklearn/linear_model"
)

// duplicatedDataset has attributes a, b (a copy of a), c and d (noise) and a
// class that is a > 0.5.
func duplicatedDataset(t *testing.T, n int, seed int64) *dataset.Dataset {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	attrs := []dataset.Attribute{
		dataset.NumericAttribute("a"),
		dataset.NumericAttribute("b"),
		dataset.NumericAttribute("c"),
		dataset.NumericAttribute("d"),
		dataset.NominalAttribute("class", "neg", "pos"),
	}
	rows := make([][]float64, n)
	for i := range rows {
		a := rng.Float64()
		label := 0.0
		if a > 0.5 {
			label = 1
		}
		rows[i] = []float64{a, a, rng.Float64(), rng.Float64(), label}
	}
	ds, err := dataset.New(attrs, 4, rows)
	require.NoError(t, err)
	return ds
}

// signDataset has the class first and three numeric attributes of which only
// "z" (index 3) decides it.
func signDataset(t *testing.T, n int, seed int64) *dataset.Dataset {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	attrs := []dataset.Attribute{
		dataset.NominalAttribute("class", "low", "high"),
		dataset.NumericAttribute("x"),
		dataset.NumericAttribute("y"),
		dataset.NumericAttribute("z"),
	}
	rows := make([][]float64, n)
	for i := range rows {
		z := rng.NormFloat64()
		label := 0.0
		if z > 0 {
			label = 1
		}
		rows[i] = []float64{label, rng.NormFloat64(), rng.Float64(), z}
	}
	ds, err := dataset.New(attrs, 0, rows)
	require.NoError(t, err)
	return ds
}

func TestAttributeSelectedClassifier_NotFitted(t *testing.T) {
	clf := NewAttributeSelectedClassifier()

	sel, err := clf.AttributeSelection()
	assert.Nil(t, sel)
	assert.ErrorIs(t, err, scigoErrors.ErrNotFitted)
	var nf *scigoErrors.NotFittedError
	require.True(t, scigoErrors.As(err, &nf))
	assert.Equal(t, "AttributeSelectedClassifier", nf.ModelName)
	assert.Equal(t, "AttributeSelection", nf.Method)

	_, err = clf.Predict(mat.NewDense(1, 4, nil))
	assert.ErrorIs(t, err, scigoErrors.ErrNotFitted)
	_, err = clf.PredictProba(mat.NewDense(1, 4, nil))
	assert.ErrorIs(t, err, scigoErrors.ErrNotFitted)
	_, err = clf.PredictInstance([]float64{1, 2, 3, 4})
	assert.ErrorIs(t, err, scigoErrors.ErrNotFitted)
	_, err = clf.BaseClassifier()
	assert.ErrorIs(t, err, scigoErrors.ErrNotFitted)
	assert.Nil(t, clf.Classes())
	assert.Contains(t, clf.String(), "not fitted")
}

func TestAttributeSelectedClassifier_FitExposesSelection(t *testing.T) {
	ds := duplicatedDataset(t, 300, 1)
	logger, _ := log.NewTestLogger(log.LevelDebug)
	clf := NewAttributeSelectedClassifier(WithLogger(logger))

	require.NoError(t, clf.Fit(ds))
	sel, err := clf.AttributeSelection()
	require.NoError(t, err)
	require.NotNil(t, sel)

	features := map[int]bool{}
	for _, j := range ds.FeatureIndices() {
		features[j] = true
	}
	require.NotEmpty(t, sel.SelectedAttributes())
	for _, j := range sel.SelectedAttributes() {
		assert.True(t, features[j], "index %d is not a feature", j)
	}
	// a and b carry the same information, so only one of them is kept
	assert.False(t, sel.IsSelected(0) && sel.IsSelected(1), "got %v", sel.SelectedAttributes())
	assert.True(t, sel.IsSelected(0) || sel.IsSelected(1), "got %v", sel.SelectedAttributes())

	assert.Equal(t, []int{0, 1}, clf.Classes())
	score, err := clf.Score(ds)
	require.NoError(t, err)
	assert.Greater(t, score, 0.9)

	assert.True(t, logger.ContainsMessage("Model fitted"))
	assert.True(t, logger.ContainsField(log.EstimatorIDKey, clf.ID()))
	assert.True(t, logger.ContainsField(log.ModelNameKey, "AttributeSelectedClassifier"))
	assert.True(t, logger.ContainsMessage("Attribute selection finished"))

	report := clf.String()
	assert.Contains(t, report, "Selected attributes:")
	assert.Contains(t, report, "GaussianNB")
	assert.Contains(t, report, "class")
}

func TestAttributeSelectedClassifier_SingleAttribute(t *testing.T) {
	ds, err := dataset.New([]dataset.Attribute{
		dataset.NumericAttribute("only"),
		dataset.NominalAttribute("class", "a", "b"),
	}, 1, [][]float64{{1, 0}, {2, 0}, {3, 1}, {4, 1}, {5, 0}, {6, 1}})
	require.NoError(t, err)

	clf := NewAttributeSelectedClassifier()
	require.NoError(t, clf.Fit(ds))
	sel, err := clf.AttributeSelection()
	require.NoError(t, err)
	assert.Equal(t, []int{0}, sel.SelectedAttributes())
	assert.Equal(t, []string{"only"}, sel.SelectedNames())
}

func TestAttributeSelectedClassifier_RefitMatchesFreshFit(t *testing.T) {
	d1 := duplicatedDataset(t, 200, 2)
	d2 := signDataset(t, 200, 3)

	refit := NewAttributeSelectedClassifier()
	require.NoError(t, refit.Fit(d1))
	first, err := refit.AttributeSelection()
	require.NoError(t, err)
	require.NoError(t, refit.Fit(d2))

	fresh := NewAttributeSelectedClassifier()
	require.NoError(t, fresh.Fit(d2))

	got, err := refit.AttributeSelection()
	require.NoError(t, err)
	want, err := fresh.AttributeSelection()
	require.NoError(t, err)

	assert.NotSame(t, first, got)
	assert.Equal(t, want.SelectedAttributes(), got.SelectedAttributes())
	assert.Equal(t, want.SelectedNames(), got.SelectedNames())
	assert.InDelta(t, want.Merit(), got.Merit(), 1e-12)
	assert.Contains(t, got.SelectedAttributes(), 3)

	X := d2.Features()
	pGot, err := refit.PredictProba(X)
	require.NoError(t, err)
	pWant, err := fresh.PredictProba(X)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(pWant, pGot, 1e-12))
}

func TestAttributeSelectedClassifier_PredictLeavesSelectionAlone(t *testing.T) {
	ds := duplicatedDataset(t, 150, 4)
	clf := NewAttributeSelectedClassifier()
	require.NoError(t, clf.Fit(ds))

	before, err := clf.AttributeSelection()
	require.NoError(t, err)
	selected := before.SelectedAttributes()

	X := ds.Features()
	pred, err := clf.Predict(X)
	require.NoError(t, err)
	_, err = clf.PredictProba(X)
	require.NoError(t, err)
	_, err = clf.Score(ds)
	require.NoError(t, err)

	// single-row prediction agrees with the batch
	for i := 0; i < 5; i++ {
		label, err := clf.PredictInstance(mat.Row(nil, i, X))
		require.NoError(t, err)
		assert.Equal(t, pred.At(i, 0), label)
	}

	after, err := clf.AttributeSelection()
	require.NoError(t, err)
	assert.Same(t, before, after)
	assert.Equal(t, selected, after.SelectedAttributes())

	var de *scigoErrors.DimensionError
	_, err = clf.Predict(mat.NewDense(1, 2, nil))
	assert.True(t, scigoErrors.As(err, &de))
	_, err = clf.PredictInstance([]float64{1})
	assert.True(t, scigoErrors.As(err, &de))
}

func TestAttributeSelectedClassifier_RankerWithLogisticRegression(t *testing.T) {
	ds := signDataset(t, 300, 5)
	clf := NewAttributeSelectedClassifier(
		WithEvaluator(attrsel.NewInfoGainAttributeEval(0)),
		WithSearch(attrsel.NewRanker(attrsel.WithNumToSelect(1))),
		WithBaseClassifier(func() model.Classifier {
			return linear_model.NewLogisticRegression(linear_model.WithLRMaxIter(500))
		}),
	)
	require.NoError(t, clf.Fit(ds))

	sel, err := clf.AttributeSelection()
	require.NoError(t, err)
	assert.Equal(t, []int{3}, sel.SelectedAttributes())
	require.Len(t, sel.Ranking(), 1)

	base, err := clf.BaseClassifier()
	require.NoError(t, err)
	assert.IsType(t, &linear_model.LogisticRegression{}, base)

	score, err := clf.Score(ds)
	require.NoError(t, err)
	assert.Greater(t, score, 0.9)

	params := clf.GetParams()
	assert.Equal(t, "InfoGainAttributeEval", params["evaluator"])
	assert.Equal(t, "Ranker", params["search"])
	assert.Equal(t, 500, params["classifier__max_iter"])
}

func TestAttributeSelectedClassifier_PassiveAggressive(t *testing.T) {
	ds := signDataset(t, 300, 6)
	clf := NewAttributeSelectedClassifier(
		WithBaseClassifier(func() model.Classifier {
			return linear_model.NewPassiveAggressiveClassifier(
				linear_model.WithPARandomState(6),
				linear_model.WithPAAverage(true),
			)
		}),
	)
	require.NoError(t, clf.Fit(ds))

	sel, err := clf.AttributeSelection()
	require.NoError(t, err)
	assert.Contains(t, sel.SelectedAttributes(), 3)

	base, err := clf.BaseClassifier()
	require.NoError(t, err)
	pa, ok := base.(*linear_model.PassiveAggressiveClassifier)
	require.True(t, ok)
	coef := pa.Coef()
	require.NotEmpty(t, coef)
	assert.Len(t, coef[0], sel.NumberAttributesSelected())

	score, err := clf.Score(ds)
	require.NoError(t, err)
	assert.Greater(t, score, 0.85)

	params := clf.GetParams()
	assert.Equal(t, "hinge", params["classifier__loss"])
	assert.Equal(t, true, params["classifier__average"])
}

func TestAttributeSelectedClassifier_DefaultParams(t *testing.T) {
	params := NewAttributeSelectedClassifier().GetParams()
	assert.Equal(t, "CfsSubsetEval", params["evaluator"])
	assert.Equal(t, "BestFirst", params["search"])
	assert.Equal(t, "*naive_bayes.GaussianNB", params["classifier"])
	assert.Equal(t, 1e-9, params["classifier__var_smoothing"])
}

func TestAttributeSelectedClassifier_PropagatesErrors(t *testing.T) {
	ds := duplicatedDataset(t, 100, 6)
	sentinel := fmt.Errorf("evaluator exploded")

	clf := NewAttributeSelectedClassifier(WithEvaluator(failingEvaluator{err: sentinel}))
	err := clf.Fit(ds)
	assert.Same(t, sentinel, err)
	_, err = clf.AttributeSelection()
	assert.ErrorIs(t, err, scigoErrors.ErrNotFitted)

	trainErr := fmt.Errorf("base classifier exploded")
	clf = NewAttributeSelectedClassifier(WithBaseClassifier(func() model.Classifier {
		return failingClassifier{err: trainErr}
	}))
	assert.Same(t, trainErr, clf.Fit(ds))

	var ve *scigoErrors.ValidationError
	clf = NewAttributeSelectedClassifier(WithSearch(attrsel.NewRanker()))
	assert.True(t, scigoErrors.As(clf.Fit(ds), &ve))

	var val *scigoErrors.ValueError
	assert.True(t, scigoErrors.As(NewAttributeSelectedClassifier().Fit(nil), &val))
}

func TestAttributeSelectedClassifier_FailedRefitKeepsPreviousModel(t *testing.T) {
	ds := duplicatedDataset(t, 100, 7)
	fail := false
	sentinel := fmt.Errorf("second fit fails")
	clf := NewAttributeSelectedClassifier(WithBaseClassifier(func() model.Classifier {
		if fail {
			return failingClassifier{err: sentinel}
		}
		return defaultFactory()
	}))

	require.NoError(t, clf.Fit(ds))
	before, err := clf.AttributeSelection()
	require.NoError(t, err)

	fail = true
	assert.Same(t, sentinel, clf.Fit(signDataset(t, 100, 8)))

	after, err := clf.AttributeSelection()
	require.NoError(t, err)
	assert.Same(t, before, after)
	_, err = clf.Predict(ds.Features())
	assert.NoError(t, err)
}

func defaultFactory() model.Classifier {
	return NewAttributeSelectedClassifier().factory()
}

type failingEvaluator struct{ err error }

func (failingEvaluator) Name() string                          { return "Failing" }
func (f failingEvaluator) Build(*dataset.Dataset) error        { return f.err }
func (failingEvaluator) EvaluateSubset([]int) (float64, error) { return 0, nil }

type failingClassifier struct{ err error }

func (f failingClassifier) Fit(_, _ mat.Matrix) error                 { return f.err }
func (failingClassifier) Predict(mat.Matrix) (mat.Matrix, error)      { return nil, nil }
func (failingClassifier) PredictProba(mat.Matrix) (mat.Matrix, error) { return nil, nil }
func (failingClassifier) Classes() []int                              { return nil }
