package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotFittedError(t *testing.T) {
	err := NewNotFittedError("AttributeSelectedClassifier", "AttributeSelection")

	assert.Equal(t,
		"attrsel: AttributeSelectedClassifier: this model is not fitted yet. Call Fit() before using AttributeSelection()",
		err.Error())
	assert.True(t, Is(err, ErrNotFitted), "NotFittedError should match ErrNotFitted")
	assert.True(t, stderrors.Is(err, ErrNotFitted), "standard library errors.Is should also match")
	assert.False(t, Is(err, ErrEmptyData))

	var nf *NotFittedError
	require.True(t, As(err, &nf))
	assert.Equal(t, "AttributeSelection", nf.Method)

	formatted := fmt.Sprintf("%+v", err)
	assert.Contains(t, formatted, "errors_test.go", "stack trace should point at the caller")
}

func TestNewModelError(t *testing.T) {
	tests := []struct {
		name    string
		op      string
		kind    string
		err     error
		wantMsg string
	}{
		{
			name:    "with original error",
			op:      "Fit",
			kind:    "invalid input",
			err:     fmt.Errorf("test error"),
			wantMsg: "attrsel: Fit: invalid input: test error",
		},
		{
			name:    "without original error",
			op:      "Predict",
			kind:    "not fitted",
			wantMsg: "attrsel: Predict: not fitted",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewModelError(tt.op, tt.kind, tt.err)
			assert.Equal(t, tt.wantMsg, err.Error())

			var modelErr *ModelError
			require.True(t, As(err, &modelErr))
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
			}
		})
	}
}

func TestDimensionError(t *testing.T) {
	err := NewDimensionError("ReduceDimensionality", 4, 3, 1)
	assert.Equal(t, "attrsel: ReduceDimensionality: dimension mismatch on axis 1 (features). Expected 4, got 3", err.Error())

	err = NewDimensionError("Fit", 10, 9, 0)
	assert.Contains(t, err.Error(), "(rows)")
}

func TestValidationAndValueErrors(t *testing.T) {
	err := NewValidationError("numToSelect", "must be -1 or positive", 0)
	assert.Equal(t, "attrsel: validation failed for parameter 'numToSelect': must be -1 or positive (got: 0)", err.Error())

	err = NewValueError("LoadCSV", "no rows")
	var ve *ValueError
	require.True(t, As(err, &ve))
	assert.Equal(t, "LoadCSV", ve.Op)
}

func TestWrapKeepsSentinel(t *testing.T) {
	wrapped := Wrapf(ErrEmptyData, "in %s", "Select")
	assert.True(t, Is(wrapped, ErrEmptyData))
	assert.True(t, strings.HasPrefix(wrapped.Error(), "in Select"))
}

func TestWarnRoutesToZerologFunc(t *testing.T) {
	var got []error
	SetZerologWarnFunc(func(w error) { got = append(got, w) })
	defer SetZerologWarnFunc(nil)

	Warn(NewConvergenceWarning("LogisticRegression", 100, ""))
	require.Len(t, got, 1)
	assert.Contains(t, got[0].Error(), "failed to converge after 100 iterations")
}

func TestWarnFallsBackToHandler(t *testing.T) {
	var got error
	SetWarningHandler(func(w error) { got = w })
	defer SetWarningHandler(nil)

	w := NewUndefinedMetricWarning("symmetric_uncertainty", "zero entropy", 0)
	Warn(w)
	assert.Equal(t, w, got)
}

func TestCheckMatrix(t *testing.T) {
	type grid [][]float64
	ok := denseStub{grid{{1, 2}, {3, 4}}}
	assert.NoError(t, CheckMatrix("Fit", ok))

	bad := denseStub{grid{{1, 2}, {3, nan()}}}
	err := CheckMatrix("Fit", bad)
	var nf *NonFiniteValueError
	require.True(t, As(err, &nf))
	assert.Equal(t, 1, nf.Row)
	assert.Equal(t, 1, nf.Column)
}

func TestSafeDivide(t *testing.T) {
	assert.Equal(t, 0.0, SafeDivide(1, 0))
	assert.InDelta(t, 0.5, SafeDivide(1, 2), 1e-12)
}

type denseStub struct{ rows [][]float64 }

func (d denseStub) At(i, j int) float64 { return d.rows[i][j] }
func (d denseStub) Dims() (int, int)    { return len(d.rows), len(d.rows[0]) }

func nan() float64 {
	zero := 0.0
	return zero / zero
}
