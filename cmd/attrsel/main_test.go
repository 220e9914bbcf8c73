package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	scigoErrors "github.com/YuminosukeSato/scigo-attrsel/pkg/errors"
)

func writeCSV(t *testing.T) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("signal,copy,noise,label\n")
	for i := 0; i < 60; i++ {
		label := "no"
		if i >= 30 {
			label = "yes"
		}
		fmt.Fprintf(&b, "%d,%d,%d,%s\n", i, i, (i*17)%11, label)
	}
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o600))
	return path
}

func defaults() args {
	return args{
		Evaluator:   "cfs",
		Search:      "bestfirst",
		Direction:   "forward",
		Bins:        10,
		NumToSelect: -1,
		Threshold:   -1e308,
		Classifier:  "nb",
	}
}

func TestRun_Default(t *testing.T) {
	a := defaults()
	a.Input = writeCSV(t)
	a.Chart = filepath.Join(t.TempDir(), "selection.svg")

	var out bytes.Buffer
	require.NoError(t, run(a, &out))
	assert.Contains(t, out.String(), "Selected attributes:")
	assert.Contains(t, out.String(), "Training accuracy:")
	assert.Contains(t, out.String(), "Chart written to")

	info, err := os.Stat(a.Chart)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestRun_RankerLogistic(t *testing.T) {
	a := defaults()
	a.Input = writeCSV(t)
	a.Class = "label"
	a.Evaluator = "infogain"
	a.Search = "ranker"
	a.NumToSelect = 2
	a.Classifier = "logistic"

	var out bytes.Buffer
	require.NoError(t, run(a, &out))
	assert.Contains(t, out.String(), "Ranked attributes:")
	assert.Contains(t, out.String(), "LogisticRegression")
}

func TestRun_PassiveAggressive(t *testing.T) {
	a := defaults()
	a.Input = writeCSV(t)
	a.Class = "label"
	a.Classifier = "PA"

	var out bytes.Buffer
	require.NoError(t, run(a, &out))
	assert.Contains(t, out.String(), "Selected attributes:")
	assert.Contains(t, out.String(), "PassiveAggressiveClassifier")
}

func TestBuildClassifier_Invalid(t *testing.T) {
	for _, mutate := range []func(*args){
		func(a *args) { a.Evaluator = "chi2" },
		func(a *args) { a.Search = "genetic" },
		func(a *args) { a.Direction = "sideways" },
		func(a *args) { a.Classifier = "svm" },
	} {
		a := defaults()
		mutate(&a)
		_, err := buildClassifier(a)
		var ve *scigoErrors.ValidationError
		assert.True(t, scigoErrors.As(err, &ve), "got %v", err)
	}
}

func TestRun_MissingInput(t *testing.T) {
	a := defaults()
	a.Input = filepath.Join(t.TempDir(), "missing.csv")
	assert.Error(t, run(a, &bytes.Buffer{}))
}
