// Package metrics provides classification metrics over gonum matrices.
package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/scigo-attrsel/pkg/errors"
)

// labelColumns checks that yTrue and yPred are non-empty n×1 matrices of the
// same length and returns n.
func labelColumns(op string, yTrue, yPred mat.Matrix) (int, error) {
	rTrue, cTrue := yTrue.Dims()
	rPred, cPred := yPred.Dims()
	if rTrue == 0 || cTrue == 0 {
		return 0, errors.NewValueError(op, "empty label vector")
	}
	if cTrue != 1 || cPred != 1 {
		return 0, errors.NewValueError(op, "labels must be column vectors (n×1 matrix)")
	}
	if rTrue != rPred {
		return 0, errors.NewDimensionError(op, rTrue, rPred, 0)
	}
	return rTrue, nil
}

// Accuracy returns the fraction of rows where yPred equals yTrue.
func Accuracy(yTrue, yPred mat.Matrix) (float64, error) {
	n, err := labelColumns("Accuracy", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	correct := 0
	for i := 0; i < n; i++ {
		if yTrue.At(i, 0) == yPred.At(i, 0) {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}

// ClassificationError returns 1 - Accuracy.
func ClassificationError(yTrue, yPred mat.Matrix) (float64, error) {
	acc, err := Accuracy(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return 1 - acc, nil
}

// ConfusionMatrix counts rows by true class (row) and predicted class
// (column), both in the order of classes. Labels outside classes are
// ignored.
func ConfusionMatrix(yTrue, yPred mat.Matrix, classes []int) (*mat.Dense, error) {
	n, err := labelColumns("ConfusionMatrix", yTrue, yPred)
	if err != nil {
		return nil, err
	}
	if len(classes) == 0 {
		return nil, errors.NewValueError("ConfusionMatrix", "no classes given")
	}
	pos := make(map[int]int, len(classes))
	for i, c := range classes {
		if _, dup := pos[c]; dup {
			return nil, errors.NewValidationError("classes", "duplicate class label", c)
		}
		pos[c] = i
	}

	cm := mat.NewDense(len(classes), len(classes), nil)
	for i := 0; i < n; i++ {
		t, okT := pos[int(yTrue.At(i, 0))]
		p, okP := pos[int(yPred.At(i, 0))]
		if okT && okP {
			cm.Set(t, p, cm.At(t, p)+1)
		}
	}
	return cm, nil
}

// BinaryLogLoss returns the mean cross-entropy of probabilities yProb for the
// positive class against 0/1 labels yTrue. Probabilities are clipped to
// [1e-15, 1-1e-15].
func BinaryLogLoss(yTrue, yProb mat.Matrix) (float64, error) {
	n, err := labelColumns("BinaryLogLoss", yTrue, yProb)
	if err != nil {
		return 0, err
	}
	const eps = 1e-15
	sum := 0.0
	for i := 0; i < n; i++ {
		y := yTrue.At(i, 0)
		if y != 0 && y != 1 {
			return 0, errors.NewValidationError("yTrue", "labels must be 0 or 1", y)
		}
		p := math.Min(math.Max(yProb.At(i, 0), eps), 1-eps)
		sum -= y*math.Log(p) + (1-y)*math.Log(1-p)
	}
	return sum / float64(n), nil
}
