package errors

import (
	"fmt"
	"math"
)

// NonFiniteValueError reports a NaN or Inf cell found in input data.
type NonFiniteValueError struct {
	Op     string
	Row    int
	Column int
	Value  float64
}

func (e *NonFiniteValueError) Error() string {
	return fmt.Sprintf("attrsel: %s: non-finite value %v at row %d, column %d", e.Op, e.Value, e.Row, e.Column)
}

// CheckMatrix returns a NonFiniteValueError for the first NaN or Inf cell.
func CheckMatrix(op string, matrix interface {
	At(int, int) float64
	Dims() (int, int)
}) error {
	rows, cols := matrix.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := matrix.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return WithStack(&NonFiniteValueError{Op: op, Row: i, Column: j, Value: v})
			}
		}
	}
	return nil
}

// SafeDivide returns 0 when the denominator is zero or close to it.
func SafeDivide(numerator, denominator float64) float64 {
	if math.Abs(denominator) < 1e-10 {
		return 0
	}
	return numerator / denominator
}
