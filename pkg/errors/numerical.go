package errors

import (
	"math"
)

// IsFinite reports whether v is neither NaN nor ±Inf.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// CheckFinite returns an InvalidInputError naming the first NaN or Inf in
// values. name identifies the offending argument in the message.
func CheckFinite(op, name string, values []float64) error {
	for i, v := range values {
		if !IsFinite(v) {
			return NewInvalidInputErrorf(op, "%s[%d] is not finite (%v)", name, i, v)
		}
	}
	return nil
}

// CheckFiniteRows is CheckFinite over every row of a row-major table.
func CheckFiniteRows(op, name string, rows [][]float64) error {
	for i, row := range rows {
		for j, v := range row {
			if !IsFinite(v) {
				return NewInvalidInputErrorf(op, "%s[%d][%d] is not finite (%v)", name, i, j, v)
			}
		}
	}
	return nil
}
