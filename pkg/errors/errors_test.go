package errors

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"
)

func TestNewInvalidInputError(t *testing.T) {
	err := NewInvalidInputError("SimpleRegressor.Fit", "x and y lengths differ (3 != 2)")

	want := "linreg: SimpleRegressor.Fit: invalid input: x and y lengths differ (3 != 2)"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	// スタックトレースの存在確認
	formatted := fmt.Sprintf("%+v", err)
	if !strings.Contains(formatted, "errors_test.go") {
		t.Error("Expected stack trace to contain test file name")
	}

	var inputErr *InvalidInputError
	if !As(err, &inputErr) {
		t.Error("Error should be castable to *InvalidInputError")
	}
	if !Is(err, ErrInvalidInput) {
		t.Error("Expected Is(err, ErrInvalidInput) to be true")
	}
}

func TestNewDimensionError(t *testing.T) {
	err := NewDimensionError("MultipleRegressor.Predict", 3, 2, 1)

	want := "linreg: MultipleRegressor.Predict: dimension mismatch on axis 1 (features). Expected 3, got 2"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var dimErr *DimensionError
	if !As(err, &dimErr) {
		t.Fatal("Error should be castable to *DimensionError")
	}
	if dimErr.Expected != 3 || dimErr.Got != 2 {
		t.Errorf("unexpected fields: %+v", dimErr)
	}
}

func TestSingularSystemError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{
			name:    "pivot below threshold",
			err:     NewSingularSystemError("matrix.Invert", 2, 0, 1e-9),
			wantMsg: "linreg: matrix.Invert: singular system: pivot 2 is 0 (threshold 1e-09)",
		},
		{
			name:    "wrapped condition",
			err:     WrapSingular("matrix.SolveLinearSystem", mat.Condition(math.Inf(1))),
			wantMsg: "linreg: matrix.SolveLinearSystem: singular system: matrix singular or near-singular with condition number +Inf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", tt.err.Error(), tt.wantMsg)
			}
			if !Is(tt.err, ErrSingularSystem) {
				t.Error("Expected Is(err, ErrSingularSystem) to be true")
			}
		})
	}

	var cond mat.Condition
	if !As(WrapSingular("op", mat.Condition(1e20)), &cond) {
		t.Error("Expected wrapped mat.Condition to be reachable with As")
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, KindUnknown},
		{"plain", New("boom"), KindUnknown},
		{"invalid input", NewInvalidInputError("op", "empty"), KindInvalidInput},
		{"dimension", NewDimensionError("op", 1, 2, 1), KindDimensionMismatch},
		{"degenerate", NewDegenerateFitError("op", "zero variance", 0), KindDegenerateFit},
		{"singular", NewSingularSystemError("op", 0, 0, 1e-10), KindSingularSystem},
		{"wrapped", Wrap(NewDegenerateFitError("op", "zero variance", 0), "fit failed"), KindDegenerateFit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKind_StringAndCode(t *testing.T) {
	if KindSingularSystem.String() != "SingularSystem" {
		t.Errorf("String() = %s", KindSingularSystem.String())
	}
	if KindDimensionMismatch.Code() != "DIMENSION_MISMATCH" {
		t.Errorf("Code() = %s", KindDimensionMismatch.Code())
	}
	if Kind(99).Code() != "UNKNOWN" {
		t.Errorf("Code() = %s", Kind(99).Code())
	}
}

func TestSentinelsAreDistinct(t *testing.T) {
	err := NewDegenerateFitError("op", "zero variance", 0)
	for _, other := range []error{ErrInvalidInput, ErrDimensionMismatch, ErrSingularSystem} {
		if Is(err, other) {
			t.Errorf("DegenerateFitError should not match %v", other)
		}
	}
}

func TestMarshalZerologObject(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	dimErr := &DimensionError{Op: "Predict", Expected: 2, Got: 3, Axis: 1}
	logger.Warn().Object("err", dimErr).Msg("predict failed")

	out := buf.String()
	for _, want := range []string{`"type":"DimensionError"`, `"expected":2`, `"axis_name":"features"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %s missing %s", out, want)
		}
	}
}

func TestWarn_RoutesToZerologFunc(t *testing.T) {
	var got []error
	SetZerologWarnFunc(func(w error) { got = append(got, w) })
	defer SetZerologWarnFunc(nil)

	Warn(NewConditioningWarning("SolveLinearSystem", 1e9, 1e8))

	if len(got) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(got))
	}
	if !strings.Contains(got[0].Error(), "ill-conditioned") {
		t.Errorf("unexpected warning text: %v", got[0])
	}
}

func TestWarn_FallbackHandler(t *testing.T) {
	var got error
	original := warningHandler
	SetWarningHandler(func(w error) { got = w })
	defer SetWarningHandler(original)

	Warn(NewConditioningWarning("op", 1e9, 1e8))
	if got == nil {
		t.Fatal("expected warning handler to be called")
	}
}

func TestCheckFinite(t *testing.T) {
	if err := CheckFinite("Fit", "x", []float64{1, 2, 3}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	err := CheckFinite("Fit", "y", []float64{1, math.NaN()})
	if !Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if !strings.Contains(err.Error(), "y[1]") {
		t.Errorf("expected index in message, got %v", err)
	}

	err = CheckFiniteRows("Fit", "X", [][]float64{{1, 2}, {3, math.Inf(-1)}})
	if !strings.Contains(err.Error(), "X[1][1]") {
		t.Errorf("expected row/column in message, got %v", err)
	}
}

func TestWrapAndIs(t *testing.T) {
	wrapped := Wrapf(ErrSingularSystem, "in %s", "MultipleRegressor.Fit")

	if !Is(wrapped, ErrSingularSystem) {
		t.Error("Expected Is(wrapped, ErrSingularSystem) to be true")
	}
	if !strings.Contains(wrapped.Error(), "in MultipleRegressor.Fit") {
		t.Error("Expected wrapped error to contain wrapping message")
	}
}
