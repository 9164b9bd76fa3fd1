package plot

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/linreg/linear"
	"github.com/YuminosukeSato/linreg/pkg/errors"
)

func fitted(t *testing.T) (*linear.SimpleRegressor, []float64, []float64) {
	t.Helper()
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{2, 4, 5, 4, 5}
	r := linear.NewSimpleRegressor()
	require.NoError(t, r.Fit(x, y))
	return r, x, y
}

func TestFitPlot(t *testing.T) {
	r, x, y := fitted(t)
	p, err := FitPlot(r, x, y)
	require.NoError(t, err)
	assert.Equal(t, "Least squares fit", p.Title.Text)
	assert.LessOrEqual(t, p.X.Min, 1.0)
	assert.GreaterOrEqual(t, p.X.Max, 5.0)
}

func TestFitPlot_InvalidInput(t *testing.T) {
	r, _, _ := fitted(t)
	tests := []struct {
		name string
		x, y []float64
	}{
		{"length mismatch", []float64{1, 2}, []float64{1}},
		{"empty", nil, nil},
		{"nan", []float64{1, 2}, []float64{1, math.NaN()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FitPlot(r, tt.x, tt.y)
			assert.True(t, errors.Is(err, errors.ErrInvalidInput))
		})
	}
}

func TestWriteFitPlot_SVG(t *testing.T) {
	r, x, y := fitted(t)
	var buf bytes.Buffer
	require.NoError(t, WriteFitPlot(&buf, r, x, y, "svg"))
	assert.Contains(t, buf.String(), "<svg")

	assert.Error(t, WriteFitPlot(&buf, r, x, y, "bogus"))
}

func TestSaveFitPlot(t *testing.T) {
	r, x, y := fitted(t)
	path := filepath.Join(t.TempDir(), "fit.png")
	require.NoError(t, SaveFitPlot(r, x, y, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestSaveFitPlot_SinglePoint(t *testing.T) {
	r := linear.NewSimpleRegressor()
	r.SetParams(1, 0)
	path := filepath.Join(t.TempDir(), "point.svg")
	require.NoError(t, SaveFitPlot(r, []float64{3}, []float64{3}, path))
}
