// Package plot draws a single-predictor fit over its training data using
// gonum/plot: the samples as a scatter and the fitted line as a function.
package plot

import (
	"io"

	"gonum.org/v1/gonum/floats"
	gonumplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/linreg/pkg/errors"
)

// Default image size used by SaveFitPlot and WriteFitPlot.
const (
	DefaultWidth  = 6 * vg.Inch
	DefaultHeight = 4 * vg.Inch
)

// Line is a fitted single-predictor model such as *linear.SimpleRegressor.
type Line interface {
	Predict(x float64) float64
}

// FitPlot returns a plot with the training samples (x, y) as a scatter and
// the model's prediction line drawn across the range of x.
func FitPlot(model Line, x, y []float64) (*gonumplot.Plot, error) {
	const op = "plot.FitPlot"
	if len(x) != len(y) {
		return nil, errors.NewInvalidInputErrorf(op, "x has %d values but y has %d", len(x), len(y))
	}
	if len(x) == 0 {
		return nil, errors.NewInvalidInputError(op, "no samples")
	}
	if err := errors.CheckFinite(op, "x", x); err != nil {
		return nil, err
	}
	if err := errors.CheckFinite(op, "y", y); err != nil {
		return nil, err
	}

	pts := make(plotter.XYs, len(x))
	for i := range x {
		pts[i].X = x[i]
		pts[i].Y = y[i]
	}
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, errors.Wrap(err, "build scatter")
	}

	line := plotter.NewFunction(model.Predict)
	line.XMin, line.XMax = floats.Min(x), floats.Max(x)
	if line.XMin == line.XMax {
		line.XMin--
		line.XMax++
	}
	line.Samples = 2

	p := gonumplot.New()
	p.Title.Text = "Least squares fit"
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"
	p.Add(plotter.NewGrid(), scatter, line)
	p.Legend.Add("samples", scatter)
	p.Legend.Add("fit", line)
	return p, nil
}

// WriteFitPlot renders FitPlot to w in the given format ("png", "svg", "pdf", ...).
func WriteFitPlot(w io.Writer, model Line, x, y []float64, format string) error {
	p, err := FitPlot(model, x, y)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(DefaultWidth, DefaultHeight, format)
	if err != nil {
		return errors.Wrapf(err, "render %s", format)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return errors.Wrap(err, "write plot")
	}
	return nil
}

// SaveFitPlot renders FitPlot to filename. The format follows the extension.
func SaveFitPlot(model Line, x, y []float64, filename string) error {
	p, err := FitPlot(model, x, y)
	if err != nil {
		return err
	}
	if err := p.Save(DefaultWidth, DefaultHeight, filename); err != nil {
		return errors.Wrapf(err, "save %s", filename)
	}
	return nil
}
