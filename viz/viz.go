// Package viz builds the tutorial's figures on gonum/plot. Every function
// returns a notebook.Figure carrying encoded PNG bytes; nothing here touches
// disk, the renderer decides where figures land.
package viz

import (
	"bytes"
	"image/color"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/mltour/mltour/core/model"
	"github.com/mltour/mltour/notebook"
	"github.com/mltour/mltour/pkg/errors"
)

const lineSamples = 100

// FitPlot draws the single-feature dataset (X, y) as a scatter and overlays
// the fitted model's predictions as a line across the feature's range. The
// grid has enough points that curved fits render smoothly, so est only needs
// to accept single-column input.
func FitPlot(name, title string, X, y mat.Matrix, est model.Predictor) (notebook.Figure, error) {
	if X == nil || y == nil || est == nil {
		return notebook.Figure{}, errors.NewValueError("FitPlot", "X, y and est must not be nil")
	}
	rows, cols := X.Dims()
	if cols != 1 {
		return notebook.Figure{}, errors.NewDimensionError("FitPlot", 1, cols, 1)
	}
	yRows, _ := y.Dims()
	if yRows != rows {
		return notebook.Figure{}, errors.NewDimensionError("FitPlot", rows, yRows, 0)
	}
	if rows == 0 {
		return notebook.Figure{}, errors.NewValueError("FitPlot", "X must not be empty")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, rows)
	lo, hi := X.At(0, 0), X.At(0, 0)
	for i := 0; i < rows; i++ {
		x := X.At(i, 0)
		pts[i].X = x
		pts[i].Y = y.At(i, 0)
		if x < lo {
			lo = x
		}
		if x > hi {
			hi = x
		}
	}
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return notebook.Figure{}, errors.Wrapf(err, "mltour: figure %q: scatter", name)
	}
	scatter.Color = color.RGBA{R: 50, G: 50, B: 255, A: 255}
	scatter.Radius = vg.Points(3)
	p.Add(scatter)

	grid := mat.NewDense(lineSamples, 1, nil)
	for i := 0; i < lineSamples; i++ {
		grid.Set(i, 0, lo+(hi-lo)*float64(i)/float64(lineSamples-1))
	}
	pred, err := est.Predict(grid)
	if err != nil {
		return notebook.Figure{}, errors.Wrapf(err, "mltour: figure %q: predict", name)
	}
	linePts := make(plotter.XYs, lineSamples)
	for i := 0; i < lineSamples; i++ {
		linePts[i].X = grid.At(i, 0)
		linePts[i].Y = pred.At(i, 0)
	}
	line, err := plotter.NewLine(linePts)
	if err != nil {
		return notebook.Figure{}, errors.Wrapf(err, "mltour: figure %q: line", name)
	}
	line.Color = color.RGBA{R: 255, A: 255}
	line.LineStyle.Width = vg.Points(2)
	p.Add(line)

	p.Legend.Add("data", scatter)
	p.Legend.Add("fit", line)
	p.Legend.Top = true

	return encode(p, name)
}

// ScoreBar draws one bar per labeled score, for comparing cross-validation
// candidates side by side.
func ScoreBar(name, title string, labels []string, scores []float64) (notebook.Figure, error) {
	if len(scores) == 0 {
		return notebook.Figure{}, errors.NewValueError("ScoreBar", "scores must not be empty")
	}
	if len(labels) != len(scores) {
		return notebook.Figure{}, errors.NewValueError("ScoreBar", "labels and scores must have the same length")
	}

	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = "score"

	bars, err := plotter.NewBarChart(plotter.Values(scores), vg.Points(24))
	if err != nil {
		return notebook.Figure{}, errors.Wrapf(err, "mltour: figure %q: bars", name)
	}
	bars.Color = color.RGBA{R: 50, G: 50, B: 255, A: 255}
	p.Add(bars)
	p.NominalX(labels...)

	return encode(p, name)
}

func encode(p *plot.Plot, name string) (notebook.Figure, error) {
	wt, err := p.WriterTo(5*vg.Inch, 4*vg.Inch, "png")
	if err != nil {
		return notebook.Figure{}, errors.Wrapf(err, "mltour: figure %q: encode", name)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return notebook.Figure{}, errors.Wrapf(err, "mltour: figure %q: encode", name)
	}
	return notebook.Figure{Name: name, PNG: buf.Bytes()}, nil
}
