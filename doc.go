// Package mltour is an executable tour of classic machine learning in Go.
//
// The tour is a document of ordered cells, prose interleaved with runnable
// code, the way a tutorial notebook reads. Running it executes the code
// cells one by one in document order, captures what each cell prints and
// returns, and renders the whole thing as a single markdown document with
// the outputs inline. The same document always produces the same bytes.
//
// # Quick Start
//
// Run the course from the command line:
//
//	go run ./cmd/mltour -o tour.md -assets assets
//
// Or drive it programmatically:
//
//	package main
//
//	import (
//	    "context"
//	    "log"
//	    "os"
//
//	    "github.com/mltour/mltour/lessons"
//	    "github.com/mltour/mltour/notebook"
//	)
//
//	func main() {
//	    runner := notebook.NewRunner()
//	    report, err := runner.Run(context.Background(), lessons.NewCourse())
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    if err := notebook.RenderMarkdown(os.Stdout, report); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//
// The estimator layer also works on its own, without the notebook:
//
//	X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
//	y := mat.NewDense(4, 1, []float64{2, 4, 6, 8})
//
//	model := linear.NewLinearRegression()
//	if err := model.Fit(X, y); err != nil {
//	    log.Fatal(err)
//	}
//	predictions, err := model.Predict(mat.NewDense(2, 1, []float64{5, 6}))
//
// # Packages
//
//   - notebook: cells, documents, the sequential runner and the markdown renderer
//   - lessons: the course itself, seven lessons from linear regression to metrics
//   - viz: fit plots and score bars as PNG figures via gonum/plot
//   - linear: LinearRegression and LogisticRegression
//   - preprocessing: StandardScaler, MinMaxScaler, PolynomialFeatures
//   - pipeline: ordered transformer + model composition
//   - modelselect: train/test split, KFold, grid and randomized search
//   - datasets: the study-hours table and seeded synthetic generators
//   - metrics: regression and classification scores
//   - core/model: estimator interfaces shared across the layer
//   - pkg/errors, pkg/log: structured errors and logging used throughout
//
// Everything numeric sits on gonum; mltour calls its public API and
// implements no numerical kernels of its own.
package mltour
