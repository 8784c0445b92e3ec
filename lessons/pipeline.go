package lessons

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/mat"

	"github.com/mltour/mltour/linear"
	"github.com/mltour/mltour/notebook"
	"github.com/mltour/mltour/pipeline"
	"github.com/mltour/mltour/preprocessing"
)

func pipelineLesson() []notebook.Cell {
	return []notebook.Cell{
		notebook.Markdown(`## 5. Pipelines

A pipeline chains named steps: every step but the last transforms its
input, the last one fits and predicts. Fitting the pipeline fits the scaler
on the raw points, transforms them, and fits the classifier on the result;
prediction replays the same chain. Two well-separated clusters make the
outcome easy to check by eye.`),

		notebook.Code("pipeline-fit", `X := mat.NewDense(8, 2, []float64{
	1.0, 1.0,
	1.2, 0.8,
	0.8, 1.2,
	1.1, 1.1,
	3.0, 3.0,
	3.2, 2.8,
	2.8, 3.2,
	2.9, 3.1,
})
y := mat.NewDense(8, 1, []float64{0, 0, 0, 0, 1, 1, 1, 1})

pipe, err := pipeline.New(
	pipeline.Step{Name: "scaler", Component: preprocessing.NewStandardScalerDefault()},
	pipeline.Step{Name: "clf", Component: linear.NewLogisticRegression()},
)
if err != nil {
	return err
}
if err := pipe.Fit(X, y); err != nil {
	return err
}
pred, err := pipe.Predict(X)
if err != nil {
	return err
}
labels := make([]int, 8)
for i := range labels {
	labels[i] = int(pred.At(i, 0))
}
fmt.Printf("predictions: %v\n", labels)`,
			func(sc *notebook.Scope, out io.Writer) (any, error) {
				X := mat.NewDense(8, 2, []float64{
					1.0, 1.0,
					1.2, 0.8,
					0.8, 1.2,
					1.1, 1.1,
					3.0, 3.0,
					3.2, 2.8,
					2.8, 3.2,
					2.9, 3.1,
				})
				y := mat.NewDense(8, 1, []float64{0, 0, 0, 0, 1, 1, 1, 1})

				pipe, err := pipeline.New(
					pipeline.Step{Name: "scaler", Component: preprocessing.NewStandardScalerDefault()},
					pipeline.Step{Name: "clf", Component: linear.NewLogisticRegression()},
				)
				if err != nil {
					return nil, err
				}
				if err := pipe.Fit(X, y); err != nil {
					return nil, err
				}
				pred, err := pipe.Predict(X)
				if err != nil {
					return nil, err
				}
				rows, _ := pred.Dims()
				labels := make([]int, rows)
				for i := range labels {
					labels[i] = int(pred.At(i, 0))
				}
				fmt.Fprintf(out, "predictions: %v\n", labels)

				sc.Define("cluster_X", X)
				sc.Define("cluster_y", y)
				sc.Define("cluster_pipeline", pipe)
				sc.Define("cluster_pred", pred)
				return nil, nil
			}),

		notebook.Code("pipeline-new", `fresh := mat.NewDense(2, 2, []float64{
	0.9, 1.0,
	3.1, 2.9,
})
pred, err := pipe.Predict(fresh)
if err != nil {
	return err
}
fmt.Printf("(0.9, 1.0) -> class %.0f\n", pred.At(0, 0))
fmt.Printf("(3.1, 2.9) -> class %.0f\n", pred.At(1, 0))`,
			func(sc *notebook.Scope, out io.Writer) (any, error) {
				pipe, err := notebook.Get[*pipeline.Pipeline](sc, "cluster_pipeline")
				if err != nil {
					return nil, err
				}
				fresh := mat.NewDense(2, 2, []float64{
					0.9, 1.0,
					3.1, 2.9,
				})
				pred, err := pipe.Predict(fresh)
				if err != nil {
					return nil, err
				}
				fmt.Fprintf(out, "(0.9, 1.0) -> class %.0f\n", pred.At(0, 0))
				fmt.Fprintf(out, "(3.1, 2.9) -> class %.0f\n", pred.At(1, 0))
				return nil, nil
			}),
	}
}
