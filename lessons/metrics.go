package lessons

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/mat"

	"github.com/mltour/mltour/metrics"
	"github.com/mltour/mltour/notebook"
)

func metricsLesson() []notebook.Cell {
	return []notebook.Cell{
		notebook.Markdown(`## 7. Metrics

Accuracy hides how a classifier fails. The confusion matrix (rows true,
columns predicted) shows all four counts, and precision, recall and F1
follow from it. This hand-sized example is balanced enough that all four
scores agree; the second cell scores the pipeline lesson's predictions,
still sitting in scope, the same way.`),

		notebook.Code("metrics-hand", `yTrue := mat.NewVecDense(8, []float64{1, 0, 1, 1, 0, 1, 0, 0})
yPred := mat.NewVecDense(8, []float64{1, 0, 1, 0, 0, 1, 0, 1})

cm, classes, err := metrics.ConfusionMatrix(yTrue, yPred)
if err != nil {
	return err
}
fmt.Printf("classes: %v\n", classes)
fmt.Printf("%v\n", mat.Formatted(cm))
acc, _ := metrics.Accuracy(yTrue, yPred)
prec, _ := metrics.Precision(yTrue, yPred)
rec, _ := metrics.Recall(yTrue, yPred)
f1, _ := metrics.F1Score(yTrue, yPred)
fmt.Printf("accuracy:  %.4f\n", acc)
fmt.Printf("precision: %.4f\n", prec)
fmt.Printf("recall:    %.4f\n", rec)
fmt.Printf("F1:        %.4f\n", f1)`,
			func(sc *notebook.Scope, out io.Writer) (any, error) {
				yTrue := mat.NewVecDense(8, []float64{1, 0, 1, 1, 0, 1, 0, 0})
				yPred := mat.NewVecDense(8, []float64{1, 0, 1, 0, 0, 1, 0, 1})

				cm, classes, err := metrics.ConfusionMatrix(yTrue, yPred)
				if err != nil {
					return nil, err
				}
				fmt.Fprintf(out, "classes: %v\n", classes)
				fmt.Fprintf(out, "%v\n", mat.Formatted(cm))

				acc, err := metrics.Accuracy(yTrue, yPred)
				if err != nil {
					return nil, err
				}
				prec, err := metrics.Precision(yTrue, yPred)
				if err != nil {
					return nil, err
				}
				rec, err := metrics.Recall(yTrue, yPred)
				if err != nil {
					return nil, err
				}
				f1, err := metrics.F1Score(yTrue, yPred)
				if err != nil {
					return nil, err
				}
				fmt.Fprintf(out, "accuracy:  %.4f\n", acc)
				fmt.Fprintf(out, "precision: %.4f\n", prec)
				fmt.Fprintf(out, "recall:    %.4f\n", rec)
				fmt.Fprintf(out, "F1:        %.4f\n", f1)
				return nil, nil
			}),

		notebook.Code("metrics-live", `yVec := mat.NewVecDense(8, mat.Col(nil, 0, clusterY))
predVec := mat.NewVecDense(8, mat.Col(nil, 0, clusterPred))

acc, _ := metrics.Accuracy(yVec, predVec)
prec, _ := metrics.Precision(yVec, predVec)
rec, _ := metrics.Recall(yVec, predVec)
fmt.Printf("pipeline accuracy:  %.4f\n", acc)
fmt.Printf("pipeline precision: %.4f\n", prec)
fmt.Printf("pipeline recall:    %.4f\n", rec)`,
			func(sc *notebook.Scope, out io.Writer) (any, error) {
				clusterY, err := notebook.Get[*mat.Dense](sc, "cluster_y")
				if err != nil {
					return nil, err
				}
				clusterPred, err := notebook.Get[mat.Matrix](sc, "cluster_pred")
				if err != nil {
					return nil, err
				}
				rows, _ := clusterY.Dims()
				yVec := mat.NewVecDense(rows, mat.Col(nil, 0, clusterY))
				predVec := mat.NewVecDense(rows, mat.Col(nil, 0, clusterPred))

				acc, err := metrics.Accuracy(yVec, predVec)
				if err != nil {
					return nil, err
				}
				prec, err := metrics.Precision(yVec, predVec)
				if err != nil {
					return nil, err
				}
				rec, err := metrics.Recall(yVec, predVec)
				if err != nil {
					return nil, err
				}
				fmt.Fprintf(out, "pipeline accuracy:  %.4f\n", acc)
				fmt.Fprintf(out, "pipeline precision: %.4f\n", prec)
				fmt.Fprintf(out, "pipeline recall:    %.4f\n", rec)
				return nil, nil
			}),
	}
}
