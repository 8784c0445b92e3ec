package lessons

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/mat"

	"github.com/mltour/mltour/linear"
	"github.com/mltour/mltour/notebook"
)

func classificationLesson() []notebook.Cell {
	return []notebook.Cell{
		notebook.Markdown(`## 3. Logistic regression

Back to the study data from the welcome lesson; those names are still in
scope. Logistic regression models the probability of passing as a sigmoid
over hours studied. The four students are cleanly separated, so the fitted
classifier reproduces the labels exactly.`),

		notebook.Code("logreg-fit", `clf := linear.NewLogisticRegression()
if err := clf.Fit(hours, passed); err != nil {
	return err
}
pred, err := clf.Predict(hours)
if err != nil {
	return err
}
labels := make([]int, 4)
for i := range labels {
	labels[i] = int(pred.At(i, 0))
}
acc, err := clf.Score(hours, passed)
if err != nil {
	return err
}
fmt.Printf("predictions: %v\n", labels)
fmt.Printf("accuracy: %.2f\n", acc)`,
			func(sc *notebook.Scope, out io.Writer) (any, error) {
				hours, err := notebook.Get[*mat.Dense](sc, "hours")
				if err != nil {
					return nil, err
				}
				passed, err := notebook.Get[*mat.Dense](sc, "passed")
				if err != nil {
					return nil, err
				}

				clf := linear.NewLogisticRegression()
				if err := clf.Fit(hours, passed); err != nil {
					return nil, err
				}
				pred, err := clf.Predict(hours)
				if err != nil {
					return nil, err
				}
				rows, _ := pred.Dims()
				labels := make([]int, rows)
				for i := range labels {
					labels[i] = int(pred.At(i, 0))
				}
				acc, err := clf.Score(hours, passed)
				if err != nil {
					return nil, err
				}
				fmt.Fprintf(out, "predictions: %v\n", labels)
				fmt.Fprintf(out, "accuracy: %.2f\n", acc)

				sc.Define("study_model", clf)
				return nil, nil
			}),

		notebook.Code("logreg-proba", `proba, err := clf.PredictProba(mat.NewDense(1, 1, []float64{2.0}))
if err != nil {
	return err
}
fmt.Printf("P(pass | 2.0 hours) = %.4f\n", proba.At(0, 1))`,
			func(sc *notebook.Scope, out io.Writer) (any, error) {
				clf, err := notebook.Get[*linear.LogisticRegression](sc, "study_model")
				if err != nil {
					return nil, err
				}
				proba, err := clf.PredictProba(mat.NewDense(1, 1, []float64{2.0}))
				if err != nil {
					return nil, err
				}
				fmt.Fprintf(out, "P(pass | 2.0 hours) = %.4f\n", proba.At(0, 1))
				return nil, nil
			}),
	}
}
