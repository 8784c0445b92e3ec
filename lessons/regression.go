package lessons

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/mat"

	"github.com/mltour/mltour/linear"
	"github.com/mltour/mltour/notebook"
	"github.com/mltour/mltour/viz"
)

func regressionLesson() []notebook.Cell {
	return []notebook.Cell{
		notebook.Markdown(`## 2. Linear regression

Four employees, years of experience against salary in $10k. The data lies
exactly on salary = 2·experience + 1, so ordinary least squares recovers the
slope and intercept to full precision and the R² score is a perfect 1.`),

		notebook.Code("linreg-fit", `X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
y := mat.NewDense(4, 1, []float64{3, 5, 7, 9})

lr := linear.NewLinearRegression()
if err := lr.Fit(X, y); err != nil {
	return err
}
fmt.Printf("coefficient: %.4f\n", lr.Coef()[0])
fmt.Printf("intercept:   %.4f\n", lr.Intercept())`,
			func(sc *notebook.Scope, out io.Writer) (any, error) {
				X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
				y := mat.NewDense(4, 1, []float64{3, 5, 7, 9})

				lr := linear.NewLinearRegression()
				if err := lr.Fit(X, y); err != nil {
					return nil, err
				}
				fmt.Fprintf(out, "coefficient: %.4f\n", lr.Coef()[0])
				fmt.Fprintf(out, "intercept:   %.4f\n", lr.Intercept())

				sc.Define("experience", X)
				sc.Define("salary", y)
				sc.Define("salary_model", lr)
				return nil, nil
			}),

		notebook.Code("linreg-predict", `r2, err := lr.Score(X, y)
if err != nil {
	return err
}
pred, err := lr.Predict(mat.NewDense(1, 1, []float64{5}))
if err != nil {
	return err
}
fmt.Printf("R²: %.4f\n", r2)
fmt.Printf("predicted salary at 5 years: %.2f\n", pred.At(0, 0))`,
			func(sc *notebook.Scope, out io.Writer) (any, error) {
				lr, err := notebook.Get[*linear.LinearRegression](sc, "salary_model")
				if err != nil {
					return nil, err
				}
				X, err := notebook.Get[*mat.Dense](sc, "experience")
				if err != nil {
					return nil, err
				}
				y, err := notebook.Get[*mat.Dense](sc, "salary")
				if err != nil {
					return nil, err
				}

				r2, err := lr.Score(X, y)
				if err != nil {
					return nil, err
				}
				pred, err := lr.Predict(mat.NewDense(1, 1, []float64{5}))
				if err != nil {
					return nil, err
				}
				fmt.Fprintf(out, "R²: %.4f\n", r2)
				fmt.Fprintf(out, "predicted salary at 5 years: %.2f\n", pred.At(0, 0))
				return nil, nil
			}),

		notebook.Code("linreg-plot", `fig, err := viz.FitPlot("regression-fit", "Experience vs salary", X, y, lr)
if err != nil {
	return err
}
return fig`,
			func(sc *notebook.Scope, out io.Writer) (any, error) {
				lr, err := notebook.Get[*linear.LinearRegression](sc, "salary_model")
				if err != nil {
					return nil, err
				}
				X, err := notebook.Get[*mat.Dense](sc, "experience")
				if err != nil {
					return nil, err
				}
				y, err := notebook.Get[*mat.Dense](sc, "salary")
				if err != nil {
					return nil, err
				}

				fig, err := viz.FitPlot("regression-fit", "Experience vs salary", X, y, lr)
				if err != nil {
					return nil, err
				}
				return fig, nil
			}),
	}
}
