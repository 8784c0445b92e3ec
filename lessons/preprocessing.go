package lessons

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/mat"

	"github.com/mltour/mltour/notebook"
	"github.com/mltour/mltour/preprocessing"
)

func preprocessingLesson() []notebook.Cell {
	return []notebook.Cell{
		notebook.Markdown(`## 4. Preprocessing

Features on different scales distort distance-based and regularized models,
so scaling comes before fitting. StandardScaler centers each column and
divides by its population standard deviation; the two columns below are
perfectly correlated, so they land on the same scaled values.
PolynomialFeatures expands a feature into powers, which is how a linear
model fits a curve.`),

		notebook.Code("scaler-standard", `X := mat.NewDense(4, 2, []float64{
	1, 10,
	2, 20,
	3, 30,
	4, 40,
})
scaler := preprocessing.NewStandardScalerDefault()
scaled, err := scaler.FitTransform(X)
if err != nil {
	return err
}
fmt.Printf("means: %v\n", scaler.Mean)
fmt.Printf("stds:  [%.4f %.4f]\n", scaler.Scale[0], scaler.Scale[1])
fmt.Printf("scaled first column: [%.4f %.4f %.4f %.4f]\n",
	scaled.At(0, 0), scaled.At(1, 0), scaled.At(2, 0), scaled.At(3, 0))`,
			func(sc *notebook.Scope, out io.Writer) (any, error) {
				X := mat.NewDense(4, 2, []float64{
					1, 10,
					2, 20,
					3, 30,
					4, 40,
				})
				scaler := preprocessing.NewStandardScalerDefault()
				scaled, err := scaler.FitTransform(X)
				if err != nil {
					return nil, err
				}
				fmt.Fprintf(out, "means: %v\n", scaler.Mean)
				fmt.Fprintf(out, "stds:  [%.4f %.4f]\n", scaler.Scale[0], scaler.Scale[1])
				fmt.Fprintf(out, "scaled first column: [%.4f %.4f %.4f %.4f]\n",
					scaled.At(0, 0), scaled.At(1, 0), scaled.At(2, 0), scaled.At(3, 0))

				sc.Define("feature_table", X)
				sc.Define("scaled_table", scaled)
				return nil, nil
			}),

		notebook.Code("scaler-minmax", `minmax := preprocessing.NewMinMaxScalerDefault()
ranged, err := minmax.FitTransform(X)
if err != nil {
	return err
}
fmt.Printf("min-max first column: [%.4f %.4f %.4f %.4f]\n",
	ranged.At(0, 0), ranged.At(1, 0), ranged.At(2, 0), ranged.At(3, 0))`,
			func(sc *notebook.Scope, out io.Writer) (any, error) {
				X, err := notebook.Get[*mat.Dense](sc, "feature_table")
				if err != nil {
					return nil, err
				}
				minmax := preprocessing.NewMinMaxScalerDefault()
				ranged, err := minmax.FitTransform(X)
				if err != nil {
					return nil, err
				}
				fmt.Fprintf(out, "min-max first column: [%.4f %.4f %.4f %.4f]\n",
					ranged.At(0, 0), ranged.At(1, 0), ranged.At(2, 0), ranged.At(3, 0))
				return nil, nil
			}),

		notebook.Code("poly-expand", `poly := preprocessing.NewPolynomialFeatures(3, false)
expanded, err := poly.FitTransform(mat.NewDense(2, 1, []float64{2, 3}))
if err != nil {
	return err
}
return expanded`,
			func(sc *notebook.Scope, out io.Writer) (any, error) {
				poly := preprocessing.NewPolynomialFeatures(3, false)
				expanded, err := poly.FitTransform(mat.NewDense(2, 1, []float64{2, 3}))
				if err != nil {
					return nil, err
				}
				return expanded, nil
			}),
	}
}
