package lessons

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/mltour/mltour/datasets"
	"github.com/mltour/mltour/linear"
	"github.com/mltour/mltour/modelselect"
	"github.com/mltour/mltour/notebook"
	"github.com/mltour/mltour/pipeline"
	"github.com/mltour/mltour/preprocessing"
	"github.com/mltour/mltour/viz"
)

func modelSelectionLesson() []notebook.Cell {
	return []notebook.Cell{
		notebook.Markdown(`## 6. Model selection

Scoring a model on its own training data flatters it. A held-out split
measures generalization; cross-validation measures it k times; grid search
runs cross-validation for every hyperparameter combination and keeps the
best. The search below recovers the degree of a quadratic from data alone:
y = x² - 3x + 2 needs degree 2 and an intercept, and exactly that candidate
scores a perfect mean R².`),

		notebook.Code("split-evaluate", `X, y, err := datasets.MakeBlobs(20, [][]float64{{1, 1}, {5, 5}}, 0.4, 7)
if err != nil {
	return err
}
XTrain, XTest, yTrain, yTest, err := modelselect.TrainTestSplit(X, y, 0.25, 21)
if err != nil {
	return err
}
clf := linear.NewLogisticRegression()
if err := clf.Fit(XTrain, yTrain); err != nil {
	return err
}
acc, err := clf.Score(XTest, yTest)
if err != nil {
	return err
}
nTrain, _ := XTrain.Dims()
nTest, _ := XTest.Dims()
fmt.Printf("train: %d samples, test: %d samples\n", nTrain, nTest)
fmt.Printf("held-out accuracy: %.2f\n", acc)`,
			func(sc *notebook.Scope, out io.Writer) (any, error) {
				X, y, err := datasets.MakeBlobs(20, [][]float64{{1, 1}, {5, 5}}, 0.4, 7)
				if err != nil {
					return nil, err
				}
				XTrain, XTest, yTrain, yTest, err := modelselect.TrainTestSplit(X, y, 0.25, 21)
				if err != nil {
					return nil, err
				}
				clf := linear.NewLogisticRegression()
				if err := clf.Fit(XTrain, yTrain); err != nil {
					return nil, err
				}
				acc, err := clf.Score(XTest, yTest)
				if err != nil {
					return nil, err
				}
				nTrain, _ := XTrain.Dims()
				nTest, _ := XTest.Dims()
				fmt.Fprintf(out, "train: %d samples, test: %d samples\n", nTrain, nTest)
				fmt.Fprintf(out, "held-out accuracy: %.2f\n", acc)
				return nil, nil
			}),

		notebook.Code("gridsearch-quadratic", `xs := make([]float64, 10)
ys := make([]float64, 10)
for i := range xs {
	x := float64(i)
	xs[i] = x
	ys[i] = x*x - 3*x + 2
}
X := mat.NewDense(10, 1, xs)
y := mat.NewDense(10, 1, ys)

pipe, err := pipeline.New(
	pipeline.Step{Name: "poly", Component: preprocessing.NewPolynomialFeaturesDefault()},
	pipeline.Step{Name: "linreg", Component: linear.NewLinearRegression()},
)
if err != nil {
	return err
}
grid := modelselect.ParamGrid{
	"poly__degree":          {1, 2},
	"linreg__fit_intercept": {true, false},
}
search, err := modelselect.NewGridSearchCV(pipe, grid, modelselect.NewKFold(3, false, 0))
if err != nil {
	return err
}
if err := search.Fit(X, y); err != nil {
	return err
}
fmt.Printf("best params: %s\n", formatParams(search.BestParams()))
fmt.Printf("best score:  %.4f\n", search.BestScore())
for rank, r := range rankCandidates(search.Results()) {
	fmt.Printf("rank %d: degree=%v intercept=%v mean R²=%.4f\n",
		rank+1, r.Params["poly__degree"], r.Params["linreg__fit_intercept"], r.MeanScore)
}`,
			func(sc *notebook.Scope, out io.Writer) (any, error) {
				xs := make([]float64, 10)
				ys := make([]float64, 10)
				for i := range xs {
					x := float64(i)
					xs[i] = x
					ys[i] = x*x - 3*x + 2
				}
				X := mat.NewDense(10, 1, xs)
				y := mat.NewDense(10, 1, ys)

				pipe, err := pipeline.New(
					pipeline.Step{Name: "poly", Component: preprocessing.NewPolynomialFeaturesDefault()},
					pipeline.Step{Name: "linreg", Component: linear.NewLinearRegression()},
				)
				if err != nil {
					return nil, err
				}
				grid := modelselect.ParamGrid{
					"poly__degree":          {1, 2},
					"linreg__fit_intercept": {true, false},
				}
				search, err := modelselect.NewGridSearchCV(pipe, grid, modelselect.NewKFold(3, false, 0))
				if err != nil {
					return nil, err
				}
				if err := search.Fit(X, y); err != nil {
					return nil, err
				}
				fmt.Fprintf(out, "best params: %s\n", formatParams(search.BestParams()))
				fmt.Fprintf(out, "best score:  %.4f\n", search.BestScore())
				for rank, r := range rankCandidates(search.Results()) {
					fmt.Fprintf(out, "rank %d: degree=%v intercept=%v mean R²=%.4f\n",
						rank+1, r.Params["poly__degree"], r.Params["linreg__fit_intercept"], r.MeanScore)
				}

				sc.Define("quad_search", search)
				return nil, nil
			}),

		notebook.Code("gridsearch-plot", `results := search.Results()
labels := make([]string, len(results))
scores := make([]float64, len(results))
for i, r := range results {
	labels[i] = fmt.Sprintf("deg=%v int=%v", r.Params["poly__degree"], r.Params["linreg__fit_intercept"])
	scores[i] = r.MeanScore
}
fig, err := viz.ScoreBar("cv-scores", "3-fold mean R² by candidate", labels, scores)
if err != nil {
	return err
}
return fig`,
			func(sc *notebook.Scope, out io.Writer) (any, error) {
				search, err := notebook.Get[*modelselect.GridSearchCV](sc, "quad_search")
				if err != nil {
					return nil, err
				}
				results := search.Results()
				labels := make([]string, len(results))
				scores := make([]float64, len(results))
				for i, r := range results {
					labels[i] = fmt.Sprintf("deg=%v int=%v", r.Params["poly__degree"], r.Params["linreg__fit_intercept"])
					scores[i] = r.MeanScore
				}
				fig, err := viz.ScoreBar("cv-scores", "3-fold mean R² by candidate", labels, scores)
				if err != nil {
					return nil, err
				}
				return fig, nil
			}),
	}
}

// formatParams renders a parameter map as "key=value" pairs in sorted key
// order, so the printed line is stable.
func formatParams(params map[string]interface{}) string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, key := range keys {
		parts[i] = fmt.Sprintf("%s=%v", key, params[key])
	}
	return strings.Join(parts, " ")
}

// rankCandidates orders search results by mean score, best first. The sort
// is stable so equal scores keep candidate enumeration order.
func rankCandidates(results []modelselect.CandidateResult) []modelselect.CandidateResult {
	ranked := make([]modelselect.CandidateResult, len(results))
	copy(ranked, results)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].MeanScore > ranked[j].MeanScore
	})
	return ranked
}
