package modelselect

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/mltour/mltour/linear"
	"github.com/mltour/mltour/pipeline"
	"github.com/mltour/mltour/preprocessing"
)

func TestParamGridCandidates(t *testing.T) {
	t.Run("Sorted keys, last key fastest", func(t *testing.T) {
		grid := ParamGrid{
			"poly__degree":          {1, 2},
			"linreg__fit_intercept": {true, false},
		}

		candidates := grid.Candidates()
		require.Equal(t, 4, len(candidates))

		expected := []map[string]interface{}{
			{"linreg__fit_intercept": true, "poly__degree": 1},
			{"linreg__fit_intercept": true, "poly__degree": 2},
			{"linreg__fit_intercept": false, "poly__degree": 1},
			{"linreg__fit_intercept": false, "poly__degree": 2},
		}
		for i := range expected {
			assert.Equal(t, expected[i], candidates[i], "Candidate %d", i)
		}
	})

	t.Run("Empty grid yields one empty candidate", func(t *testing.T) {
		candidates := ParamGrid{}.Candidates()
		require.Equal(t, 1, len(candidates))
		assert.Empty(t, candidates[0])
	})

	t.Run("Key without values yields none", func(t *testing.T) {
		grid := ParamGrid{"C": {}}
		assert.Empty(t, grid.Candidates())
	})
}

// quadraticData returns x = 0..9 with y = x² - 3x + 2.
func quadraticData() (*mat.Dense, *mat.Dense) {
	X := mat.NewDense(10, 1, nil)
	y := mat.NewDense(10, 1, nil)
	for i := 0; i < 10; i++ {
		x := float64(i)
		X.Set(i, 0, x)
		y.Set(i, 0, x*x-3*x+2)
	}
	return X, y
}

func newPolyPipeline(t *testing.T) *pipeline.Pipeline {
	t.Helper()
	pipe, err := pipeline.New(
		pipeline.Step{Name: "poly", Component: preprocessing.NewPolynomialFeaturesDefault()},
		pipeline.Step{Name: "linreg", Component: linear.NewLinearRegression()},
	)
	require.NoError(t, err)
	return pipe
}

func TestGridSearchCV(t *testing.T) {
	t.Run("Finds the quadratic", func(t *testing.T) {
		X, y := quadraticData()

		gs, err := NewGridSearchCV(newPolyPipeline(t), ParamGrid{
			"poly__degree":          {1, 2},
			"linreg__fit_intercept": {true, false},
		}, NewKFold(3, false, 0))
		require.NoError(t, err)

		require.NoError(t, gs.Fit(X, y))

		best := gs.BestParams()
		assert.Equal(t, true, best["linreg__fit_intercept"])
		assert.Equal(t, 2, best["poly__degree"])
		assert.InDelta(t, 1.0, gs.BestScore(), 1e-6)
		assert.Equal(t, 1, gs.BestIndex())

		results := gs.Results()
		require.Equal(t, 4, len(results))
		for i, res := range results {
			assert.Equal(t, 3, len(res.FoldScores), "Candidate %d fold count", i)
		}
		// Degree 1 with intercept underfits the parabola.
		assert.Less(t, results[0].MeanScore, results[1].MeanScore)

		// The winner is refitted on the full data and predicts through it.
		pred, err := gs.Predict(X)
		require.NoError(t, err)
		for i := 0; i < 10; i++ {
			assert.InDelta(t, y.At(i, 0), pred.At(i, 0), 1e-6, "Row %d", i)
		}

		score, err := gs.Score(X, y)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, score, 1e-9)
	})

	t.Run("Ties keep the earliest candidate", func(t *testing.T) {
		X, y := quadraticData()

		// Two identical candidates by construction.
		gs, err := NewGridSearchCV(newPolyPipeline(t), ParamGrid{
			"poly__degree": {2, 2},
		}, NewKFold(3, false, 0))
		require.NoError(t, err)

		require.NoError(t, gs.Fit(X, y))
		assert.Equal(t, 0, gs.BestIndex())
	})

	t.Run("Deterministic across runs", func(t *testing.T) {
		X, y := quadraticData()
		grid := ParamGrid{
			"poly__degree":          {1, 2},
			"linreg__fit_intercept": {true, false},
		}

		first, err := NewGridSearchCV(newPolyPipeline(t), grid, NewKFold(3, false, 0))
		require.NoError(t, err)
		require.NoError(t, first.Fit(X, y))

		second, err := NewGridSearchCV(newPolyPipeline(t), grid, NewKFold(3, false, 0), WithWorkers(4))
		require.NoError(t, err)
		require.NoError(t, second.Fit(X, y))

		assert.Equal(t, first.BestParams(), second.BestParams())
		assert.Equal(t, first.BestScore(), second.BestScore())
		for i := range first.Results() {
			assert.Equal(t, first.Results()[i].FoldScores, second.Results()[i].FoldScores, "Candidate %d", i)
		}
	})

	t.Run("Invalid setups", func(t *testing.T) {
		X, y := quadraticData()

		_, err := NewGridSearchCV(nil, ParamGrid{}, nil)
		require.Error(t, err)

		gs, err := NewGridSearchCV(newPolyPipeline(t), ParamGrid{"poly__degree": {}}, NewKFold(3, false, 0))
		require.NoError(t, err)
		require.Error(t, gs.Fit(X, y))

		// Unknown step in the grid surfaces the routing error.
		gs, err = NewGridSearchCV(newPolyPipeline(t), ParamGrid{"ghost__x": {1}}, NewKFold(3, false, 0))
		require.NoError(t, err)
		require.Error(t, gs.Fit(X, y))
	})

	t.Run("Not fitted", func(t *testing.T) {
		gs, err := NewGridSearchCV(newPolyPipeline(t), ParamGrid{}, nil)
		require.NoError(t, err)

		X, _ := quadraticData()
		_, perr := gs.Predict(X)
		require.Error(t, perr)
		assert.Nil(t, gs.BestParams())
	})
}

func TestParamRange(t *testing.T) {
	t.Run("Integer range covers both endpoints", func(t *testing.T) {
		r := rand.New(rand.NewPCG(7, 7))
		pr := ParamRange[int]{Low: 1, High: 5}

		seen := make(map[int]bool)
		for i := 0; i < 200; i++ {
			v := pr.Sample(r).(int)
			assert.GreaterOrEqual(t, v, 1)
			assert.LessOrEqual(t, v, 5)
			seen[v] = true
		}
		assert.True(t, seen[1], "Low endpoint never sampled")
		assert.True(t, seen[5], "High endpoint never sampled")
	})

	t.Run("Float range stays in bounds", func(t *testing.T) {
		r := rand.New(rand.NewPCG(7, 7))
		pr := ParamRange[float64]{Low: 0.1, High: 10}

		for i := 0; i < 200; i++ {
			v := pr.Sample(r).(float64)
			assert.GreaterOrEqual(t, v, 0.1)
			assert.Less(t, v, 10.0)
		}
	})

	t.Run("Degenerate range returns Low", func(t *testing.T) {
		r := rand.New(rand.NewPCG(7, 7))
		pr := ParamRange[int]{Low: 3, High: 3}
		assert.Equal(t, 3, pr.Sample(r).(int))
	})

	t.Run("Choice", func(t *testing.T) {
		r := rand.New(rand.NewPCG(7, 7))
		choice := Choice{Values: []interface{}{"l2", "none"}}
		for i := 0; i < 50; i++ {
			v := choice.Sample(r).(string)
			assert.Contains(t, []string{"l2", "none"}, v)
		}

		assert.Nil(t, Choice{}.Sample(r))
	})
}

func TestRandomizedSearchCV(t *testing.T) {
	// Two separable clusters, four points per class.
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

	t.Run("Samples and refits", func(t *testing.T) {
		rs, err := NewRandomizedSearchCV(
			linear.NewLogisticRegression(),
			ParamDistributions{"C": ParamRange[float64]{Low: 0.1, High: 10}},
			4,
			NewStratifiedKFold(2, false, 0),
			42,
		)
		require.NoError(t, err)

		require.NoError(t, rs.Fit(X, y))

		results := rs.Results()
		require.Equal(t, 4, len(results))
		for i, res := range results {
			c := res.Params["C"].(float64)
			assert.GreaterOrEqual(t, c, 0.1, "Candidate %d C", i)
			assert.Less(t, c, 10.0, "Candidate %d C", i)
		}

		// The clusters separate for any C, so the best score is perfect.
		assert.InDelta(t, 1.0, rs.BestScore(), 1e-9)
		require.NotNil(t, rs.BestParams())

		pred, err := rs.Predict(X)
		require.NoError(t, err)
		for i := 0; i < 8; i++ {
			assert.Equal(t, y.At(i, 0), pred.At(i, 0), "Row %d", i)
		}
	})

	t.Run("Same seed reproduces the candidates", func(t *testing.T) {
		build := func() *RandomizedSearchCV {
			rs, err := NewRandomizedSearchCV(
				linear.NewLogisticRegression(),
				ParamDistributions{"C": ParamRange[float64]{Low: 0.1, High: 10}},
				3,
				NewStratifiedKFold(2, false, 0),
				42,
			)
			require.NoError(t, err)
			return rs
		}

		first := build()
		require.NoError(t, first.Fit(X, y))
		second := build()
		require.NoError(t, second.Fit(X, y))

		assert.Equal(t, first.BestParams(), second.BestParams())
		for i := range first.Results() {
			assert.Equal(t, first.Results()[i].Params, second.Results()[i].Params, "Candidate %d", i)
		}
	})

	t.Run("Invalid setups", func(t *testing.T) {
		_, err := NewRandomizedSearchCV(nil, ParamDistributions{"C": Choice{Values: []interface{}{1.0}}}, 3, nil, 0)
		require.Error(t, err)

		_, err = NewRandomizedSearchCV(linear.NewLogisticRegression(), ParamDistributions{}, 3, nil, 0)
		require.Error(t, err)

		_, err = NewRandomizedSearchCV(linear.NewLogisticRegression(), ParamDistributions{"C": Choice{Values: []interface{}{1.0}}}, 0, nil, 0)
		require.Error(t, err)

		// An empty choice surfaces during Fit.
		rs, err := NewRandomizedSearchCV(linear.NewLogisticRegression(), ParamDistributions{"C": Choice{}}, 2, NewStratifiedKFold(2, false, 0), 0)
		require.NoError(t, err)
		require.Error(t, rs.Fit(X, y))
	})
}
