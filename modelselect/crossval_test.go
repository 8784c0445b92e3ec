package modelselect

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/mltour/mltour/linear"
)

// lineData returns n rows of the noiseless line y = 2x + 1.
func lineData(n int) (*mat.Dense, *mat.Dense) {
	X := mat.NewDense(n, 1, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		x := float64(i + 1)
		X.Set(i, 0, x)
		y.Set(i, 0, 2*x+1)
	}
	return X, y
}

func TestCrossValidate(t *testing.T) {
	t.Run("Perfect line scores 1 on every fold", func(t *testing.T) {
		X, y := lineData(12)

		lr := linear.NewLinearRegression()
		result, err := CrossValidate(lr, X, y, NewKFold(3, false, 0))
		require.NoError(t, err)

		require.Equal(t, 3, len(result.TestScores))
		require.Equal(t, 3, len(result.TrainScores))
		require.Equal(t, 3, len(result.Models))

		for i := 0; i < 3; i++ {
			assert.InDelta(t, 1.0, result.TestScores[i], 1e-9, "Fold %d test score", i)
			assert.InDelta(t, 1.0, result.TrainScores[i], 1e-9, "Fold %d train score", i)
		}
		assert.InDelta(t, 1.0, result.MeanScore(), 1e-9)
		assert.InDelta(t, 0.0, result.StdScore(), 1e-9)

		// The original estimator stays untouched; the folds fit clones.
		assert.False(t, lr.IsFitted(), "CrossValidate should not fit the original")
		for i, m := range result.Models {
			fold, ok := m.(*linear.LinearRegression)
			require.True(t, ok)
			assert.True(t, fold.IsFitted(), "Fold %d model should be fitted", i)
		}
	})

	t.Run("Classification with stratified folds", func(t *testing.T) {
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

		clf := linear.NewLogisticRegression()
		result, err := CrossValidate(clf, X, y, NewStratifiedKFold(2, false, 0))
		require.NoError(t, err)

		require.Equal(t, 2, len(result.TestScores))
		for i, score := range result.TestScores {
			assert.InDelta(t, 1.0, score, 1e-9, "Fold %d accuracy", i)
		}
	})

	t.Run("Parallel matches sequential", func(t *testing.T) {
		X, y := lineData(20)
		lr := linear.NewLinearRegression()

		sequential, err := CrossValidate(lr, X, y, NewKFold(4, true, 11))
		require.NoError(t, err)
		parallel, err := CrossValidateParallel(lr, X, y, NewKFold(4, true, 11), 4)
		require.NoError(t, err)

		for i := range sequential.TestScores {
			assert.InDelta(t, sequential.TestScores[i], parallel.TestScores[i], 1e-12, "Fold %d", i)
		}
	})

	t.Run("Invalid inputs", func(t *testing.T) {
		X, y := lineData(4)
		lr := linear.NewLinearRegression()

		_, err := CrossValidate(nil, X, y, NewKFold(2, false, 0))
		require.Error(t, err)

		_, err = CrossValidate(lr, X, nil, NewKFold(2, false, 0))
		require.Error(t, err)

		// More folds than samples.
		_, err = CrossValidate(lr, X, y, NewKFold(5, false, 0))
		require.Error(t, err)

		yBad := mat.NewDense(3, 1, []float64{1, 2, 3})
		_, err = CrossValidate(lr, X, yBad, NewKFold(2, false, 0))
		require.Error(t, err)
	})

	t.Run("Nil splitter defaults to 5-fold", func(t *testing.T) {
		X, y := lineData(15)
		lr := linear.NewLinearRegression()

		result, err := CrossValidate(lr, X, y, nil)
		require.NoError(t, err)
		assert.Equal(t, 5, len(result.TestScores))
	})
}

func TestCVResult(t *testing.T) {
	t.Run("Mean and std", func(t *testing.T) {
		result := &CVResult{TestScores: []float64{0.8, 0.85, 0.75, 0.9, 0.7}}

		assert.InDelta(t, 0.8, result.MeanScore(), 1e-9)

		expectedVar := (0.0 +
			(0.85-0.8)*(0.85-0.8) +
			(0.75-0.8)*(0.75-0.8) +
			(0.9-0.8)*(0.9-0.8) +
			(0.7-0.8)*(0.7-0.8)) / 4
		assert.InDelta(t, math.Sqrt(expectedVar), result.StdScore(), 1e-9)
	})

	t.Run("Empty scores", func(t *testing.T) {
		result := &CVResult{}
		assert.Equal(t, 0.0, result.MeanScore())
		assert.Equal(t, 0.0, result.StdScore())
	})

	t.Run("Single score", func(t *testing.T) {
		result := &CVResult{TestScores: []float64{0.5}}
		assert.Equal(t, 0.5, result.MeanScore())
		assert.Equal(t, 0.0, result.StdScore())
	})
}
