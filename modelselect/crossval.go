package modelselect

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/mltour/mltour/core/model"
	"github.com/mltour/mltour/core/parallel"
	"github.com/mltour/mltour/pkg/errors"
)

// Estimator is what model selection needs from a candidate model: it fits,
// predicts, scores itself and produces unfitted clones. Pipelines and the
// linear models all qualify.
type Estimator interface {
	model.Estimator
	model.Scorer
	model.Cloner
}

// CVResult holds per-fold scores and the fitted fold models.
type CVResult struct {
	TrainScores []float64
	TestScores  []float64
	Models      []Estimator
}

// MeanScore returns the mean test score.
func (cv *CVResult) MeanScore() float64 {
	if len(cv.TestScores) == 0 {
		return 0
	}
	sum := 0.0
	for _, score := range cv.TestScores {
		sum += score
	}
	return sum / float64(len(cv.TestScores))
}

// StdScore returns the sample standard deviation of the test scores.
func (cv *CVResult) StdScore() float64 {
	if len(cv.TestScores) <= 1 {
		return 0
	}
	mean := cv.MeanScore()
	sumSq := 0.0
	for _, score := range cv.TestScores {
		diff := score - mean
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(len(cv.TestScores)-1))
}

// CrossValidate fits a fresh clone of the estimator on each fold's train
// rows and scores it on both parts. Folds run sequentially; scores land in
// fold order.
func CrossValidate(est Estimator, X, y mat.Matrix, splitter Splitter) (*CVResult, error) {
	return CrossValidateParallel(est, X, y, splitter, 1)
}

// CrossValidateParallel is CrossValidate with the fold loop fanned across
// the given number of workers. Results are indexed by fold, so raising the
// worker count changes timing only, never scores.
func CrossValidateParallel(est Estimator, X, y mat.Matrix, splitter Splitter, workers int) (*CVResult, error) {
	if est == nil {
		return nil, errors.NewValueError("CrossValidate", "estimator must not be nil")
	}
	if X == nil || y == nil {
		return nil, errors.NewValueError("CrossValidate", "X and y must not be nil")
	}

	n, _ := X.Dims()
	yRows, _ := y.Dims()
	if yRows != n {
		return nil, errors.NewDimensionError("CrossValidate", n, yRows, 0)
	}
	if splitter == nil {
		splitter = NewKFold(5, false, 0)
	}
	if n < splitter.GetNSplits() {
		return nil, errors.NewValueError("CrossValidate", "more folds than samples")
	}

	folds := splitter.Split(X, y)
	for i, fold := range folds {
		if len(fold.TrainIndices) == 0 || len(fold.TestIndices) == 0 {
			return nil, errors.Newf("CrossValidate: fold %d is empty", i)
		}
	}

	nFolds := len(folds)
	result := &CVResult{
		TrainScores: make([]float64, nFolds),
		TestScores:  make([]float64, nFolds),
		Models:      make([]Estimator, nFolds),
	}
	errs := make([]error, nFolds)

	runFold := func(i int) {
		fold := folds[i]
		trainX, trainY := subset(X, y, fold.TrainIndices)
		testX, testY := subset(X, y, fold.TestIndices)

		clone, err := cloneOf(est)
		if err != nil {
			errs[i] = err
			return
		}
		if err := clone.Fit(trainX, trainY); err != nil {
			errs[i] = errors.Wrapf(err, "CrossValidate: fold %d fit failed", i)
			return
		}

		trainScore, err := clone.Score(trainX, trainY)
		if err != nil {
			errs[i] = errors.Wrapf(err, "CrossValidate: fold %d train scoring failed", i)
			return
		}
		testScore, err := clone.Score(testX, testY)
		if err != nil {
			errs[i] = errors.Wrapf(err, "CrossValidate: fold %d test scoring failed", i)
			return
		}

		result.TrainScores[i] = trainScore
		result.TestScores[i] = testScore
		result.Models[i] = clone
	}

	parallel.ParallelizeWithWorkers(nFolds, workers, func(start, end int) {
		for i := start; i < end; i++ {
			runFold(i)
		}
	})

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// cloneOf clones the estimator and checks the clone still satisfies the
// model selection contract.
func cloneOf(est Estimator) (Estimator, error) {
	clone, ok := est.Clone().(Estimator)
	if !ok {
		return nil, errors.NewValueError("CrossValidate", "clone does not support scoring")
	}
	return clone, nil
}
