package modelselect

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/mltour/mltour/core/model"
	"github.com/mltour/mltour/core/parallel"
	"github.com/mltour/mltour/pkg/errors"
)

// SearchOption configures a hyperparameter search.
type SearchOption func(*searchConfig)

type searchConfig struct {
	workers int
}

// WithWorkers fans candidate evaluation across the given number of workers.
// The default of 1 keeps the search fully sequential.
func WithWorkers(workers int) SearchOption {
	return func(cfg *searchConfig) {
		if workers > 0 {
			cfg.workers = workers
		}
	}
}

// CandidateResult records how one parameter combination performed under
// cross-validation.
type CandidateResult struct {
	Params     map[string]interface{}
	FoldScores []float64
	MeanScore  float64
	StdScore   float64
}

// GridSearchCV evaluates every combination of a parameter grid with
// cross-validation, then refits the best combination on the full data.
// Ties keep the earliest candidate in enumeration order.
type GridSearchCV struct {
	model.BaseEstimator

	estimator Estimator
	grid      ParamGrid
	splitter  Splitter
	workers   int

	results    []CandidateResult
	bestIndex  int
	bestParams map[string]interface{}
	bestScore  float64
	best       Estimator
}

// NewGridSearchCV creates a grid search over the estimator. A nil splitter
// defaults to unshuffled 5-fold.
func NewGridSearchCV(estimator Estimator, grid ParamGrid, splitter Splitter, opts ...SearchOption) (*GridSearchCV, error) {
	if estimator == nil {
		return nil, errors.NewValueError("GridSearchCV", "estimator must not be nil")
	}
	if splitter == nil {
		splitter = NewKFold(5, false, 0)
	}

	cfg := searchConfig{workers: 1}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &GridSearchCV{
		estimator: estimator,
		grid:      grid,
		splitter:  splitter,
		workers:   cfg.workers,
	}, nil
}

// Fit cross-validates every candidate and refits the winner on all of X, y.
func (gs *GridSearchCV) Fit(X, y mat.Matrix) error {
	candidates := gs.grid.Candidates()
	if len(candidates) == 0 {
		return errors.NewValueError("GridSearchCV.Fit", "the parameter grid has no candidates")
	}

	outcome, err := runSearch("GridSearchCV.Fit", gs.estimator, candidates, X, y, gs.splitter, gs.workers)
	if err != nil {
		return err
	}

	gs.results = outcome.results
	gs.bestIndex = outcome.bestIndex
	gs.bestParams = copyParams(candidates[outcome.bestIndex])
	gs.bestScore = outcome.results[outcome.bestIndex].MeanScore
	gs.best = outcome.best
	gs.SetFitted()
	return nil
}

// Predict delegates to the refitted best estimator.
func (gs *GridSearchCV) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !gs.IsFitted() {
		return nil, errors.NewNotFittedError("GridSearchCV", "Predict")
	}
	return gs.best.Predict(X)
}

// Score delegates to the refitted best estimator.
func (gs *GridSearchCV) Score(X, y mat.Matrix) (float64, error) {
	if !gs.IsFitted() {
		return 0, errors.NewNotFittedError("GridSearchCV", "Score")
	}
	return gs.best.Score(X, y)
}

// BestParams returns a copy of the winning parameter combination.
func (gs *GridSearchCV) BestParams() map[string]interface{} {
	if !gs.IsFitted() {
		return nil
	}
	return copyParams(gs.bestParams)
}

// BestScore returns the winning candidate's mean cross-validation score.
func (gs *GridSearchCV) BestScore() float64 {
	return gs.bestScore
}

// BestIndex returns the winning candidate's position in enumeration order.
func (gs *GridSearchCV) BestIndex() int {
	return gs.bestIndex
}

// BestEstimator returns the best candidate refitted on the full data.
func (gs *GridSearchCV) BestEstimator() Estimator {
	return gs.best
}

// Results returns per-candidate results in enumeration order.
func (gs *GridSearchCV) Results() []CandidateResult {
	out := make([]CandidateResult, len(gs.results))
	copy(out, gs.results)
	return out
}

// String returns a compact description of the search.
func (gs *GridSearchCV) String() string {
	return fmt.Sprintf("GridSearchCV(candidates=%d, cv=%d)", len(gs.grid.Candidates()), gs.splitter.GetNSplits())
}

// searchOutcome bundles what a finished candidate sweep produced.
type searchOutcome struct {
	results   []CandidateResult
	bestIndex int
	best      Estimator
}

// runSearch cross-validates each candidate, picks the strictly best mean
// score (earliest wins ties) and refits that candidate on the full data.
func runSearch(op string, est Estimator, candidates []map[string]interface{}, X, y mat.Matrix, splitter Splitter, workers int) (*searchOutcome, error) {
	results := make([]CandidateResult, len(candidates))
	errs := make([]error, len(candidates))

	evaluate := func(i int) {
		candidate, err := applyParams(op, est, candidates[i])
		if err != nil {
			errs[i] = err
			return
		}
		cv, err := CrossValidate(candidate, X, y, splitter)
		if err != nil {
			errs[i] = errors.Wrapf(err, "%s: candidate %d", op, i)
			return
		}
		results[i] = CandidateResult{
			Params:     copyParams(candidates[i]),
			FoldScores: append([]float64(nil), cv.TestScores...),
			MeanScore:  cv.MeanScore(),
			StdScore:   cv.StdScore(),
		}
	}

	parallel.ParallelizeWithWorkers(len(candidates), workers, func(start, end int) {
		for i := start; i < end; i++ {
			evaluate(i)
		}
	})

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	bestIndex := 0
	for i := 1; i < len(results); i++ {
		if results[i].MeanScore > results[bestIndex].MeanScore {
			bestIndex = i
		}
	}

	best, err := applyParams(op, est, candidates[bestIndex])
	if err != nil {
		return nil, err
	}
	if err := best.Fit(X, y); err != nil {
		return nil, errors.Wrapf(err, "%s: refit failed", op)
	}

	return &searchOutcome{results: results, bestIndex: bestIndex, best: best}, nil
}

// applyParams clones the estimator and applies one candidate's parameters.
func applyParams(op string, est Estimator, params map[string]interface{}) (Estimator, error) {
	clone, err := cloneOf(est)
	if err != nil {
		return nil, err
	}
	if len(params) == 0 {
		return clone, nil
	}

	setter, ok := clone.(model.ParamSetter)
	if !ok {
		return nil, errors.NewValueError(op, "estimator does not accept parameters")
	}
	if err := setter.SetParams(params); err != nil {
		return nil, err
	}
	return clone, nil
}
