package modelselect

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"golang.org/x/exp/constraints"
	"gonum.org/v1/gonum/mat"

	"github.com/mltour/mltour/core/model"
	"github.com/mltour/mltour/pkg/errors"
)

// Number covers the numeric types a parameter range can sample.
type Number interface {
	constraints.Integer | constraints.Float
}

// Sampler draws one parameter value from a distribution.
type Sampler interface {
	Sample(r *rand.Rand) interface{}
}

// ParamRange samples uniformly between Low and High. Integer ranges include
// both endpoints; float ranges are half-open at the top.
type ParamRange[T Number] struct {
	Low  T
	High T
}

// Sample draws one value from the range.
func (p ParamRange[T]) Sample(r *rand.Rand) interface{} {
	var zero T
	switch any(zero).(type) {
	case float32, float64:
		return T(float64(p.Low) + r.Float64()*(float64(p.High)-float64(p.Low)))
	default:
		span := int64(p.High) - int64(p.Low)
		if span <= 0 {
			return p.Low
		}
		return T(int64(p.Low) + r.Int64N(span+1))
	}
}

// Choice samples uniformly from an explicit list of values.
type Choice struct {
	Values []interface{}
}

// Sample draws one of the listed values, or nil when the list is empty.
func (c Choice) Sample(r *rand.Rand) interface{} {
	if len(c.Values) == 0 {
		return nil
	}
	return c.Values[r.IntN(len(c.Values))]
}

// ParamDistributions maps parameter names to sampling distributions.
type ParamDistributions map[string]Sampler

// RandomizedSearchCV samples a fixed number of parameter combinations from
// per-parameter distributions instead of enumerating a full grid. Sampling
// is seeded and keys are drawn in sorted order, so the candidate list is
// reproducible.
type RandomizedSearchCV struct {
	model.BaseEstimator

	estimator     Estimator
	distributions ParamDistributions
	nIter         int
	splitter      Splitter
	seed          int64
	workers       int

	results    []CandidateResult
	bestIndex  int
	bestParams map[string]interface{}
	bestScore  float64
	best       Estimator
}

// NewRandomizedSearchCV creates a randomized search drawing nIter candidates.
// A nil splitter defaults to unshuffled 5-fold.
func NewRandomizedSearchCV(estimator Estimator, distributions ParamDistributions, nIter int, splitter Splitter, seed int64, opts ...SearchOption) (*RandomizedSearchCV, error) {
	if estimator == nil {
		return nil, errors.NewValueError("RandomizedSearchCV", "estimator must not be nil")
	}
	if len(distributions) == 0 {
		return nil, errors.NewValueError("RandomizedSearchCV", "no parameter distributions given")
	}
	if nIter < 1 {
		return nil, errors.NewValidationError("n_iter", "must be at least 1", nIter)
	}
	if splitter == nil {
		splitter = NewKFold(5, false, 0)
	}

	cfg := searchConfig{workers: 1}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &RandomizedSearchCV{
		estimator:     estimator,
		distributions: distributions,
		nIter:         nIter,
		splitter:      splitter,
		seed:          seed,
		workers:       cfg.workers,
	}, nil
}

// Fit samples the candidates, cross-validates each and refits the winner on
// all of X, y.
func (rs *RandomizedSearchCV) Fit(X, y mat.Matrix) error {
	keys := make([]string, 0, len(rs.distributions))
	for key := range rs.distributions {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	r := rand.New(rand.NewPCG(uint64(rs.seed), uint64(rs.seed)))
	candidates := make([]map[string]interface{}, rs.nIter)
	for i := range candidates {
		candidate := make(map[string]interface{}, len(keys))
		for _, key := range keys {
			value := rs.distributions[key].Sample(r)
			if value == nil {
				return errors.NewValueError("RandomizedSearchCV.Fit", fmt.Sprintf("distribution for %q produced no value", key))
			}
			candidate[key] = value
		}
		candidates[i] = candidate
	}

	outcome, err := runSearch("RandomizedSearchCV.Fit", rs.estimator, candidates, X, y, rs.splitter, rs.workers)
	if err != nil {
		return err
	}

	rs.results = outcome.results
	rs.bestIndex = outcome.bestIndex
	rs.bestParams = copyParams(candidates[outcome.bestIndex])
	rs.bestScore = outcome.results[outcome.bestIndex].MeanScore
	rs.best = outcome.best
	rs.SetFitted()
	return nil
}

// Predict delegates to the refitted best estimator.
func (rs *RandomizedSearchCV) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !rs.IsFitted() {
		return nil, errors.NewNotFittedError("RandomizedSearchCV", "Predict")
	}
	return rs.best.Predict(X)
}

// Score delegates to the refitted best estimator.
func (rs *RandomizedSearchCV) Score(X, y mat.Matrix) (float64, error) {
	if !rs.IsFitted() {
		return 0, errors.NewNotFittedError("RandomizedSearchCV", "Score")
	}
	return rs.best.Score(X, y)
}

// BestParams returns a copy of the winning parameter combination.
func (rs *RandomizedSearchCV) BestParams() map[string]interface{} {
	if !rs.IsFitted() {
		return nil
	}
	return copyParams(rs.bestParams)
}

// BestScore returns the winning candidate's mean cross-validation score.
func (rs *RandomizedSearchCV) BestScore() float64 {
	return rs.bestScore
}

// BestEstimator returns the best candidate refitted on the full data.
func (rs *RandomizedSearchCV) BestEstimator() Estimator {
	return rs.best
}

// Results returns per-candidate results in sampling order.
func (rs *RandomizedSearchCV) Results() []CandidateResult {
	out := make([]CandidateResult, len(rs.results))
	copy(out, rs.results)
	return out
}

// String returns a compact description of the search.
func (rs *RandomizedSearchCV) String() string {
	return fmt.Sprintf("RandomizedSearchCV(n_iter=%d, cv=%d)", rs.nIter, rs.splitter.GetNSplits())
}
