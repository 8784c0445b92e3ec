package linear

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/mltour/mltour/core/model"
	"github.com/mltour/mltour/core/parallel"
	"github.com/mltour/mltour/metrics"
	"github.com/mltour/mltour/pkg/errors"
)

// LinearRegression is an ordinary least squares regressor. The least squares
// problem is solved by gonum's QR-backed mat.Dense.Solve rather than the
// normal equations, which keeps the fit stable on poorly scaled inputs.
type LinearRegression struct {
	model.BaseEstimator

	fitIntercept bool
	tol          float64

	coef      []float64
	intercept float64
	rank      int
	singular  []float64
	nFeatures int
}

// NewLinearRegression creates a LinearRegression. By default an intercept is
// fitted.
//
// Example:
//
//	lr := linear.NewLinearRegression()
//	err := lr.Fit(X, y)
//	yPred, err := lr.Predict(XTest)
func NewLinearRegression(opts ...Option) *LinearRegression {
	lr := &LinearRegression{
		fitIntercept: true,
		tol:          1e-6,
	}

	for _, opt := range opts {
		opt(lr)
	}

	return lr
}

// Fit solves the least squares problem for X and the single-column target y.
func (lr *LinearRegression) Fit(X, y mat.Matrix) error {
	nSamples, nFeatures := X.Dims()
	yRows, yCols := y.Dims()

	if nSamples == 0 || nFeatures == 0 {
		return errors.NewModelError("LinearRegression.Fit", "empty data", errors.ErrEmptyData)
	}

	if yRows != nSamples {
		return errors.NewDimensionError("LinearRegression.Fit", nSamples, yRows, 0)
	}

	if yCols != 1 {
		return errors.NewValueError("LinearRegression.Fit", "y must be a column vector")
	}

	lr.nFeatures = nFeatures

	design := lr.designMatrix(X)

	// Rank and singular values of the design matrix, reported like
	// scikit-learn's rank_ and singular_.
	var svd mat.SVD
	if ok := svd.Factorize(design, mat.SVDNone); !ok {
		return errors.NewModelError("LinearRegression.Fit", "SVD factorization failed", nil)
	}
	lr.singular = svd.Values(nil)
	lr.rank = 0
	for _, s := range lr.singular {
		if s > lr.tol {
			lr.rank++
		}
	}

	var solution mat.Dense
	if err := solution.Solve(design, y); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return errors.NewModelError("LinearRegression.Fit", "solve failed", err)
		}
		if math.IsInf(float64(cond), 0) {
			// Exactly singular: the returned solution is meaningless.
			return errors.NewModelError("LinearRegression.Fit", "singular design matrix", errors.ErrSingularMatrix)
		}
		// Near-singular systems still produce a solution; surface the
		// conditioning as a warning and verify the result below.
		errors.Warn(errors.Newf("LinearRegression.Fit: design matrix is ill-conditioned (condition number %.3g)", float64(cond)))
	}

	offset := 0
	if lr.fitIntercept {
		lr.intercept = solution.At(0, 0)
		offset = 1
	} else {
		lr.intercept = 0
	}

	lr.coef = make([]float64, nFeatures)
	for j := 0; j < nFeatures; j++ {
		lr.coef[j] = solution.At(j+offset, 0)
	}

	for _, w := range append([]float64{lr.intercept}, lr.coef...) {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return errors.NewModelError("LinearRegression.Fit", "singular design matrix", errors.ErrSingularMatrix)
		}
	}

	lr.SetFitted()
	return nil
}

// designMatrix prepends a ones column when an intercept is fitted.
func (lr *LinearRegression) designMatrix(X mat.Matrix) *mat.Dense {
	nSamples, nFeatures := X.Dims()

	if !lr.fitIntercept {
		design := mat.NewDense(nSamples, nFeatures, nil)
		design.Copy(X)
		return design
	}

	design := mat.NewDense(nSamples, nFeatures+1, nil)

	const parallelThreshold = 1000
	parallel.ParallelizeWithThreshold(nSamples, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			design.Set(i, 0, 1.0)
			for j := 0; j < nFeatures; j++ {
				design.Set(i, j+1, X.At(i, j))
			}
		}
	})

	return design
}

// Predict returns the fitted line's values for X as an n×1 matrix.
func (lr *LinearRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !lr.IsFitted() {
		return nil, errors.NewNotFittedError("LinearRegression", "Predict")
	}

	nSamples, nFeatures := X.Dims()
	if nFeatures != lr.nFeatures {
		return nil, errors.NewDimensionError("LinearRegression.Predict", lr.nFeatures, nFeatures, 1)
	}

	predictions := mat.NewDense(nSamples, 1, nil)

	const parallelThreshold = 1000
	parallel.ParallelizeWithThreshold(nSamples, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			pred := lr.intercept
			for j := 0; j < nFeatures; j++ {
				pred += X.At(i, j) * lr.coef[j]
			}
			predictions.Set(i, 0, pred)
		}
	})

	return predictions, nil
}

// Coef returns a copy of the fitted coefficients.
func (lr *LinearRegression) Coef() []float64 {
	if lr.coef == nil {
		return nil
	}
	out := make([]float64, len(lr.coef))
	copy(out, lr.coef)
	return out
}

// Intercept returns the fitted intercept, 0 when none was fitted.
func (lr *LinearRegression) Intercept() float64 {
	return lr.intercept
}

// Rank returns the effective rank of the design matrix seen during Fit.
func (lr *LinearRegression) Rank() int {
	return lr.rank
}

// Singular returns a copy of the design matrix singular values.
func (lr *LinearRegression) Singular() []float64 {
	if lr.singular == nil {
		return nil
	}
	out := make([]float64, len(lr.singular))
	copy(out, lr.singular)
	return out
}

// Score returns the coefficient of determination R² on X and y.
func (lr *LinearRegression) Score(X, y mat.Matrix) (float64, error) {
	if !lr.IsFitted() {
		return 0, errors.NewNotFittedError("LinearRegression", "Score")
	}

	yPred, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}

	return metrics.R2ScoreMatrix(y, yPred)
}

// GetParams returns the model hyperparameters.
func (lr *LinearRegression) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"fit_intercept": lr.fitIntercept,
		"tol":           lr.tol,
	}
}

// SetParams updates hyperparameters and resets the fitted state.
func (lr *LinearRegression) SetParams(params map[string]interface{}) error {
	for name, value := range params {
		switch name {
		case "fit_intercept":
			v, ok := value.(bool)
			if !ok {
				return errors.NewValidationError("fit_intercept", "must be a bool", value)
			}
			lr.fitIntercept = v
		case "tol":
			switch v := value.(type) {
			case float64:
				lr.tol = v
			case int:
				lr.tol = float64(v)
			default:
				return errors.NewValidationError("tol", "must be a float", value)
			}
		default:
			return errors.NewValidationError(name, "unknown parameter", value)
		}
	}

	lr.Reset()
	return nil
}

// Clone returns an unfitted copy with the same hyperparameters.
func (lr *LinearRegression) Clone() model.Estimator {
	return NewLinearRegression(WithFitIntercept(lr.fitIntercept), WithTol(lr.tol))
}

// String returns a readable representation of the model.
func (lr *LinearRegression) String() string {
	if !lr.IsFitted() {
		return fmt.Sprintf("LinearRegression(fit_intercept=%t)", lr.fitIntercept)
	}
	return fmt.Sprintf("LinearRegression(fit_intercept=%t, n_features=%d)", lr.fitIntercept, lr.nFeatures)
}
