package linear

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"

	"github.com/mltour/mltour/core/model"
	"github.com/mltour/mltour/metrics"
	"github.com/mltour/mltour/pkg/errors"
)

// LogisticRegression is an L2-regularized logistic classifier. Minimization
// is delegated to gonum's LBFGS; weights start at zero so repeated fits on
// the same data produce identical models. Multiclass problems are handled
// one-vs-rest.
type LogisticRegression struct {
	state *model.StateManager

	penalty      string
	c            float64
	fitIntercept bool
	maxIter      int
	tol          float64

	// coef holds one weight row per class, a single row for binary
	// problems.
	coef      [][]float64
	intercept []float64
	classes   []int
	nClasses  int
	nFeatures int
	nIter     []int
}

// NewLogisticRegression creates a LogisticRegression with scikit-learn's
// defaults: L2 penalty, C=1, intercept, 100 iterations, tolerance 1e-4.
//
// Example:
//
//	clf := linear.NewLogisticRegression(linear.WithC(10))
//	err := clf.Fit(X, y)
//	labels, err := clf.Predict(XTest)
func NewLogisticRegression(opts ...LogisticOption) *LogisticRegression {
	lr := &LogisticRegression{
		state:        model.NewStateManager(),
		penalty:      "l2",
		c:            1.0,
		fitIntercept: true,
		maxIter:      100,
		tol:          1e-4,
	}

	for _, opt := range opts {
		opt(lr)
	}

	return lr
}

// Fit trains the classifier on X and the single-column integer labels y.
func (lr *LogisticRegression) Fit(X, y mat.Matrix) error {
	nSamples, nFeatures := X.Dims()
	yRows, yCols := y.Dims()

	if nSamples == 0 || nFeatures == 0 {
		return errors.NewModelError("LogisticRegression.Fit", "empty data", errors.ErrEmptyData)
	}

	if yRows != nSamples {
		return errors.NewDimensionError("LogisticRegression.Fit", nSamples, yRows, 0)
	}

	if yCols != 1 {
		return errors.NewValueError("LogisticRegression.Fit", "y must be a column vector")
	}

	if err := lr.extractClasses(y); err != nil {
		return err
	}

	if lr.nClasses < 2 {
		return errors.NewValueError("LogisticRegression.Fit", "y must contain at least two classes")
	}

	lr.nFeatures = nFeatures

	rows := lr.nClasses
	if lr.nClasses == 2 {
		rows = 1
	}
	lr.coef = make([][]float64, rows)
	for i := range lr.coef {
		lr.coef[i] = make([]float64, nFeatures)
	}
	lr.intercept = make([]float64, rows)
	lr.nIter = make([]int, rows)

	if lr.nClasses == 2 {
		// Binary: a single separator for the higher class.
		target := signedTargets(y, lr.classes[1])
		if err := lr.fitClass(X, target, 0); err != nil {
			return err
		}
	} else {
		for classIdx, class := range lr.classes {
			target := signedTargets(y, class)
			if err := lr.fitClass(X, target, classIdx); err != nil {
				return err
			}
		}
	}

	lr.state.SetFitted()
	return nil
}

// extractClasses collects the sorted unique labels of y.
func (lr *LogisticRegression) extractClasses(y mat.Matrix) error {
	rows, _ := y.Dims()
	classMap := make(map[int]bool)

	for i := 0; i < rows; i++ {
		v := y.At(i, 0)
		if v != math.Trunc(v) {
			return errors.NewValueError("LogisticRegression.Fit", "labels must be whole numbers")
		}
		classMap[int(v)] = true
	}

	lr.classes = make([]int, 0, len(classMap))
	for class := range classMap {
		lr.classes = append(lr.classes, class)
	}
	sort.Ints(lr.classes)
	lr.nClasses = len(lr.classes)

	return nil
}

// signedTargets maps y to +1 for the positive class and -1 otherwise.
func signedTargets(y mat.Matrix, positive int) []float64 {
	rows, _ := y.Dims()
	target := make([]float64, rows)
	for i := 0; i < rows; i++ {
		if int(y.At(i, 0)) == positive {
			target[i] = 1
		} else {
			target[i] = -1
		}
	}
	return target
}

// fitClass minimizes the regularized logistic loss for one separator. The
// parameter vector is [coef..., intercept]; the intercept is never
// regularized.
func (lr *LogisticRegression) fitClass(X mat.Matrix, target []float64, classIdx int) error {
	nSamples, nFeatures := X.Dims()

	dim := nFeatures
	if lr.fitIntercept {
		dim++
	}

	lambda := 0.0
	if lr.penalty == "l2" {
		lambda = 1.0 / (lr.c * float64(nSamples))
	}

	margin := func(w []float64, i int) float64 {
		z := 0.0
		for j := 0; j < nFeatures; j++ {
			z += X.At(i, j) * w[j]
		}
		if lr.fitIntercept {
			z += w[nFeatures]
		}
		return target[i] * z
	}

	problem := optimize.Problem{
		Func: func(w []float64) float64 {
			loss := 0.0
			for i := 0; i < nSamples; i++ {
				loss += logisticLoss(margin(w, i))
			}
			loss /= float64(nSamples)

			for j := 0; j < nFeatures; j++ {
				loss += 0.5 * lambda * w[j] * w[j]
			}
			return loss
		},
		Grad: func(grad, w []float64) {
			for j := range grad {
				grad[j] = 0
			}
			for i := 0; i < nSamples; i++ {
				// d/dz log(1+exp(-t·z)) = -t·σ(-t·z)
				dz := -target[i] * sigmoid(-margin(w, i))
				for j := 0; j < nFeatures; j++ {
					grad[j] += dz * X.At(i, j)
				}
				if lr.fitIntercept {
					grad[nFeatures] += dz
				}
			}
			for j := range grad {
				grad[j] /= float64(nSamples)
			}
			for j := 0; j < nFeatures; j++ {
				grad[j] += lambda * w[j]
			}
		},
	}

	// Zero start keeps fits reproducible.
	w0 := make([]float64, dim)

	settings := &optimize.Settings{
		GradientThreshold: lr.tol,
		MajorIterations:   lr.maxIter,
	}

	result, err := optimize.Minimize(problem, w0, settings, &optimize.LBFGS{})
	if result == nil {
		return errors.NewModelError("LogisticRegression.Fit", "lbfgs failed", err)
	}

	// An iteration-limit stop still yields usable weights; report it the
	// way scikit-learn does.
	if result.Status == optimize.IterationLimit {
		errors.Warn(errors.NewConvergenceWarning("lbfgs", lr.maxIter, ""))
	} else if err != nil {
		return errors.NewModelError("LogisticRegression.Fit", "lbfgs failed", err)
	}

	copy(lr.coef[classIdx], result.X[:nFeatures])
	if lr.fitIntercept {
		lr.intercept[classIdx] = result.X[nFeatures]
	}
	lr.nIter[classIdx] = result.Stats.MajorIterations

	return nil
}

// DecisionFunction returns the signed distances to the separator: an n×1
// matrix for binary problems, n×nClasses otherwise.
func (lr *LogisticRegression) DecisionFunction(X mat.Matrix) (mat.Matrix, error) {
	if err := lr.state.RequireFitted("LogisticRegression", "DecisionFunction"); err != nil {
		return nil, err
	}

	nSamples, nFeatures := X.Dims()
	if nFeatures != lr.nFeatures {
		return nil, errors.NewDimensionError("LogisticRegression.DecisionFunction", lr.nFeatures, nFeatures, 1)
	}

	scores := mat.NewDense(nSamples, len(lr.coef), nil)
	for i := 0; i < nSamples; i++ {
		for k := range lr.coef {
			z := lr.intercept[k]
			for j := 0; j < nFeatures; j++ {
				z += X.At(i, j) * lr.coef[k][j]
			}
			scores.Set(i, k, z)
		}
	}

	return scores, nil
}

// Predict returns the most likely class label per row as an n×1 matrix.
func (lr *LogisticRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	scores, err := lr.DecisionFunction(X)
	if err != nil {
		return nil, err
	}

	nSamples, _ := X.Dims()
	predictions := mat.NewDense(nSamples, 1, nil)

	if lr.nClasses == 2 {
		for i := 0; i < nSamples; i++ {
			if scores.At(i, 0) >= 0 {
				predictions.Set(i, 0, float64(lr.classes[1]))
			} else {
				predictions.Set(i, 0, float64(lr.classes[0]))
			}
		}
		return predictions, nil
	}

	for i := 0; i < nSamples; i++ {
		best := 0
		bestScore := scores.At(i, 0)
		for k := 1; k < lr.nClasses; k++ {
			if scores.At(i, k) > bestScore {
				bestScore = scores.At(i, k)
				best = k
			}
		}
		predictions.Set(i, 0, float64(lr.classes[best]))
	}

	return predictions, nil
}

// PredictProba returns per-class probabilities as an n×nClasses matrix, in
// Classes order. Multiclass probabilities are the normalized one-vs-rest
// sigmoids.
func (lr *LogisticRegression) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	scores, err := lr.DecisionFunction(X)
	if err != nil {
		return nil, err
	}

	nSamples, _ := X.Dims()
	probas := mat.NewDense(nSamples, lr.nClasses, nil)

	if lr.nClasses == 2 {
		for i := 0; i < nSamples; i++ {
			p := sigmoid(scores.At(i, 0))
			probas.Set(i, 0, 1-p)
			probas.Set(i, 1, p)
		}
		return probas, nil
	}

	for i := 0; i < nSamples; i++ {
		sum := 0.0
		for k := 0; k < lr.nClasses; k++ {
			p := sigmoid(scores.At(i, k))
			probas.Set(i, k, p)
			sum += p
		}
		if sum == 0 {
			// Every separator rejects the point; fall back to uniform.
			for k := 0; k < lr.nClasses; k++ {
				probas.Set(i, k, 1/float64(lr.nClasses))
			}
			continue
		}
		for k := 0; k < lr.nClasses; k++ {
			probas.Set(i, k, probas.At(i, k)/sum)
		}
	}

	return probas, nil
}

// Score returns the mean accuracy on X and y.
func (lr *LogisticRegression) Score(X, y mat.Matrix) (float64, error) {
	predictions, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}

	return metrics.AccuracyMatrix(y, predictions)
}

// Classes returns a copy of the sorted class labels seen during Fit.
func (lr *LogisticRegression) Classes() []int {
	if lr.classes == nil {
		return nil
	}
	out := make([]int, len(lr.classes))
	copy(out, lr.classes)
	return out
}

// Coef returns a copy of the weight rows, one per separator.
func (lr *LogisticRegression) Coef() [][]float64 {
	if lr.coef == nil {
		return nil
	}
	out := make([][]float64, len(lr.coef))
	for i, row := range lr.coef {
		out[i] = make([]float64, len(row))
		copy(out[i], row)
	}
	return out
}

// Intercept returns a copy of the intercept terms, one per separator.
func (lr *LogisticRegression) Intercept() []float64 {
	if lr.intercept == nil {
		return nil
	}
	out := make([]float64, len(lr.intercept))
	copy(out, lr.intercept)
	return out
}

// NIter returns the optimizer iterations used per separator.
func (lr *LogisticRegression) NIter() []int {
	if lr.nIter == nil {
		return nil
	}
	out := make([]int, len(lr.nIter))
	copy(out, lr.nIter)
	return out
}

// GetParams returns the model hyperparameters.
func (lr *LogisticRegression) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"C":             lr.c,
		"penalty":       lr.penalty,
		"fit_intercept": lr.fitIntercept,
		"max_iter":      lr.maxIter,
		"tol":           lr.tol,
	}
}

// SetParams updates hyperparameters and resets the fitted state.
func (lr *LogisticRegression) SetParams(params map[string]interface{}) error {
	for name, value := range params {
		switch name {
		case "C":
			switch v := value.(type) {
			case float64:
				lr.c = v
			case int:
				lr.c = float64(v)
			default:
				return errors.NewValidationError("C", "must be a float", value)
			}
		case "penalty":
			v, ok := value.(string)
			if !ok || (v != "l2" && v != "none") {
				return errors.NewValidationError("penalty", `must be "l2" or "none"`, value)
			}
			lr.penalty = v
		case "fit_intercept":
			v, ok := value.(bool)
			if !ok {
				return errors.NewValidationError("fit_intercept", "must be a bool", value)
			}
			lr.fitIntercept = v
		case "max_iter":
			switch v := value.(type) {
			case int:
				lr.maxIter = v
			case float64:
				lr.maxIter = int(v)
			default:
				return errors.NewValidationError("max_iter", "must be an int", value)
			}
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

	lr.state.Reset()
	return nil
}

// Clone returns an unfitted copy with the same hyperparameters.
func (lr *LogisticRegression) Clone() model.Estimator {
	return NewLogisticRegression(
		WithC(lr.c),
		WithPenalty(lr.penalty),
		WithLogisticFitIntercept(lr.fitIntercept),
		WithMaxIter(lr.maxIter),
		WithLogisticTol(lr.tol),
	)
}

// IsFitted reports whether Fit has completed.
func (lr *LogisticRegression) IsFitted() bool {
	return lr.state.IsFitted()
}

// String returns a readable representation of the model.
func (lr *LogisticRegression) String() string {
	if !lr.IsFitted() {
		return fmt.Sprintf("LogisticRegression(C=%g, penalty=%s)", lr.c, lr.penalty)
	}
	return fmt.Sprintf("LogisticRegression(C=%g, penalty=%s, classes=%d)", lr.c, lr.penalty, lr.nClasses)
}

// sigmoid computes the logistic function.
func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}

// logisticLoss computes log(1 + exp(-m)) without overflowing for large
// negative margins.
func logisticLoss(m float64) float64 {
	if m > 0 {
		return math.Log1p(math.Exp(-m))
	}
	return -m + math.Log1p(math.Exp(m))
}
