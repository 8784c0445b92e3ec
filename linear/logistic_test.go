package linear

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/mltour/mltour/pkg/errors"
)

func TestLogisticRegressionBinary(t *testing.T) {
	// Two well separated clusters around (1,1) and (3,3).
	X := mat.NewDense(6, 2, []float64{
		1.0, 1.0,
		1.2, 0.8,
		0.8, 1.2,
		3.0, 3.0,
		3.2, 2.8,
		2.8, 3.2,
	})
	y := mat.NewDense(6, 1, []float64{0, 0, 0, 1, 1, 1})

	clf := NewLogisticRegression()

	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}

	pred, err := clf.Predict(X)
	if err != nil {
		t.Fatalf("Failed to predict: %v", err)
	}

	for i := 0; i < 6; i++ {
		if pred.At(i, 0) != y.At(i, 0) {
			t.Errorf("Sample %d: expected class %v, got %v", i, y.At(i, 0), pred.At(i, 0))
		}
	}

	// New points near each cluster centre.
	XNew := mat.NewDense(2, 2, []float64{
		1.1, 0.9,
		2.9, 3.1,
	})
	predNew, err := clf.Predict(XNew)
	if err != nil {
		t.Fatalf("Failed to predict new points: %v", err)
	}
	if predNew.At(0, 0) != 0 {
		t.Errorf("Expected class 0 near (1,1), got %v", predNew.At(0, 0))
	}
	if predNew.At(1, 0) != 1 {
		t.Errorf("Expected class 1 near (3,3), got %v", predNew.At(1, 0))
	}
}

func TestLogisticRegressionSingleFeature(t *testing.T) {
	// Hours studied against pass/fail, symmetric around 1.75.
	X := mat.NewDense(4, 1, []float64{0.5, 1.0, 2.5, 3.0})
	y := mat.NewDense(4, 1, []float64{0, 0, 1, 1})

	clf := NewLogisticRegression()
	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}

	pred, err := clf.Predict(X)
	if err != nil {
		t.Fatalf("Failed to predict: %v", err)
	}

	expected := []float64{0, 0, 1, 1}
	for i := range expected {
		if pred.At(i, 0) != expected[i] {
			t.Errorf("Sample %d: expected %v, got %v", i, expected[i], pred.At(i, 0))
		}
	}

	score, err := clf.Score(X, y)
	if err != nil {
		t.Fatalf("Failed to score: %v", err)
	}
	if score != 1.0 {
		t.Errorf("Expected accuracy 1.0, got %f", score)
	}
}

func TestLogisticRegressionPredictProba(t *testing.T) {
	X := mat.NewDense(6, 2, []float64{
		1.0, 1.0,
		1.2, 0.8,
		0.8, 1.2,
		3.0, 3.0,
		3.2, 2.8,
		2.8, 3.2,
	})
	y := mat.NewDense(6, 1, []float64{0, 0, 0, 1, 1, 1})

	clf := NewLogisticRegression()
	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}

	proba, err := clf.PredictProba(X)
	if err != nil {
		t.Fatalf("Failed to predict probabilities: %v", err)
	}

	rows, cols := proba.Dims()
	if rows != 6 || cols != 2 {
		t.Fatalf("Expected probability matrix 6x2, got %dx%d", rows, cols)
	}

	pred, err := clf.Predict(X)
	if err != nil {
		t.Fatalf("Failed to predict: %v", err)
	}

	classes := clf.Classes()
	for i := 0; i < rows; i++ {
		sum := 0.0
		for j := 0; j < cols; j++ {
			p := proba.At(i, j)
			if p < 0 || p > 1 {
				t.Errorf("Probability out of range at (%d,%d): %f", i, j, p)
			}
			sum += p
		}
		if math.Abs(sum-1.0) > 1e-9 {
			t.Errorf("Row %d probabilities sum to %f, want 1.0", i, sum)
		}

		// The predicted class carries the largest probability.
		best := 0
		for j := 1; j < cols; j++ {
			if proba.At(i, j) > proba.At(i, best) {
				best = j
			}
		}
		if float64(classes[best]) != pred.At(i, 0) {
			t.Errorf("Row %d: argmax class %d disagrees with Predict %v",
				i, classes[best], pred.At(i, 0))
		}
	}
}

func TestLogisticRegressionScore(t *testing.T) {
	// Labels follow a simple threshold on the feature sum.
	X := mat.NewDense(8, 3, []float64{
		0, 0, 0,
		0, 0, 1,
		0, 1, 0,
		0, 1, 1,
		1, 0, 0,
		1, 0, 1,
		1, 1, 0,
		1, 1, 1,
	})
	y := mat.NewDense(8, 1, []float64{0, 0, 0, 1, 0, 1, 1, 1})

	clf := NewLogisticRegression(WithC(10.0), WithMaxIter(1000))
	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}

	score, err := clf.Score(X, y)
	if err != nil {
		t.Fatalf("Failed to score: %v", err)
	}
	if score < 0.75 {
		t.Errorf("Expected training accuracy >= 0.75, got %f", score)
	}
}

func TestLogisticRegressionRegularization(t *testing.T) {
	X := mat.NewDense(6, 2, []float64{
		1.0, 1.0,
		1.2, 0.8,
		0.8, 1.2,
		3.0, 3.0,
		3.2, 2.8,
		2.8, 3.2,
	})
	y := mat.NewDense(6, 1, []float64{0, 0, 0, 1, 1, 1})

	strong := NewLogisticRegression(WithC(0.01))
	if err := strong.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit strongly regularized model: %v", err)
	}

	weak := NewLogisticRegression(WithC(100.0))
	if err := weak.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit weakly regularized model: %v", err)
	}

	normOf := func(coef [][]float64) float64 {
		sum := 0.0
		for _, row := range coef {
			for _, v := range row {
				sum += v * v
			}
		}
		return math.Sqrt(sum)
	}

	if normOf(strong.Coef()) >= normOf(weak.Coef()) {
		t.Errorf("Expected stronger regularization to shrink coefficients: %f >= %f",
			normOf(strong.Coef()), normOf(weak.Coef()))
	}
}

func TestLogisticRegressionMulticlass(t *testing.T) {
	// Three clusters around (1,1), (5,5) and (9,1).
	X := mat.NewDense(9, 2, []float64{
		1.0, 1.0,
		1.2, 0.8,
		0.8, 1.2,
		5.0, 5.0,
		5.2, 4.8,
		4.8, 5.2,
		9.0, 1.0,
		9.2, 0.8,
		8.8, 1.2,
	})
	y := mat.NewDense(9, 1, []float64{0, 0, 0, 1, 1, 1, 2, 2, 2})

	clf := NewLogisticRegression(WithMaxIter(500))
	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}

	classes := clf.Classes()
	if len(classes) != 3 {
		t.Fatalf("Expected 3 classes, got %d", len(classes))
	}
	for i, want := range []int{0, 1, 2} {
		if classes[i] != want {
			t.Errorf("Expected class %d at position %d, got %d", want, i, classes[i])
		}
	}

	score, err := clf.Score(X, y)
	if err != nil {
		t.Fatalf("Failed to score: %v", err)
	}
	if score < 8.0/9.0 {
		t.Errorf("Expected training accuracy >= 8/9, got %f", score)
	}

	proba, err := clf.PredictProba(X)
	if err != nil {
		t.Fatalf("Failed to predict probabilities: %v", err)
	}
	rows, cols := proba.Dims()
	if rows != 9 || cols != 3 {
		t.Fatalf("Expected probability matrix 9x3, got %dx%d", rows, cols)
	}
	for i := 0; i < rows; i++ {
		sum := 0.0
		for j := 0; j < cols; j++ {
			sum += proba.At(i, j)
		}
		if math.Abs(sum-1.0) > 1e-9 {
			t.Errorf("Row %d probabilities sum to %f, want 1.0", i, sum)
		}
	}
}

func TestLogisticRegressionGetSetParams(t *testing.T) {
	clf := NewLogisticRegression()

	params := clf.GetParams()
	if params["C"].(float64) != 1.0 {
		t.Errorf("Expected default C=1.0, got %v", params["C"])
	}
	if params["max_iter"].(int) != 100 {
		t.Errorf("Expected default max_iter=100, got %v", params["max_iter"])
	}
	if params["penalty"].(string) != "l2" {
		t.Errorf("Expected default penalty l2, got %v", params["penalty"])
	}

	X := mat.NewDense(4, 1, []float64{0.5, 1.0, 2.5, 3.0})
	y := mat.NewDense(4, 1, []float64{0, 0, 1, 1})
	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}

	if err := clf.SetParams(map[string]interface{}{
		"C":        2.0,
		"max_iter": 200,
		"penalty":  "none",
		"tol":      1e-5,
	}); err != nil {
		t.Fatalf("Failed to set params: %v", err)
	}

	newParams := clf.GetParams()
	if newParams["C"].(float64) != 2.0 {
		t.Error("C not updated")
	}
	if newParams["max_iter"].(int) != 200 {
		t.Error("max_iter not updated")
	}
	if newParams["penalty"].(string) != "none" {
		t.Error("penalty not updated")
	}
	if clf.IsFitted() {
		t.Error("SetParams should reset the fitted state")
	}

	if err := clf.SetParams(map[string]interface{}{"penalty": "l1"}); err == nil {
		t.Error("Expected error for an unsupported penalty")
	}
	if err := clf.SetParams(map[string]interface{}{"solver": "saga"}); err == nil {
		t.Error("Expected error for an unknown parameter")
	}
}

func TestLogisticRegressionNotFitted(t *testing.T) {
	clf := NewLogisticRegression()

	X := mat.NewDense(2, 2, []float64{1, 1, 3, 3})

	_, err := clf.Predict(X)
	if err == nil {
		t.Fatal("Expected error when predicting with unfitted model")
	}
	var notFitted *errors.NotFittedError
	if !errors.As(err, &notFitted) {
		t.Errorf("expected NotFittedError from Predict, got %v", err)
	}

	if _, err := clf.PredictProba(X); err == nil {
		t.Error("Expected error from PredictProba on unfitted model")
	}
	if _, err := clf.DecisionFunction(X); err == nil {
		t.Error("Expected error from DecisionFunction on unfitted model")
	}
}

func TestLogisticRegressionLabelValidation(t *testing.T) {
	clf := NewLogisticRegression()

	X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})

	// Fractional labels are rejected.
	yFrac := mat.NewDense(4, 1, []float64{0, 0.5, 1, 1})
	if err := clf.Fit(X, yFrac); err == nil {
		t.Error("Expected error for non-integer class labels")
	}

	// A single class cannot be fitted.
	yOne := mat.NewDense(4, 1, []float64{1, 1, 1, 1})
	if err := clf.Fit(X, yOne); err == nil {
		t.Error("Expected error for single-class targets")
	}
}

func TestLogisticRegressionConvergenceWarning(t *testing.T) {
	X := mat.NewDense(6, 2, []float64{
		1.0, 1.0,
		1.2, 0.8,
		0.8, 1.2,
		3.0, 3.0,
		3.2, 2.8,
		2.8, 3.2,
	})
	y := mat.NewDense(6, 1, []float64{0, 0, 0, 1, 1, 1})

	var captured []error
	prev := errors.SetWarningHandler(func(err error) {
		captured = append(captured, err)
	})
	defer errors.SetWarningHandler(prev)

	clf := NewLogisticRegression(WithMaxIter(1))
	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Fit should succeed despite hitting the iteration limit: %v", err)
	}

	found := false
	for _, err := range captured {
		var conv *errors.ConvergenceWarning
		if errors.As(err, &conv) {
			found = true
			break
		}
	}
	if !found {
		t.Error("Expected a ConvergenceWarning when max_iter is exhausted")
	}

	if !clf.IsFitted() {
		t.Error("Model should still be usable after an early stop")
	}
	if _, err := clf.Predict(X); err != nil {
		t.Errorf("Predict should work after an early stop: %v", err)
	}
}

func TestLogisticRegressionClone(t *testing.T) {
	clf := NewLogisticRegression(WithC(0.5), WithPenalty("none"), WithMaxIter(300))

	X := mat.NewDense(4, 1, []float64{0.5, 1.0, 2.5, 3.0})
	y := mat.NewDense(4, 1, []float64{0, 0, 1, 1})
	if err := clf.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}

	clone, ok := clf.Clone().(*LogisticRegression)
	if !ok {
		t.Fatal("Clone() did not return a *LogisticRegression")
	}
	if clone.IsFitted() {
		t.Error("clone should be unfitted")
	}

	params := clone.GetParams()
	if params["C"].(float64) != 0.5 {
		t.Error("clone should keep C")
	}
	if params["penalty"].(string) != "none" {
		t.Error("clone should keep penalty")
	}
	if params["max_iter"].(int) != 300 {
		t.Error("clone should keep max_iter")
	}
	if !clf.IsFitted() {
		t.Error("cloning should not disturb the original")
	}
}
