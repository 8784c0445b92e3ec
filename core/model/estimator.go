package model

import "gonum.org/v1/gonum/mat"

// Fitter is the interface for models that learn from training data.
type Fitter interface {
	// Fit learns model parameters from the training data.
	Fit(X, y mat.Matrix) error
}

// Predictor is the interface for models that predict targets.
type Predictor interface {
	// Predict returns predictions for the input rows.
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Estimator is a supervised model: it fits on (X, y) and predicts on X.
type Estimator interface {
	Fitter
	Predictor
}

// LinearModel is the interface for models with linear coefficients.
type LinearModel interface {
	// Coef returns the learned coefficients, one per feature.
	Coef() []float64
	// Intercept returns the learned intercept.
	Intercept() float64
}
