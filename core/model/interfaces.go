// Package model provides the shared contracts of the estimator layer.
// This file complements the core interfaces in estimator.go and
// transformer.go with composed roles and parameter access.
package model

import (
	"gonum.org/v1/gonum/mat"
)

// Scorer is the interface for models that can compute a score.
// Regressors return R², classifiers return accuracy.
type Scorer interface {
	Score(X, y mat.Matrix) (float64, error)
}

// Regressor combines the interfaces of regression models.
type Regressor interface {
	Estimator
	Scorer
}

// Classifier combines the interfaces of classification models.
type Classifier interface {
	Estimator
	Scorer

	// PredictProba returns probability estimates for each class.
	PredictProba(X mat.Matrix) (mat.Matrix, error)

	// Classes returns the unique classes seen during fitting.
	Classes() []int
}

// ParamGetter is the interface for models that expose their hyperparameters
// as a scikit-learn style snake_case map.
type ParamGetter interface {
	GetParams() map[string]interface{}
}

// ParamSetter is the interface for models whose hyperparameters can be
// replaced. Setting a parameter resets any fitted state.
type ParamSetter interface {
	SetParams(params map[string]interface{}) error
}

// Cloner is implemented by estimators that can produce an unfitted copy
// with identical hyperparameters. Model selection relies on it: every
// cross-validation fold and every search candidate fits a fresh clone.
type Cloner interface {
	Clone() Estimator
}

// TransformerCloner is the transformer counterpart of Cloner, used when a
// pipeline is cloned step by step.
type TransformerCloner interface {
	CloneTransformer() Transformer
}
