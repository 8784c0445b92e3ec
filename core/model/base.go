package model

// EstimatorState represents the fitted state of a model.
type EstimatorState int

const (
	// NotFitted marks a model that has not been fitted yet.
	NotFitted EstimatorState = iota
	// Fitted marks a model whose parameters have been learned.
	Fitted
)

// BaseEstimator is the embeddable base of simple estimators and
// transformers. It tracks nothing but the fitted state.
type BaseEstimator struct {
	state EstimatorState
}

// IsFitted reports whether the model has been fitted.
func (e *BaseEstimator) IsFitted() bool {
	return e.state == Fitted
}

// SetFitted marks the model as fitted.
func (e *BaseEstimator) SetFitted() {
	e.state = Fitted
}

// Reset returns the model to the unfitted state.
func (e *BaseEstimator) Reset() {
	e.state = NotFitted
}
