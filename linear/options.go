package linear

// Option configures a LinearRegression.
type Option func(*LinearRegression)

// WithFitIntercept sets whether the model learns an intercept term.
func WithFitIntercept(fit bool) Option {
	return func(lr *LinearRegression) {
		lr.fitIntercept = fit
	}
}

// WithTol sets the singular value cutoff used for the rank computation.
func WithTol(tol float64) Option {
	return func(lr *LinearRegression) {
		lr.tol = tol
	}
}

// LogisticOption configures a LogisticRegression.
type LogisticOption func(*LogisticRegression)

// WithC sets the inverse regularization strength. Smaller values regularize
// harder.
func WithC(c float64) LogisticOption {
	return func(lr *LogisticRegression) {
		lr.c = c
	}
}

// WithPenalty sets the regularization type, "l2" or "none".
func WithPenalty(penalty string) LogisticOption {
	return func(lr *LogisticRegression) {
		lr.penalty = penalty
	}
}

// WithMaxIter sets the iteration budget for the optimizer.
func WithMaxIter(maxIter int) LogisticOption {
	return func(lr *LogisticRegression) {
		lr.maxIter = maxIter
	}
}

// WithLogisticTol sets the gradient tolerance for the optimizer.
func WithLogisticTol(tol float64) LogisticOption {
	return func(lr *LogisticRegression) {
		lr.tol = tol
	}
}

// WithLogisticFitIntercept sets whether the classifier learns intercept
// terms.
func WithLogisticFitIntercept(fit bool) LogisticOption {
	return func(lr *LogisticRegression) {
		lr.fitIntercept = fit
	}
}
