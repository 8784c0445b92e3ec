package model

import "gonum.org/v1/gonum/mat"

// Transformer is the interface for data transformations.
type Transformer interface {
	// Fit learns the parameters the transformation needs.
	Fit(X mat.Matrix) error

	// Transform applies the transformation.
	Transform(X mat.Matrix) (mat.Matrix, error)

	// FitTransform runs Fit and Transform in one call.
	FitTransform(X mat.Matrix) (mat.Matrix, error)
}

// InverseTransformer is implemented by transformations that can be undone.
type InverseTransformer interface {
	// InverseTransform maps transformed data back to the original space.
	InverseTransform(X mat.Matrix) (mat.Matrix, error)
}
