package preprocessing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/mltour/mltour/core/model"
	"github.com/mltour/mltour/pkg/errors"
)

// StandardScaler standardizes features to zero mean and unit variance.
//
// The variance is the population variance (divide by n), matching
// scikit-learn's StandardScaler. Constant features keep a scale of 1 so
// Transform never divides by zero.
type StandardScaler struct {
	model.BaseEstimator

	// Mean holds the per-feature mean computed by Fit.
	Mean []float64

	// Scale holds the per-feature standard deviation computed by Fit.
	Scale []float64

	// NFeatures is the number of features seen during Fit.
	NFeatures int

	// WithMean controls whether the mean is subtracted (default: true).
	WithMean bool

	// WithStd controls whether features are divided by the standard
	// deviation (default: true).
	WithStd bool
}

// NewStandardScaler creates a StandardScaler with explicit centering and
// scaling switches.
//
// Example:
//
//	scaler := preprocessing.NewStandardScaler(true, true)
//	err := scaler.Fit(X)
//	XScaled, err := scaler.Transform(X)
func NewStandardScaler(withMean, withStd bool) *StandardScaler {
	return &StandardScaler{
		WithMean: withMean,
		WithStd:  withStd,
	}
}

// NewStandardScalerDefault creates a StandardScaler that both centers and
// scales.
func NewStandardScalerDefault() *StandardScaler {
	return NewStandardScaler(true, true)
}

// Fit computes the per-feature mean and standard deviation of X.
func (s *StandardScaler) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("StandardScaler.Fit", "empty data", errors.ErrEmptyData)
	}

	s.NFeatures = c
	s.Mean = make([]float64, c)
	s.Scale = make([]float64, c)

	if s.WithMean {
		for j := 0; j < c; j++ {
			sum := 0.0
			for i := 0; i < r; i++ {
				sum += X.At(i, j)
			}
			s.Mean[j] = sum / float64(r)
		}
	}

	if s.WithStd {
		for j := 0; j < c; j++ {
			sumSquares := 0.0
			for i := 0; i < r; i++ {
				diff := X.At(i, j) - s.Mean[j]
				sumSquares += diff * diff
			}
			variance := sumSquares / float64(r)
			s.Scale[j] = math.Sqrt(variance)

			// Constant feature: leave it unscaled.
			if math.Abs(s.Scale[j]) < 1e-8 {
				s.Scale[j] = 1.0
			}
		}
	} else {
		for j := 0; j < c; j++ {
			s.Scale[j] = 1.0
		}
	}

	s.SetFitted()
	return nil
}

// Transform standardizes X with the statistics learned by Fit.
func (s *StandardScaler) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("StandardScaler", "Transform")
	}

	r, c := X.Dims()
	if c != s.NFeatures {
		return nil, errors.NewDimensionError("StandardScaler.Transform", s.NFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			result.Set(i, j, (X.At(i, j)-s.Mean[j])/s.Scale[j])
		}
	}

	return result, nil
}

// FitTransform fits the scaler on X and returns the transformed X.
func (s *StandardScaler) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// InverseTransform maps standardized data back to the original scale.
func (s *StandardScaler) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("StandardScaler", "InverseTransform")
	}

	r, c := X.Dims()
	if c != s.NFeatures {
		return nil, errors.NewDimensionError("StandardScaler.InverseTransform", s.NFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			result.Set(i, j, X.At(i, j)*s.Scale[j]+s.Mean[j])
		}
	}

	return result, nil
}

// GetParams returns the scaler hyperparameters.
func (s *StandardScaler) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"with_mean": s.WithMean,
		"with_std":  s.WithStd,
	}
}

// SetParams updates hyperparameters and resets the fitted state, since the
// learned statistics no longer apply.
func (s *StandardScaler) SetParams(params map[string]interface{}) error {
	for name, value := range params {
		switch name {
		case "with_mean":
			v, ok := value.(bool)
			if !ok {
				return errors.NewValidationError("with_mean", "must be a bool", value)
			}
			s.WithMean = v
		case "with_std":
			v, ok := value.(bool)
			if !ok {
				return errors.NewValidationError("with_std", "must be a bool", value)
			}
			s.WithStd = v
		default:
			return errors.NewValidationError(name, "unknown parameter", value)
		}
	}

	s.Reset()
	return nil
}

// CloneTransformer returns an unfitted copy with the same hyperparameters.
func (s *StandardScaler) CloneTransformer() model.Transformer {
	return NewStandardScaler(s.WithMean, s.WithStd)
}

// String returns a readable representation of the scaler.
func (s *StandardScaler) String() string {
	if !s.IsFitted() {
		return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t)", s.WithMean, s.WithStd)
	}
	return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t, n_features=%d)",
		s.WithMean, s.WithStd, s.NFeatures)
}

// MinMaxScaler rescales features into a fixed range, [0, 1] by default.
type MinMaxScaler struct {
	model.BaseEstimator

	// DataMin holds the per-feature minimum seen during Fit.
	DataMin []float64

	// DataMax holds the per-feature maximum seen during Fit.
	DataMax []float64

	// Scale holds the per-feature data range (max - min).
	Scale []float64

	// NFeatures is the number of features seen during Fit.
	NFeatures int

	// FeatureRange is the target range [min, max] after scaling.
	FeatureRange [2]float64
}

// NewMinMaxScaler creates a MinMaxScaler targeting the given range.
//
// Example:
//
//	scaler := preprocessing.NewMinMaxScaler([2]float64{0.0, 1.0})
//	err := scaler.Fit(X)
//	XScaled, err := scaler.Transform(X)
func NewMinMaxScaler(featureRange [2]float64) *MinMaxScaler {
	return &MinMaxScaler{
		FeatureRange: featureRange,
	}
}

// NewMinMaxScalerDefault creates a MinMaxScaler targeting [0, 1].
func NewMinMaxScalerDefault() *MinMaxScaler {
	return NewMinMaxScaler([2]float64{0.0, 1.0})
}

// Fit computes the per-feature minimum and maximum of X.
func (m *MinMaxScaler) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("MinMaxScaler.Fit", "empty data", errors.ErrEmptyData)
	}

	if m.FeatureRange[1] <= m.FeatureRange[0] {
		return errors.NewValidationError("feature_range", "min must be smaller than max", m.FeatureRange)
	}

	m.NFeatures = c
	m.DataMin = make([]float64, c)
	m.DataMax = make([]float64, c)
	m.Scale = make([]float64, c)

	for j := 0; j < c; j++ {
		minVal := X.At(0, j)
		maxVal := X.At(0, j)

		for i := 1; i < r; i++ {
			val := X.At(i, j)
			if val < minVal {
				minVal = val
			}
			if val > maxVal {
				maxVal = val
			}
		}

		m.DataMin[j] = minVal
		m.DataMax[j] = maxVal

		dataRange := maxVal - minVal
		if math.Abs(dataRange) < 1e-8 {
			// Constant feature: map everything to the range minimum.
			m.Scale[j] = 1.0
		} else {
			m.Scale[j] = dataRange
		}
	}

	m.SetFitted()
	return nil
}

// Transform rescales X into the target range with the statistics learned by
// Fit.
func (m *MinMaxScaler) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !m.IsFitted() {
		return nil, errors.NewNotFittedError("MinMaxScaler", "Transform")
	}

	r, c := X.Dims()
	if c != m.NFeatures {
		return nil, errors.NewDimensionError("MinMaxScaler.Transform", m.NFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	span := m.FeatureRange[1] - m.FeatureRange[0]
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			std := (X.At(i, j) - m.DataMin[j]) / m.Scale[j]
			result.Set(i, j, std*span+m.FeatureRange[0])
		}
	}

	return result, nil
}

// FitTransform fits the scaler on X and returns the transformed X.
func (m *MinMaxScaler) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := m.Fit(X); err != nil {
		return nil, err
	}
	return m.Transform(X)
}

// InverseTransform maps scaled data back to the original range.
func (m *MinMaxScaler) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	if !m.IsFitted() {
		return nil, errors.NewNotFittedError("MinMaxScaler", "InverseTransform")
	}

	r, c := X.Dims()
	if c != m.NFeatures {
		return nil, errors.NewDimensionError("MinMaxScaler.InverseTransform", m.NFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	span := m.FeatureRange[1] - m.FeatureRange[0]
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			std := (X.At(i, j) - m.FeatureRange[0]) / span
			result.Set(i, j, std*m.Scale[j]+m.DataMin[j])
		}
	}

	return result, nil
}

// GetParams returns the scaler hyperparameters.
func (m *MinMaxScaler) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"feature_range": m.FeatureRange,
	}
}

// SetParams updates hyperparameters and resets the fitted state.
func (m *MinMaxScaler) SetParams(params map[string]interface{}) error {
	for name, value := range params {
		switch name {
		case "feature_range":
			switch v := value.(type) {
			case [2]float64:
				m.FeatureRange = v
			case []float64:
				if len(v) != 2 {
					return errors.NewValidationError("feature_range", "must have exactly two values", value)
				}
				m.FeatureRange = [2]float64{v[0], v[1]}
			default:
				return errors.NewValidationError("feature_range", "must be a pair of floats", value)
			}
		default:
			return errors.NewValidationError(name, "unknown parameter", value)
		}
	}

	m.Reset()
	return nil
}

// CloneTransformer returns an unfitted copy with the same hyperparameters.
func (m *MinMaxScaler) CloneTransformer() model.Transformer {
	return NewMinMaxScaler(m.FeatureRange)
}

// String returns a readable representation of the scaler.
func (m *MinMaxScaler) String() string {
	if !m.IsFitted() {
		return fmt.Sprintf("MinMaxScaler(feature_range=[%.1f, %.1f])",
			m.FeatureRange[0], m.FeatureRange[1])
	}
	return fmt.Sprintf("MinMaxScaler(feature_range=[%.1f, %.1f], n_features=%d)",
		m.FeatureRange[0], m.FeatureRange[1], m.NFeatures)
}
