package preprocessing

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/mltour/mltour/core/model"
	"github.com/mltour/mltour/pkg/errors"
)

// PolynomialFeatures expands an input matrix with polynomial terms up to a
// given degree. For a single feature x and degree 3 the output columns are
// x, x², x³. For several features the expansion also includes interaction
// terms, ordered by total degree and then by the scikit-learn
// combinations-with-replacement order: for (x0, x1) and degree 2 that is
// x0, x1, x0², x0·x1, x1².
type PolynomialFeatures struct {
	model.BaseEstimator

	// Degree is the maximum total degree of the generated terms. Must be at
	// least 1.
	Degree int

	// IncludeBias prepends a constant column of ones when true
	// (default: false).
	IncludeBias bool

	// NFeatures is the number of input features seen during Fit.
	NFeatures int

	// NOutputFeatures is the number of generated columns.
	NOutputFeatures int

	// combos lists, per output column, the input feature indices whose
	// product forms that column. The empty combination is the bias term.
	combos [][]int
}

// NewPolynomialFeatures creates a PolynomialFeatures transformer.
//
// Example:
//
//	poly := preprocessing.NewPolynomialFeatures(3, false)
//	expanded, err := poly.FitTransform(X)
func NewPolynomialFeatures(degree int, includeBias bool) *PolynomialFeatures {
	return &PolynomialFeatures{
		Degree:      degree,
		IncludeBias: includeBias,
	}
}

// NewPolynomialFeaturesDefault creates a degree-2 transformer without a bias
// column.
func NewPolynomialFeaturesDefault() *PolynomialFeatures {
	return NewPolynomialFeatures(2, false)
}

// Fit records the input width and precomputes the term layout.
func (p *PolynomialFeatures) Fit(X mat.Matrix) error {
	if p.Degree < 1 {
		return errors.NewValidationError("degree", "must be at least 1", p.Degree)
	}

	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("PolynomialFeatures.Fit", "empty data", errors.ErrEmptyData)
	}

	p.NFeatures = c
	p.combos = p.combos[:0]
	if p.IncludeBias {
		p.combos = append(p.combos, []int{})
	}
	for k := 1; k <= p.Degree; k++ {
		p.combos = append(p.combos, combinationsWithReplacement(c, k)...)
	}
	p.NOutputFeatures = len(p.combos)

	p.SetFitted()
	return nil
}

// Transform expands X into the precomputed polynomial terms.
func (p *PolynomialFeatures) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !p.IsFitted() {
		return nil, errors.NewNotFittedError("PolynomialFeatures", "Transform")
	}

	r, c := X.Dims()
	if c != p.NFeatures {
		return nil, errors.NewDimensionError("PolynomialFeatures.Transform", p.NFeatures, c, 1)
	}

	result := mat.NewDense(r, p.NOutputFeatures, nil)
	for i := 0; i < r; i++ {
		for j, combo := range p.combos {
			term := 1.0
			for _, f := range combo {
				term *= X.At(i, f)
			}
			result.Set(i, j, term)
		}
	}

	return result, nil
}

// FitTransform fits the transformer on X and returns the expanded X.
func (p *PolynomialFeatures) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := p.Fit(X); err != nil {
		return nil, err
	}
	return p.Transform(X)
}

// InverseTransform is not defined for a polynomial expansion.
func (p *PolynomialFeatures) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	return nil, errors.Wrap(errors.ErrNotImplemented, "PolynomialFeatures.InverseTransform")
}

// FeatureNames returns a readable name per output column, in column order.
// Input features are named x0, x1, ... and terms like x0²·x1 render as
// "x0^2 x1".
func (p *PolynomialFeatures) FeatureNames() ([]string, error) {
	if !p.IsFitted() {
		return nil, errors.NewNotFittedError("PolynomialFeatures", "FeatureNames")
	}

	names := make([]string, len(p.combos))
	for i, combo := range p.combos {
		if len(combo) == 0 {
			names[i] = "1"
			continue
		}

		exponents := make([]int, p.NFeatures)
		for _, f := range combo {
			exponents[f]++
		}

		var parts []string
		for f, e := range exponents {
			switch {
			case e == 1:
				parts = append(parts, fmt.Sprintf("x%d", f))
			case e > 1:
				parts = append(parts, fmt.Sprintf("x%d^%d", f, e))
			}
		}
		names[i] = strings.Join(parts, " ")
	}

	return names, nil
}

// GetParams returns the transformer hyperparameters.
func (p *PolynomialFeatures) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"degree":       p.Degree,
		"include_bias": p.IncludeBias,
	}
}

// SetParams updates hyperparameters and resets the fitted state. Degrees
// arrive as int from code and as float64 from decoded configuration, so both
// are accepted.
func (p *PolynomialFeatures) SetParams(params map[string]interface{}) error {
	for name, value := range params {
		switch name {
		case "degree":
			switch v := value.(type) {
			case int:
				p.Degree = v
			case float64:
				p.Degree = int(v)
			default:
				return errors.NewValidationError("degree", "must be an int", value)
			}
		case "include_bias":
			v, ok := value.(bool)
			if !ok {
				return errors.NewValidationError("include_bias", "must be a bool", value)
			}
			p.IncludeBias = v
		default:
			return errors.NewValidationError(name, "unknown parameter", value)
		}
	}

	p.Reset()
	return nil
}

// CloneTransformer returns an unfitted copy with the same hyperparameters.
func (p *PolynomialFeatures) CloneTransformer() model.Transformer {
	return NewPolynomialFeatures(p.Degree, p.IncludeBias)
}

// String returns a readable representation of the transformer.
func (p *PolynomialFeatures) String() string {
	if !p.IsFitted() {
		return fmt.Sprintf("PolynomialFeatures(degree=%d, include_bias=%t)", p.Degree, p.IncludeBias)
	}
	return fmt.Sprintf("PolynomialFeatures(degree=%d, include_bias=%t, n_output_features=%d)",
		p.Degree, p.IncludeBias, p.NOutputFeatures)
}

// combinationsWithReplacement enumerates the sorted k-tuples over n feature
// indices, in lexicographic order.
func combinationsWithReplacement(n, k int) [][]int {
	var out [][]int
	combo := make([]int, k)

	var recurse func(pos, start int)
	recurse = func(pos, start int) {
		if pos == k {
			out = append(out, append([]int(nil), combo...))
			return
		}
		for f := start; f < n; f++ {
			combo[pos] = f
			recurse(pos+1, f)
		}
	}
	recurse(0, 0)

	return out
}
