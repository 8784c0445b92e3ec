package preprocessing

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/mltour/mltour/pkg/errors"
)

func TestPolynomialFeaturesSingleFeature(t *testing.T) {
	X := mat.NewDense(2, 1, []float64{2, 3})

	poly := NewPolynomialFeatures(3, false)
	expanded, err := poly.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform() error = %v", err)
	}

	if poly.NOutputFeatures != 3 {
		t.Errorf("NOutputFeatures = %d, want 3", poly.NOutputFeatures)
	}

	want := [][]float64{
		{2, 4, 8},
		{3, 9, 27},
	}
	for i, row := range want {
		for j, w := range row {
			if got := expanded.At(i, j); math.Abs(got-w) > 1e-12 {
				t.Errorf("expanded[%d][%d] = %v, want %v", i, j, got, w)
			}
		}
	}
}

func TestPolynomialFeaturesTwoFeatures(t *testing.T) {
	tests := []struct {
		name        string
		includeBias bool
		want        []float64
	}{
		{
			name:        "without bias",
			includeBias: false,
			want:        []float64{2, 3, 4, 6, 9},
		},
		{
			name:        "with bias",
			includeBias: true,
			want:        []float64{1, 2, 3, 4, 6, 9},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			X := mat.NewDense(1, 2, []float64{2, 3})

			poly := NewPolynomialFeatures(2, tt.includeBias)
			expanded, err := poly.FitTransform(X)
			if err != nil {
				t.Fatalf("FitTransform() error = %v", err)
			}

			_, cols := expanded.Dims()
			if cols != len(tt.want) {
				t.Fatalf("output width = %d, want %d", cols, len(tt.want))
			}
			for j, w := range tt.want {
				if got := expanded.At(0, j); math.Abs(got-w) > 1e-12 {
					t.Errorf("expanded[0][%d] = %v, want %v", j, got, w)
				}
			}
		})
	}
}

func TestPolynomialFeaturesNames(t *testing.T) {
	X := mat.NewDense(1, 2, []float64{2, 3})

	poly := NewPolynomialFeatures(2, true)
	if _, err := poly.FitTransform(X); err != nil {
		t.Fatalf("FitTransform() error = %v", err)
	}

	names, err := poly.FeatureNames()
	if err != nil {
		t.Fatalf("FeatureNames() error = %v", err)
	}

	want := []string{"1", "x0", "x1", "x0^2", "x0 x1", "x1^2"}
	if len(names) != len(want) {
		t.Fatalf("FeatureNames() = %v, want %v", names, want)
	}
	for i, w := range want {
		if names[i] != w {
			t.Errorf("FeatureNames()[%d] = %q, want %q", i, names[i], w)
		}
	}
}

func TestPolynomialFeaturesInvalidDegree(t *testing.T) {
	poly := NewPolynomialFeatures(0, false)

	err := poly.Fit(mat.NewDense(1, 1, []float64{1}))
	if err == nil {
		t.Fatal("Fit() with degree 0 should fail")
	}

	var validationErr *errors.ValidationError
	if !errors.As(err, &validationErr) {
		t.Errorf("expected ValidationError, got %v", err)
	}
}

func TestPolynomialFeaturesNotFitted(t *testing.T) {
	poly := NewPolynomialFeaturesDefault()

	_, err := poly.Transform(mat.NewDense(1, 1, []float64{1}))
	if err == nil {
		t.Fatal("Transform() on unfitted transformer should fail")
	}

	var notFitted *errors.NotFittedError
	if !errors.As(err, &notFitted) {
		t.Errorf("expected NotFittedError, got %v", err)
	}
}

func TestPolynomialFeaturesInverseNotImplemented(t *testing.T) {
	poly := NewPolynomialFeatures(2, false)
	if err := poly.Fit(mat.NewDense(1, 1, []float64{2})); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	_, err := poly.InverseTransform(mat.NewDense(1, 2, []float64{2, 4}))
	if !errors.Is(err, errors.ErrNotImplemented) {
		t.Errorf("InverseTransform() error = %v, want ErrNotImplemented", err)
	}
}

func TestPolynomialFeaturesSetParams(t *testing.T) {
	poly := NewPolynomialFeatures(3, false)
	if err := poly.Fit(mat.NewDense(1, 1, []float64{2})); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	// Decoded configuration delivers numbers as float64.
	if err := poly.SetParams(map[string]interface{}{"degree": float64(2)}); err != nil {
		t.Fatalf("SetParams() error = %v", err)
	}
	if poly.Degree != 2 {
		t.Errorf("Degree = %d, want 2", poly.Degree)
	}
	if poly.IsFitted() {
		t.Error("SetParams() should reset the fitted state")
	}

	if err := poly.Fit(mat.NewDense(1, 1, []float64{2})); err != nil {
		t.Fatalf("refit error = %v", err)
	}
	if poly.NOutputFeatures != 2 {
		t.Errorf("NOutputFeatures after refit = %d, want 2", poly.NOutputFeatures)
	}

	if err := poly.SetParams(map[string]interface{}{"degree": "two"}); err == nil {
		t.Error("SetParams() with a non-numeric degree should fail")
	}
}

func TestPolynomialFeaturesClone(t *testing.T) {
	poly := NewPolynomialFeatures(3, true)
	if err := poly.Fit(mat.NewDense(1, 1, []float64{2})); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	clone, ok := poly.CloneTransformer().(*PolynomialFeatures)
	if !ok {
		t.Fatal("CloneTransformer() did not return a *PolynomialFeatures")
	}
	if clone.IsFitted() {
		t.Error("clone should be unfitted")
	}
	if clone.Degree != 3 || !clone.IncludeBias {
		t.Error("clone should keep the hyperparameters")
	}
}
