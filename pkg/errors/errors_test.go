package errors

import (
	"fmt"
	"strings"
	"testing"
)

func TestNewModelError(t *testing.T) {
	tests := []struct {
		name     string
		op       string
		kind     string
		err      error
		wantMsg  string
		hasStack bool
	}{
		{
			name:     "with original error",
			op:       "Fit",
			kind:     "invalid input",
			err:      fmt.Errorf("test error"),
			wantMsg:  "mltour: Fit: invalid input: test error",
			hasStack: true,
		},
		{
			name:     "without original error",
			op:       "Predict",
			kind:     "not fitted",
			err:      nil,
			wantMsg:  "mltour: Predict: not fitted",
			hasStack: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewModelError(tt.op, tt.kind, tt.err)

			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.wantMsg)
			}

			if tt.hasStack {
				formatted := fmt.Sprintf("%+v", err)
				if !strings.Contains(formatted, "errors_test.go") {
					t.Error("Expected stack trace to contain test file name")
				}
			}

			var modelErr *ModelError
			if !As(err, &modelErr) {
				t.Error("Error should be castable to *ModelError")
			}
		})
	}
}

func TestNewDimensionError(t *testing.T) {
	err := NewDimensionError("Predict", 10, 5, 1)

	want := "mltour: Predict: dimension mismatch on axis 1 (features). Expected 10, got 5"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var dimErr *DimensionError
	if !As(err, &dimErr) {
		t.Error("Error should be castable to *DimensionError")
	}
	if dimErr.Expected != 10 || dimErr.Got != 5 {
		t.Errorf("DimensionError fields = (%d, %d), want (10, 5)", dimErr.Expected, dimErr.Got)
	}
}

func TestNewNotFittedError(t *testing.T) {
	err := NewNotFittedError("LinearRegression", "Predict")

	want := "mltour: LinearRegression: this model is not fitted yet. Call Fit() before using Predict()"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var notFittedErr *NotFittedError
	if !As(err, &notFittedErr) {
		t.Error("Error should be castable to *NotFittedError")
	}
}

func TestNewNameError(t *testing.T) {
	err := NewNameError("study_hours")

	want := "mltour: name 'study_hours' is not defined"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var nameErr *NameError
	if !As(err, &nameErr) {
		t.Error("Error should be castable to *NameError")
	}
	if nameErr.Name != "study_hours" {
		t.Errorf("NameError.Name = %q, want %q", nameErr.Name, "study_hours")
	}
}

func TestNewCellError(t *testing.T) {
	cause := NewNameError("model")
	err := NewCellError("clf-predict", 4, cause)

	if !strings.Contains(err.Error(), `cell "clf-predict" (index 4) failed`) {
		t.Errorf("Error() = %v, want cell name and index in message", err.Error())
	}

	var cellErr *CellError
	if !As(err, &cellErr) {
		t.Error("Error should be castable to *CellError")
	}
	if cellErr.Index != 4 {
		t.Errorf("CellError.Index = %d, want 4", cellErr.Index)
	}

	// The cause must stay reachable through the chain.
	var nameErr *NameError
	if !As(err, &nameErr) {
		t.Error("CellError should unwrap to the causing *NameError")
	}
}

func TestNewValueError(t *testing.T) {
	tests := []struct {
		name    string
		op      string
		param   string
		value   interface{}
		message string
		wantMsg string
	}{
		{
			name:    "with message",
			op:      "SetParam",
			param:   "C",
			value:   -0.5,
			message: "must be positive",
			wantMsg: "mltour: SetParam: C: -0.5 (must be positive)",
		},
		{
			name:    "without message",
			op:      "SetParam",
			param:   "degree",
			value:   0,
			message: "",
			wantMsg: "mltour: SetParam: degree: 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			if tt.message != "" {
				err = NewValueError(tt.op, fmt.Sprintf("%s: %v (%s)", tt.param, tt.value, tt.message))
			} else {
				err = NewValueError(tt.op, fmt.Sprintf("%s: %v", tt.param, tt.value))
			}

			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.wantMsg)
			}

			var valErr *ValueError
			if !As(err, &valErr) {
				t.Error("Error should be castable to *ValueError")
			}
		})
	}
}

func TestNewConvergenceWarning(t *testing.T) {
	warn := NewConvergenceWarning("lbfgs", 100, "gradient tolerance not reached")

	want := "lbfgs failed to converge after 100 iterations: gradient tolerance not reached"
	if warn.Error() != want {
		t.Errorf("Error() = %v, want %v", warn.Error(), want)
	}

	var convWarn *ConvergenceWarning
	if !As(warn, &convWarn) {
		t.Error("Warning should be castable to *ConvergenceWarning")
	}
}

func TestWarnHandlerRouting(t *testing.T) {
	var got error
	prev := SetWarningHandler(func(w error) { got = w })
	defer SetWarningHandler(prev)

	warn := NewUndefinedMetricWarning("precision", "no predicted positives", 0)
	Warn(warn)

	if got == nil || !strings.Contains(got.Error(), "precision") {
		t.Errorf("warning handler received %v, want the precision warning", got)
	}
	if prev == nil {
		t.Error("SetWarningHandler must hand back the previous handler")
	}
}

func TestWrapAndIs(t *testing.T) {
	baseErr := ErrNotImplemented

	wrapped := Wrap(baseErr, "in LinearRegression.Predict")

	if !Is(wrapped, ErrNotImplemented) {
		t.Error("Expected Is(wrapped, ErrNotImplemented) to be true")
	}

	if !strings.Contains(wrapped.Error(), "in LinearRegression.Predict") {
		t.Error("Expected wrapped error to contain wrapping message")
	}
}

func TestWrapf(t *testing.T) {
	baseErr := ErrEmptyData

	wrapped := Wrapf(baseErr, "in %s: expected %d, got %d", "Predict", 10, 5)

	if !Is(wrapped, ErrEmptyData) {
		t.Error("Expected Is(wrapped, ErrEmptyData) to be true")
	}

	expectedMsg := "in Predict: expected 10, got 5"
	if !strings.Contains(wrapped.Error(), expectedMsg) {
		t.Errorf("Expected wrapped error to contain %q", expectedMsg)
	}
}

func TestErrorChaining(t *testing.T) {
	err1 := fmt.Errorf("base error")
	err2 := Wrap(err1, "wrapped once")
	err3 := NewModelError("Operation", "failed", err2)

	if !strings.Contains(err3.Error(), "base error") {
		t.Error("Expected error chain to contain base error")
	}

	formatted := fmt.Sprintf("%+v", err3)
	if !strings.Contains(formatted, "errors_test.go") {
		t.Error("Expected detailed error to contain stack trace")
	}
}
