package notebook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/mltour/mltour/pkg/errors"
)

func TestScope(t *testing.T) {
	t.Run("Define and Lookup", func(t *testing.T) {
		sc := NewScope()
		sc.Define("hours", []float64{0.5, 1.0, 2.5, 3.0})

		value, err := sc.Lookup("hours")
		require.NoError(t, err)
		assert.Equal(t, []float64{0.5, 1.0, 2.5, 3.0}, value)
		assert.True(t, sc.Has("hours"))
		assert.False(t, sc.Has("minutes"))
	})

	t.Run("Undefined name is a NameError", func(t *testing.T) {
		sc := NewScope()

		_, err := sc.Lookup("model")
		require.Error(t, err)
		var nameErr *errors.NameError
		require.True(t, errors.As(err, &nameErr))
		assert.Equal(t, "model", nameErr.Name)
	})

	t.Run("Rebinding replaces the value", func(t *testing.T) {
		sc := NewScope()
		sc.Define("n", 1)
		sc.Define("n", 2)

		value, err := sc.Lookup("n")
		require.NoError(t, err)
		assert.Equal(t, 2, value)
	})

	t.Run("Names come back sorted", func(t *testing.T) {
		sc := NewScope()
		sc.Define("zeta", 1)
		sc.Define("alpha", 2)
		sc.Define("mid", 3)

		assert.Equal(t, []string{"alpha", "mid", "zeta"}, sc.Names())
	})
}

func TestScopeGet(t *testing.T) {
	t.Run("Typed access", func(t *testing.T) {
		sc := NewScope()
		X := mat.NewDense(2, 1, []float64{1, 2})
		sc.Define("X", X)

		got, err := Get[*mat.Dense](sc, "X")
		require.NoError(t, err)
		assert.True(t, mat.Equal(X, got))
	})

	t.Run("Wrong type is a ValueError", func(t *testing.T) {
		sc := NewScope()
		sc.Define("count", "three")

		_, err := Get[int](sc, "count")
		require.Error(t, err)
		var valueErr *errors.ValueError
		assert.True(t, errors.As(err, &valueErr))
		assert.Contains(t, err.Error(), `name "count" holds string, not int`)
	})

	t.Run("Missing name is a NameError", func(t *testing.T) {
		sc := NewScope()

		_, err := Get[float64](sc, "lr")
		require.Error(t, err)
		var nameErr *errors.NameError
		assert.True(t, errors.As(err, &nameErr))
	})
}
