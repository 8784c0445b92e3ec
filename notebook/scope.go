package notebook

import (
	"fmt"
	"sort"

	"github.com/mltour/mltour/pkg/errors"
)

// Scope is the namespace cells share. It is an explicit value handed to
// every cell body, not package-level state, so a fresh run always starts
// empty and a cell can only see what earlier cells defined. Rebinding a
// name is allowed and replaces the earlier value.
type Scope struct {
	values map[string]any
}

// NewScope returns an empty scope.
func NewScope() *Scope {
	return &Scope{values: make(map[string]any)}
}

// Define binds value to name, replacing any earlier binding.
func (s *Scope) Define(name string, value any) {
	s.values[name] = value
}

// Lookup returns the value bound to name. An unbound name is a NameError.
func (s *Scope) Lookup(name string) (any, error) {
	value, ok := s.values[name]
	if !ok {
		return nil, errors.NewNameError(name)
	}
	return value, nil
}

// Has reports whether name is bound.
func (s *Scope) Has(name string) bool {
	_, ok := s.values[name]
	return ok
}

// Names returns the bound names in sorted order.
func (s *Scope) Names() []string {
	names := make([]string, 0, len(s.values))
	for name := range s.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns the value bound to name as type T. An unbound name is a
// NameError, a binding of the wrong type a ValueError.
func Get[T any](s *Scope, name string) (T, error) {
	var zero T
	value, err := s.Lookup(name)
	if err != nil {
		return zero, err
	}
	typed, ok := value.(T)
	if !ok {
		return zero, errors.NewValueError("Scope.Get",
			fmt.Sprintf("name %q holds %T, not %T", name, value, zero))
	}
	return typed, nil
}
