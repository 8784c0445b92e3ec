package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// NameError reports a scope lookup for a name no earlier cell has defined.
// Mirrors the NameError a notebook user would see for an unbound variable.
type NameError struct {
	Name string
}

func (e *NameError) Error() string {
	return fmt.Sprintf("mltour: name '%s' is not defined", e.Name)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *NameError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("name", e.Name).
		Str("type", "NameError")
}

// NewNameError creates a NameError with a stack trace attached.
func NewNameError(name string) error {
	err := &NameError{Name: name}
	return errors.WithStack(err)
}

// CellError is the single user-facing execution error: a cell failed, the run
// halted there, and every later cell was skipped. It wraps the cause.
type CellError struct {
	Cell  string
	Index int
	Err   error
}

func (e *CellError) Error() string {
	return fmt.Sprintf("mltour: cell %q (index %d) failed: %v", e.Cell, e.Index, e.Err)
}

func (e *CellError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *CellError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("cell", e.Cell).
		Int("index", e.Index).
		Str("type", "CellError")
	if e.Err != nil {
		event.Str("cause", e.Err.Error())
	}
}

// NewCellError wraps the failure of the named cell with a stack trace.
func NewCellError(cell string, index int, err error) error {
	cellErr := &CellError{Cell: cell, Index: index, Err: err}
	return errors.WithStack(cellErr)
}
