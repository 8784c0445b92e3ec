// Package notebook implements the tutorial runner. A Document is an ordered
// list of markdown and code cells; the Runner executes the code cells
// strictly in document order, single-threaded, capturing printed output and
// each cell's final value; the renderer turns a finished run into markdown
// with the outputs interleaved. The first failing cell halts the run and
// every later cell is skipped.
package notebook

import (
	"fmt"
	"io"

	"github.com/mltour/mltour/pkg/errors"
)

// CellKind separates prose cells from executable ones.
type CellKind int

const (
	// KindMarkdown marks a prose cell.
	KindMarkdown CellKind = iota
	// KindCode marks an executable cell.
	KindCode
)

// String returns the kind name used in logs and listings.
func (k CellKind) String() string {
	if k == KindCode {
		return "code"
	}
	return "markdown"
}

// Cell is one entry of a Document. Markdown cells carry Text. Code cells
// carry a stable Name, the Source listing shown to the reader, and the Run
// body; the body prints to out and returns the cell's final value, which
// may be nil.
type Cell struct {
	Kind   CellKind
	Name   string
	Text   string
	Source string
	Run    func(sc *Scope, out io.Writer) (any, error)
}

// Markdown creates a prose cell.
func Markdown(text string) Cell {
	return Cell{Kind: KindMarkdown, Text: text}
}

// Code creates an executable cell.
func Code(name, source string, run func(sc *Scope, out io.Writer) (any, error)) Cell {
	return Cell{Kind: KindCode, Name: name, Source: source, Run: run}
}

// Document is a titled, ordered list of cells.
type Document struct {
	Title string
	Cells []Cell
}

// Validate checks the document before a run: every code cell needs a
// non-empty name, unique across the document, and a body.
func (d *Document) Validate() error {
	seen := make(map[string]int)
	for i := range d.Cells {
		cell := &d.Cells[i]
		if cell.Kind != KindCode {
			continue
		}
		if cell.Name == "" {
			return errors.NewValidationError("cells", fmt.Sprintf("code cell %d has no name", i), nil)
		}
		if prev, dup := seen[cell.Name]; dup {
			return errors.NewValidationError("cells",
				fmt.Sprintf("duplicate code cell name %q (cells %d and %d)", cell.Name, prev, i), cell.Name)
		}
		seen[cell.Name] = i
		if cell.Run == nil {
			return errors.NewValidationError("cells", fmt.Sprintf("code cell %q has no body", cell.Name), nil)
		}
	}
	return nil
}

// CodeCellCount returns how many cells are executable.
func (d *Document) CodeCellCount() int {
	count := 0
	for i := range d.Cells {
		if d.Cells[i].Kind == KindCode {
			count++
		}
	}
	return count
}
