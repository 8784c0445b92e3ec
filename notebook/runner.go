package notebook

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/mltour/mltour/pkg/errors"
	"github.com/mltour/mltour/pkg/log"
)

// CellResult records one cell's execution. Markdown cells get a zero result
// at their index so Results lines up with Document.Cells.
type CellResult struct {
	Index    int
	Output   string
	Value    any
	Err      error
	Skipped  bool
	Duration time.Duration
}

// Report is the outcome of a run: one result per document cell, in order,
// plus the index of the failing cell, or -1 when every cell ran.
type Report struct {
	Doc         *Document
	Results     []CellResult
	FailedIndex int
}

// Failed reports whether the run stopped at a failing cell.
func (r *Report) Failed() bool {
	return r.FailedIndex >= 0
}

// Result returns the result of the named code cell.
func (r *Report) Result(name string) (*CellResult, error) {
	for i := range r.Doc.Cells {
		cell := &r.Doc.Cells[i]
		if cell.Kind == KindCode && cell.Name == name {
			return &r.Results[i], nil
		}
	}
	return nil, errors.NewNameError(name)
}

// Runner executes documents. Cells run one at a time, strictly in document
// order, against a scope that is fresh for every Run call.
type Runner struct {
	logger log.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger routes the runner's progress records to the given logger.
// Without it the runner is silent.
func WithLogger(logger log.Logger) RunnerOption {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRunner creates a Runner.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{logger: log.NewZerologLogger(io.Discard, log.LevelInfo)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes doc's code cells in document order and collects their
// captured output and final values. The first failing cell halts execution:
// its result carries a CellError wrapping the cause, every later code cell
// is marked skipped, and Run returns that same CellError. The report always
// comes back with everything produced before the stop.
//
// A panic inside a cell body is recovered and counts as that cell failing.
// Cancellation of ctx is honored between cells, never in the middle of one.
func (r *Runner) Run(ctx context.Context, doc *Document) (*Report, error) {
	if doc == nil {
		return nil, errors.NewValueError("Run", "document must not be nil")
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	logger := r.logger.With(log.DocTitleKey, doc.Title, log.OperationKey, log.OperationRun)
	logger.Info("run started", "cells", len(doc.Cells), "code_cells", doc.CodeCellCount())

	sc := NewScope()
	report := &Report{
		Doc:         doc,
		Results:     make([]CellResult, len(doc.Cells)),
		FailedIndex: -1,
	}
	started := time.Now()

	for i := range doc.Cells {
		cell := &doc.Cells[i]
		result := &report.Results[i]
		result.Index = i
		if cell.Kind != KindCode {
			continue
		}
		if report.FailedIndex >= 0 {
			result.Skipped = true
			continue
		}
		if err := ctx.Err(); err != nil {
			skipFrom(report, i)
			logger.Warn("run canceled", log.CellIndexKey, i)
			return report, errors.Wrap(err, "mltour: run canceled")
		}

		var (
			buf   bytes.Buffer
			value any
		)
		cellStart := time.Now()
		err := errors.SafeExecute("cell "+cell.Name, func() error {
			v, runErr := cell.Run(sc, &buf)
			value = v
			return runErr
		})
		result.Output = buf.String()
		result.Value = value
		result.Duration = time.Since(cellStart)

		if err != nil {
			cellErr := errors.NewCellError(cell.Name, i, err)
			result.Err = cellErr
			report.FailedIndex = i
			logger.Error("cell failed", cellErr,
				log.CellNameKey, cell.Name,
				log.CellIndexKey, i,
				log.ErrorCodeKey, log.ErrorCellFailed,
			)
			continue
		}
		logger.Info("cell finished",
			log.CellNameKey, cell.Name,
			log.CellIndexKey, i,
			log.DurationMsKey, result.Duration.Milliseconds(),
			log.OutputBytesKey, len(result.Output),
		)
	}

	if report.Failed() {
		return report, report.Results[report.FailedIndex].Err
	}
	logger.Info("run finished", log.DurationMsKey, time.Since(started).Milliseconds())
	return report, nil
}

// skipFrom marks every code cell at or after index as skipped.
func skipFrom(report *Report, index int) {
	for i := index; i < len(report.Doc.Cells); i++ {
		if report.Doc.Cells[i].Kind == KindCode {
			report.Results[i].Skipped = true
		}
	}
}
