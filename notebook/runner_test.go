package notebook

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mltour/mltour/pkg/errors"
	"github.com/mltour/mltour/pkg/log"
)

func TestRunnerOrder(t *testing.T) {
	var visited []string
	body := func(name string) func(*Scope, io.Writer) (any, error) {
		return func(sc *Scope, out io.Writer) (any, error) {
			visited = append(visited, name)
			fmt.Fprintf(out, "ran %s\n", name)
			return nil, nil
		}
	}
	doc := &Document{
		Title: "Order",
		Cells: []Cell{
			Markdown("Cells run top to bottom."),
			Code("first", "first()", body("first")),
			Code("second", "second()", body("second")),
			Markdown("Prose never executes."),
			Code("third", "third()", body("third")),
		},
	}

	report, err := NewRunner().Run(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, visited)
	assert.False(t, report.Failed())
	assert.Equal(t, -1, report.FailedIndex)
	require.Len(t, report.Results, 5)
	assert.Equal(t, "ran first\n", report.Results[1].Output)
	assert.Equal(t, "ran third\n", report.Results[4].Output)

	result, err := report.Result("second")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Index)
	_, err = report.Result("fourth")
	assert.Error(t, err)
}

func TestRunnerScope(t *testing.T) {
	doc := &Document{
		Title: "Scope",
		Cells: []Cell{
			Code("define", `sc.Define("hours", hours)`, func(sc *Scope, out io.Writer) (any, error) {
				sc.Define("hours", []float64{0.5, 1.0, 2.5, 3.0})
				return nil, nil
			}),
			Code("read", `hours, _ := notebook.Get[[]float64](sc, "hours")`, func(sc *Scope, out io.Writer) (any, error) {
				hours, err := Get[[]float64](sc, "hours")
				if err != nil {
					return nil, err
				}
				fmt.Fprintf(out, "%d study sessions\n", len(hours))
				return len(hours), nil
			}),
		},
	}

	report, err := NewRunner().Run(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, "4 study sessions\n", report.Results[1].Output)
	assert.Equal(t, 4, report.Results[1].Value)
}

// Every Run starts from an empty scope, so a document cannot see names a
// previous document defined.
func TestRunnerFreshScope(t *testing.T) {
	define := &Document{
		Title: "Define",
		Cells: []Cell{
			Code("define", `sc.Define("x", 1)`, func(sc *Scope, out io.Writer) (any, error) {
				sc.Define("x", 1)
				return nil, nil
			}),
		},
	}
	read := &Document{
		Title: "Read",
		Cells: []Cell{
			Code("read", `sc.Lookup("x")`, func(sc *Scope, out io.Writer) (any, error) {
				return sc.Lookup("x")
			}),
		},
	}

	runner := NewRunner()
	_, err := runner.Run(context.Background(), define)
	require.NoError(t, err)

	_, err = runner.Run(context.Background(), read)
	require.Error(t, err)
	var nameErr *errors.NameError
	assert.True(t, errors.As(err, &nameErr), "the NameError should surface through the CellError")
	assert.Equal(t, "x", nameErr.Name)
}

func TestRunnerFailFast(t *testing.T) {
	ranAfter := false
	doc := &Document{
		Title: "Failing",
		Cells: []Cell{
			Code("ok", "fit()", func(sc *Scope, out io.Writer) (any, error) {
				fmt.Fprintln(out, "fitted")
				return nil, nil
			}),
			Code("boom", "boom()", func(sc *Scope, out io.Writer) (any, error) {
				fmt.Fprintln(out, "partial output")
				return nil, errors.New("bad fit")
			}),
			Code("after", "after()", func(sc *Scope, out io.Writer) (any, error) {
				ranAfter = true
				return nil, nil
			}),
		},
	}

	logger, _ := log.NewTestLogger(log.LevelInfo)
	report, err := NewRunner(WithLogger(logger)).Run(context.Background(), doc)
	require.Error(t, err)
	require.NotNil(t, report, "a failed run still returns the partial report")
	assert.False(t, ranAfter, "cells after the failure must not run")
	assert.True(t, report.Failed())
	assert.Equal(t, 1, report.FailedIndex)

	var cellErr *errors.CellError
	require.True(t, errors.As(err, &cellErr))
	assert.Equal(t, "boom", cellErr.Cell)
	assert.Equal(t, 1, cellErr.Index)
	assert.Contains(t, cellErr.Err.Error(), "bad fit")

	// Output printed before the failure is preserved.
	assert.Equal(t, "fitted\n", report.Results[0].Output)
	assert.Equal(t, "partial output\n", report.Results[1].Output)
	assert.Equal(t, err, report.Results[1].Err)
	assert.False(t, report.Results[0].Skipped)
	assert.True(t, report.Results[2].Skipped)
	assert.NoError(t, report.Results[2].Err)

	assert.True(t, logger.ContainsMessage("cell failed"))
	assert.True(t, logger.ContainsField(log.CellNameKey, "boom"))
	assert.True(t, logger.ContainsField(log.ErrorCodeKey, log.ErrorCellFailed))
}

func TestRunnerPanicRecovery(t *testing.T) {
	doc := &Document{
		Title: "Panicking",
		Cells: []Cell{
			Code("panics", "explode()", func(sc *Scope, out io.Writer) (any, error) {
				var empty []float64
				return empty[3], nil
			}),
			Code("after", "after()", func(sc *Scope, out io.Writer) (any, error) {
				return nil, nil
			}),
		},
	}

	report, err := NewRunner().Run(context.Background(), doc)
	require.Error(t, err, "a panicking cell fails the run instead of crashing it")
	assert.Equal(t, 0, report.FailedIndex)

	var cellErr *errors.CellError
	require.True(t, errors.As(err, &cellErr))
	assert.Equal(t, "panics", cellErr.Cell)
	var panicErr *errors.PanicError
	require.True(t, errors.As(err, &panicErr))
	assert.Equal(t, "cell panics", panicErr.Operation)
	assert.True(t, report.Results[1].Skipped)
}

func TestRunnerCancellation(t *testing.T) {
	ran := 0
	doc := &Document{
		Title: "Canceled",
		Cells: []Cell{
			Code("one", "one()", func(sc *Scope, out io.Writer) (any, error) {
				ran++
				return nil, nil
			}),
			Code("two", "two()", func(sc *Scope, out io.Writer) (any, error) {
				ran++
				return nil, nil
			}),
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report, err := NewRunner().Run(ctx, doc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 0, ran, "cancellation before the run keeps every cell from executing")
	require.NotNil(t, report)
	assert.True(t, report.Results[0].Skipped)
	assert.True(t, report.Results[1].Skipped)
	assert.False(t, report.Failed(), "cancellation is not a cell failure")
}

func TestRunnerValidation(t *testing.T) {
	runner := NewRunner()
	noop := func(sc *Scope, out io.Writer) (any, error) { return nil, nil }

	cases := map[string]*Document{
		"unnamed code cell": {Cells: []Cell{Code("", "x", noop)}},
		"duplicate names":   {Cells: []Cell{Code("fit", "x", noop), Code("fit", "y", noop)}},
		"missing body":      {Cells: []Cell{{Kind: KindCode, Name: "fit", Source: "x"}}},
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := runner.Run(context.Background(), doc)
			require.Error(t, err)
			var validationErr *errors.ValidationError
			assert.True(t, errors.As(err, &validationErr))
		})
	}

	_, err := runner.Run(context.Background(), nil)
	assert.Error(t, err)
}
