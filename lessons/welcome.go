package lessons

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/mltour/mltour/datasets"
	"github.com/mltour/mltour/notebook"
)

func welcomeLesson() []notebook.Cell {
	return []notebook.Cell{
		notebook.Markdown(`## 1. Welcome

This tour is a sequence of small Go programs. Each code cell runs in
document order, its printed output appears below the listing, and any name a
cell defines stays visible to every later cell. The first cell loads the
tiny study dataset the classification lessons build on: hours studied and
whether the student passed.`),

		notebook.Code("study-data", `hours, passed := datasets.StudyHours()
rows, cols := hours.Dims()
fmt.Printf("loaded %d students with %d feature (hours studied)\n", rows, cols)`,
			func(sc *notebook.Scope, out io.Writer) (any, error) {
				hours, passed := datasets.StudyHours()
				sc.Define("hours", hours)
				sc.Define("passed", passed)
				rows, cols := hours.Dims()
				fmt.Fprintf(out, "loaded %d students with %d feature (hours studied)\n", rows, cols)
				return nil, nil
			}),

		notebook.Code("study-peek", `for i := 0; i < rows; i++ {
	fmt.Printf("%.1f h -> %.0f\n", hours.At(i, 0), passed.At(i, 0))
}
fmt.Printf("mean hours: %.2f\n", stat.Mean(mat.Col(nil, 0, hours), nil))`,
			func(sc *notebook.Scope, out io.Writer) (any, error) {
				hours, err := notebook.Get[*mat.Dense](sc, "hours")
				if err != nil {
					return nil, err
				}
				passed, err := notebook.Get[*mat.Dense](sc, "passed")
				if err != nil {
					return nil, err
				}
				rows, _ := hours.Dims()
				for i := 0; i < rows; i++ {
					fmt.Fprintf(out, "%.1f h -> %.0f\n", hours.At(i, 0), passed.At(i, 0))
				}
				fmt.Fprintf(out, "mean hours: %.2f\n", stat.Mean(mat.Col(nil, 0, hours), nil))
				return nil, nil
			}),
	}
}
