// Package lessons assembles the tour itself: an ordered document of prose
// and runnable code cells covering regression, classification,
// preprocessing, pipelines, model selection and metrics. Every cell is
// deterministic (fixed seeds, sorted enumeration, zero-initialized solvers)
// so running the course twice renders byte-identical markdown.
//
// Source listings are written the way a reader would type the code in a
// plain Go program; the cell bodies run the same logic against the shared
// scope so later cells can pick up earlier results.
package lessons

import (
	"github.com/mltour/mltour/notebook"
)

// CourseTitle is the rendered document title.
const CourseTitle = "A Tour of Machine Learning in Go"

// NewCourse builds the full course document. The lessons are ordered and
// later cells read names earlier cells defined, so the document only runs
// front to back.
func NewCourse() *notebook.Document {
	var cells []notebook.Cell
	cells = append(cells, welcomeLesson()...)
	cells = append(cells, regressionLesson()...)
	cells = append(cells, classificationLesson()...)
	cells = append(cells, preprocessingLesson()...)
	cells = append(cells, pipelineLesson()...)
	cells = append(cells, modelSelectionLesson()...)
	cells = append(cells, metricsLesson()...)
	return &notebook.Document{Title: CourseTitle, Cells: cells}
}
