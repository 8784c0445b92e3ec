// Package log defines standard attribute keys for tutorial runs.
//
// This file contains predefined attribute keys that keep logging consistent
// across mltour. Using these standard keys enables filtering a run's log by
// cell, lesson, or estimator, and keeps field names stable between the
// runner, the estimator layer, and the CLI.
//
// The attributes are organized into categories:
//   - Cell and Document Context
//   - Model and Operation Context
//   - Data Shape and Characteristics
//   - Performance Metrics
//   - Error Context
//
// Keys follow a hierarchical naming convention (e.g. "cell.name",
// "data.samples") to enable structured log analysis and filtering.

package log

// Cell and Document Context
// These attributes locate a record within the tutorial document.
const (
	// DocTitleKey names the document being executed.
	DocTitleKey = "doc.title"

	// CellNameKey identifies the code cell by its stable name.
	// Examples: "linreg-fit", "pipeline-predict"
	CellNameKey = "cell.name"

	// CellIndexKey is the cell's position in document order.
	CellIndexKey = "cell.index"

	// CellKindKey is the cell kind, "markdown" or "code".
	CellKindKey = "cell.kind"

	// LessonKey names the lesson a cell belongs to.
	// Examples: "regression", "model-selection"
	LessonKey = "lesson"

	// OutputBytesKey is the size of a cell's captured output.
	OutputBytesKey = "cell.output_bytes"
)

// Model and Operation Context
// These attributes identify the estimator and the operation being performed.
const (
	// ModelNameKey identifies the type of estimator.
	// Examples: "LinearRegression", "StandardScaler", "Pipeline"
	ModelNameKey = "model.name"

	// EstimatorIDKey provides a unique identifier for a specific estimator
	// instance, useful when a lesson fits several of the same type.
	EstimatorIDKey = "estimator.id"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "transform", "fit_transform",
	// "score", "run", "render"
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is performing the operation.
	// Examples: "linear", "preprocessing", "notebook"
	ComponentKey = "ml.component"

	// PhaseKey indicates the phase of the model lifecycle.
	// Examples: "training", "validation", "inference"
	PhaseKey = "ml.phase"
)

// Data Shape and Characteristics
// These attributes describe the structure of data being processed.
const (
	// SamplesKey indicates the number of samples (rows) in the dataset.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of features (columns) in the dataset.
	// Important for debugging shape mismatches.
	FeaturesKey = "data.features"

	// TargetsKey indicates the number of target variables for supervised
	// learning. Usually 1 in the lessons.
	TargetsKey = "data.targets"
)

// Performance Metrics
// These attributes capture timing and evaluation information.
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// AccuracyKey records classification accuracy, typically in [0.0, 1.0].
	AccuracyKey = "metrics.accuracy"

	// LossKey records a loss value during fitting or evaluation.
	LossKey = "metrics.loss"

	// R2ScoreKey records the R² coefficient of determination for regression.
	R2ScoreKey = "metrics.r2_score"

	// IterationKey records iteration counts of iterative processes,
	// for example the optimizer iterations a fit consumed.
	IterationKey = "training.iteration"
)

// Error and Warning Context
// These attributes provide additional context for error and warning messages.
const (
	// ErrorCodeKey provides a structured error code for programmatic handling.
	// Examples: "DIMENSION_MISMATCH", "NOT_FITTED", "CONVERGENCE_FAILURE"
	ErrorCodeKey = "error.code"

	// ErrorTypeKey categorizes the type of error encountered.
	// Examples: "ValidationError", "CellError", "NameError"
	ErrorTypeKey = "error.type"

	// StacktraceKey contains stack trace information for debugging.
	// Automatically populated by the error logging handlers.
	StacktraceKey = "error.stacktrace"

	// SuggestionKey provides helpful suggestions for resolving issues.
	// Examples: "Check input data shape", "Increase max_iter"
	SuggestionKey = "error.suggestion"
)

// Hyperparameters and Configuration
// These attributes capture estimator configuration for reproducibility.
const (
	// HyperParamsKey contains estimator hyperparameters as a structured object.
	HyperParamsKey = "model.hyperparams"

	// RegularizationKey records regularization strength (the classifier's C).
	RegularizationKey = "hyperparams.regularization"

	// RandomSeedKey records the random seed for reproducibility. Every
	// seeded operation in the lessons logs it.
	RandomSeedKey = "config.random_seed"
)

// Standard attribute value constants for common operations.
// Using these constants ensures consistency across the codebase.
const (
	// Standard estimator operations
	OperationFit          = "fit"
	OperationPredict      = "predict"
	OperationTransform    = "transform"
	OperationFitTransform = "fit_transform"
	OperationScore        = "score"

	// Runner operations
	OperationRun    = "run"
	OperationRender = "render"

	// Standard phases
	PhaseTraining   = "training"
	PhaseValidation = "validation"
	PhaseInference  = "inference"

	// Standard error codes
	ErrorNotFitted         = "NOT_FITTED"
	ErrorDimensionMismatch = "DIMENSION_MISMATCH"
	ErrorEmptyData         = "EMPTY_DATA"
	ErrorInvalidInput      = "INVALID_INPUT"
	ErrorConvergence       = "CONVERGENCE_FAILURE"
	ErrorSingularMatrix    = "SINGULAR_MATRIX"
	ErrorCellFailed        = "CELL_FAILED"
)
