// Package log defines standard attribute keys for regression operations.
//
// Keys follow a hierarchical naming convention (e.g. "model.name",
// "data.samples") so that log records from every model can be filtered the
// same way.

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the type of model.
	// Examples: "SimpleRegressor", "MultipleRegressor"
	ModelNameKey = "model.name"

	// EstimatorIDKey provides a unique identifier for a specific model instance.
	EstimatorIDKey = "estimator.id"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "score", "set_params"
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is performing the operation.
	// Examples: "linear", "matrix", "metrics"
	ComponentKey = "ml.component"

	// SolverKey names the linear-system solver used by a multiple fit.
	SolverKey = "ml.solver"
)

// Data Shape and Characteristics
const (
	// SamplesKey indicates the number of samples (rows) in the training set.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of predictors (columns).
	FeaturesKey = "data.features"
)

// Performance and Fit Quality
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// R2ScoreKey records the R² coefficient of determination.
	R2ScoreKey = "metrics.r2_score"

	// ConditionKey records the condition estimate of a solved linear system.
	ConditionKey = "numeric.condition"

	// ToleranceKey records the relative pivot tolerance used for singularity detection.
	ToleranceKey = "numeric.tolerance"
)

// Error and Warning Context
const (
	// ErrorCodeKey provides a structured error code for programmatic handling.
	// Values come from errors.Kind.Code, e.g. "SINGULAR_SYSTEM".
	ErrorCodeKey = "error.code"

	// ErrorTypeKey records the Go type of the error or warning.
	ErrorTypeKey = "error.type"

	// StacktraceKey contains stack trace information for debugging.
	StacktraceKey = "error.stacktrace"
)

// Configuration
const (
	// RandomSeedKey records the random seed for reproducibility.
	RandomSeedKey = "config.random_seed"
)

// Standard attribute values.
const (
	OperationFit       = "fit"
	OperationPredict   = "predict"
	OperationScore     = "score"
	OperationSetParams = "set_params"
)
