package log

// Standard attribute keys used across training and evaluation logs.
// Hierarchical names keep structured log filtering consistent.
const (
	// ComponentKey identifies which package is performing the operation.
	ComponentKey = "ml.component"

	// OperationKey names the operation being performed, e.g. "fit",
	// "gradient", "evaluate".
	OperationKey = "ml.operation"

	// SamplesKey is the number of samples (rows) being processed.
	SamplesKey = "data.samples"

	// FeaturesKey is the number of feature columns.
	FeaturesKey = "data.features"

	// ClassesKey is the number of target classes.
	ClassesKey = "data.classes"

	// RoundKey is the current boosting round.
	RoundKey = "training.round"

	// ObjectiveKey names the objective in use.
	ObjectiveKey = "training.objective"

	// ErrorRateKey is the misclassification-rate metric value.
	ErrorRateKey = "metrics.error_rate"

	// LossKey is the training loss value.
	LossKey = "metrics.loss"

	// SeedKey is the random seed for reproducibility.
	SeedKey = "config.random_seed"

	// DurationMsKey is the wall-clock duration of an operation in
	// milliseconds.
	DurationMsKey = "perf.duration_ms"
)
