// Package booster implements a compact multiclass gradient boosting
// trainer with pluggable objectives. Each round it asks the objective
// for per-(sample, class) gradients and Hessians over the current raw
// score matrix, fits one regression tree per class to them, and adds
// the shrunken tree outputs back into the scores.
package booster

import (
	"gonum.org/v1/gonum/mat"

	"github.com/hrmn-preet/multi-class-xgboost/objective"
	mcxgbErrors "github.com/hrmn-preet/multi-class-xgboost/pkg/errors"
	"github.com/hrmn-preet/multi-class-xgboost/pkg/log"
)

// Params contains the training hyperparameters. Everything that was a
// constant in quick demos is an explicit parameter here so independent
// runs and tests can vary them.
type Params struct {
	NumRounds       int
	LearningRate    float64
	MaxDepth        int
	MinChildSamples int
	Lambda          float64
	MinGainToSplit  float64

	NumClass  int
	Objective string

	Verbosity int
}

// RoundCallback observes the metric values recorded after each round.
type RoundCallback func(round int, evals map[string]float64)

// Trainer drives the boosting loop.
type Trainer struct {
	params       Params
	objective    Objective
	sampleWeight []float64
	callbacks    []RoundCallback
}

// NewTrainer creates a trainer, filling in defaults for zero-valued
// parameters.
func NewTrainer(params Params) *Trainer {
	if params.NumRounds == 0 {
		params.NumRounds = 10
	}
	if params.LearningRate == 0 {
		params.LearningRate = 0.3
	}
	if params.MaxDepth == 0 {
		params.MaxDepth = 6
	}
	if params.MinChildSamples == 0 {
		params.MinChildSamples = 1
	}
	if params.Objective == "" {
		params.Objective = "multi:softmax"
	}

	return &Trainer{params: params}
}

// WithObjective injects a custom objective, overriding Params.Objective.
func (t *Trainer) WithObjective(obj Objective) *Trainer {
	t.objective = obj
	return t
}

// WithRoundCallback registers a callback invoked after every round.
func (t *Trainer) WithRoundCallback(cb RoundCallback) *Trainer {
	t.callbacks = append(t.callbacks, cb)
	return t
}

// SetSampleWeight sets per-sample weights for training. nil means 1.0
// for every sample.
func (t *Trainer) SetSampleWeight(weights []float64) {
	t.sampleWeight = weights
}

// Fit trains the ensemble on X and integer class labels and returns the
// model together with its per-round metric history.
func (t *Trainer) Fit(X *mat.Dense, labels []int) (*Model, error) {
	if X == nil {
		return nil, mcxgbErrors.NewValueError("Trainer.Fit", "feature matrix cannot be nil")
	}
	rows, cols := X.Dims()
	if rows == 0 {
		return nil, mcxgbErrors.Wrap(mcxgbErrors.ErrEmptyData, "Trainer.Fit")
	}
	if len(labels) != rows {
		return nil, mcxgbErrors.NewDimensionError("Trainer.Fit", rows, len(labels), 0)
	}
	if t.params.NumClass < 2 {
		return nil, mcxgbErrors.NewValidationError("NumClass", "must be at least 2", t.params.NumClass)
	}
	if t.sampleWeight != nil && len(t.sampleWeight) != rows {
		return nil, mcxgbErrors.NewDimensionError("Trainer.Fit", rows, len(t.sampleWeight), 0)
	}

	obj := t.objective
	if obj == nil {
		var err error
		obj, err = CreateObjective(t.params.Objective, t.params.NumClass)
		if err != nil {
			return nil, err
		}
	}

	logger := log.GetLoggerWithName("booster.trainer")
	if t.params.Verbosity > 0 {
		logger.Info("Training started",
			log.ObjectiveKey, obj.Name(),
			log.SamplesKey, rows,
			log.FeaturesKey, cols,
			log.ClassesKey, t.params.NumClass,
		)
	}

	// Raw scores start at zero, i.e. a uniform softmax distribution.
	rawPreds := mat.NewDense(rows, t.params.NumClass, nil)

	model := &Model{
		NumClass:      t.params.NumClass,
		NumFeatures:   cols,
		LearningRate:  t.params.LearningRate,
		ObjectiveName: obj.Name(),
		History:       make(EvalHistory),
	}

	gradCol := make([]float64, rows)
	hessCol := make([]float64, rows)
	features := make([]float64, cols)

	for round := 0; round < t.params.NumRounds; round++ {
		grad, hess, err := obj.GradHess(rawPreds, labels, t.sampleWeight)
		if err != nil {
			return nil, mcxgbErrors.Wrapf(err, "gradient computation failed at round %d", round)
		}
		if err := mcxgbErrors.CheckMatrix("gradient", grad, rows, t.params.NumClass, round); err != nil {
			return nil, err
		}

		for k := 0; k < t.params.NumClass; k++ {
			for i := 0; i < rows; i++ {
				gradCol[i] = grad.At(i, k)
				hessCol[i] = hess.At(i, k)
			}

			builder := &treeBuilder{
				X:         X,
				gradients: gradCol,
				hessians:  hessCol,
				params:    &t.params,
			}
			tree := builder.build(round, k)

			for i := 0; i < rows; i++ {
				mat.Row(features, i, X)
				rawPreds.Set(i, k, rawPreds.At(i, k)+tree.Predict(features))
			}

			model.Trees = append(model.Trees, tree)
		}

		evals, err := t.evaluateRound(obj, rawPreds, labels)
		if err != nil {
			return nil, err
		}
		for name, value := range evals {
			model.History[name] = append(model.History[name], value)
		}
		for _, cb := range t.callbacks {
			cb(round, evals)
		}

		if t.params.Verbosity > 0 && round%10 == 0 {
			logger.Debug("Training progress",
				log.RoundKey, round,
				log.ErrorRateKey, evals["train-merror"],
				log.LossKey, evals["train-mlogloss"],
			)
		}
	}

	model.NumRounds = t.params.NumRounds
	return model, nil
}

// evaluateRound computes the monitoring metrics on the training set for
// the current raw scores.
func (t *Trainer) evaluateRound(obj Objective, rawPreds *mat.Dense, labels []int) (map[string]float64, error) {
	predicted := objective.PredictClass(rawPreds)

	wrong := 0
	for i, label := range labels {
		if predicted[i] != label {
			wrong++
		}
	}
	errorRate := float64(wrong) / float64(len(labels))

	loss, err := obj.Loss(rawPreds, labels)
	if err != nil {
		return nil, err
	}

	return map[string]float64{
		"train-merror":   errorRate,
		"train-mlogloss": loss,
	}, nil
}
