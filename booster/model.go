package booster

import (
	"gonum.org/v1/gonum/mat"

	"github.com/hrmn-preet/multi-class-xgboost/objective"
	mcxgbErrors "github.com/hrmn-preet/multi-class-xgboost/pkg/errors"
)

// EvalHistory records one metric value per boosting round under a named
// series, e.g. "train-merror".
type EvalHistory map[string][]float64

// Series returns the values recorded under name, or nil.
func (h EvalHistory) Series(name string) []float64 {
	return h[name]
}

// Model is a trained multiclass ensemble. Trees are stored flat; each
// tree carries the round and class column it belongs to.
type Model struct {
	NumClass      int
	NumFeatures   int
	NumRounds     int
	LearningRate  float64
	ObjectiveName string

	Trees []Tree

	// History holds the per-round training metric series.
	History EvalHistory
}

// RawScores returns the (N, NumClass) raw margin matrix for X: the sum
// of all shrunken tree outputs per class.
func (m *Model) RawScores(X *mat.Dense) (*mat.Dense, error) {
	if X == nil {
		return nil, mcxgbErrors.NewValueError("Model.RawScores", "feature matrix cannot be nil")
	}
	rows, cols := X.Dims()
	if cols != m.NumFeatures {
		return nil, mcxgbErrors.NewDimensionError("Model.RawScores", m.NumFeatures, cols, 1)
	}

	scores := mat.NewDense(rows, m.NumClass, nil)
	features := make([]float64, cols)
	for i := 0; i < rows; i++ {
		mat.Row(features, i, X)
		for ti := range m.Trees {
			tree := &m.Trees[ti]
			scores.Set(i, tree.Class, scores.At(i, tree.Class)+tree.Predict(features))
		}
	}
	return scores, nil
}

// PredictClass returns the arg-max class index per sample.
func (m *Model) PredictClass(X *mat.Dense) ([]int, error) {
	scores, err := m.RawScores(X)
	if err != nil {
		return nil, err
	}
	return objective.PredictClass(scores), nil
}

// PredictProba returns the softmax class probabilities per sample.
func (m *Model) PredictProba(X *mat.Dense) (*mat.Dense, error) {
	scores, err := m.RawScores(X)
	if err != nil {
		return nil, err
	}

	rows, _ := scores.Dims()
	probs := mat.NewDense(rows, m.NumClass, nil)
	for i := 0; i < rows; i++ {
		probs.SetRow(i, objective.SoftmaxRow(scores.RawRowView(i)))
	}
	return probs, nil
}
