// Package objective implements the multinomial softmax cross-entropy
// objective for gradient boosting: per-(sample, class) first-order
// gradients and diagonal second-order curvature over raw margin scores,
// plus the arg-max prediction and misclassification-rate helpers that
// accompany it.
package objective

import (
	"math"

	"gonum.org/v1/gonum/mat"

	mcxgbErrors "github.com/hrmn-preet/multi-class-xgboost/pkg/errors"
)

// DefaultHessianFloor is the lower bound applied to every Hessian entry.
// Near-saturated probabilities (p close to 0 or 1) would otherwise
// produce a vanishing second-order term and destabilize the Newton-step
// leaf values downstream.
const DefaultHessianFloor = 1e-6

// Softmax is the multiclass softmax cross-entropy objective. The
// gradient for class c of a sample with true label y is p[c] - 1{c==y};
// the diagonal Hessian is 2*p[c]*(1-p[c]), floored. Both are scaled by
// the per-sample weight before the floor is applied to the Hessian.
//
// Softmax is stateless apart from its configuration; every call is a
// pure function of its inputs and rows are independent, so concurrent
// use on disjoint inputs is safe.
type Softmax struct {
	numClass     int
	hessianFloor float64
}

// NewSoftmax creates a softmax objective over numClass classes.
func NewSoftmax(numClass int) (*Softmax, error) {
	if numClass < 2 {
		return nil, mcxgbErrors.NewValidationError("numClass", "must be at least 2", numClass)
	}
	return &Softmax{
		numClass:     numClass,
		hessianFloor: DefaultHessianFloor,
	}, nil
}

// NumClass returns the number of classes this objective was built for.
func (s *Softmax) NumClass() int {
	return s.numClass
}

// Name returns the canonical objective name.
func (s *Softmax) Name() string {
	return "multi:softmax"
}

// GradHess computes the gradient and Hessian matrices for the current
// raw predictions. preds must have shape (N, numClass); labels holds the
// true class index per sample; weights may be nil, meaning 1.0 for every
// sample. The returned matrices are freshly allocated and have the same
// shape as preds; every Hessian entry is >= the floor.
func (s *Softmax) GradHess(preds *mat.Dense, labels []int, weights []float64) (grad, hess *mat.Dense, err error) {
	rows, cols, err := s.validate(preds, labels, weights)
	if err != nil {
		return nil, nil, err
	}

	grad = mat.NewDense(rows, cols, nil)
	hess = mat.NewDense(rows, cols, nil)

	probs := make([]float64, cols)
	for i := 0; i < rows; i++ {
		softmaxInto(probs, preds.RawRowView(i))

		w := 1.0
		if weights != nil {
			w = weights[i]
		}
		trueClass := labels[i]

		for c := 0; c < cols; c++ {
			p := probs[c]

			g := p
			if c == trueClass {
				g = p - 1.0
			}
			grad.Set(i, c, g*w)

			h := 2.0 * p * (1.0 - p) * w
			if h < s.hessianFloor {
				h = s.hessianFloor
			}
			hess.Set(i, c, h)
		}
	}

	return grad, hess, nil
}

// Loss computes the mean multiclass cross-entropy -log(p[label]) over
// all samples, using log-sum-exp for stability.
func (s *Softmax) Loss(preds *mat.Dense, labels []int) (float64, error) {
	rows, _, err := s.validate(preds, labels, nil)
	if err != nil {
		return 0, err
	}

	total := 0.0
	for i := 0; i < rows; i++ {
		row := preds.RawRowView(i)
		total -= row[labels[i]] - mcxgbErrors.LogSumExp(row)
	}
	return total / float64(rows), nil
}

// ErrorRate returns the fraction of samples whose arg-max predicted
// class disagrees with the true label. Ties go to the lowest index.
func (s *Softmax) ErrorRate(preds *mat.Dense, labels []int) (float64, error) {
	rows, _, err := s.validate(preds, labels, nil)
	if err != nil {
		return 0, err
	}

	wrong := 0
	for i := 0; i < rows; i++ {
		if argmax(preds.RawRowView(i)) != labels[i] {
			wrong++
		}
	}
	return float64(wrong) / float64(rows), nil
}

// PredictClass converts a raw score matrix into discrete class indices
// via a per-row arg-max scan. Ties go to the lowest index.
func PredictClass(preds *mat.Dense) []int {
	rows, _ := preds.Dims()
	classes := make([]int, rows)
	for i := 0; i < rows; i++ {
		classes[i] = argmax(preds.RawRowView(i))
	}
	return classes
}

// validate checks the (N, K) invariants shared by all operations.
// Violations are caller bugs: the returned errors are fatal, never
// retried.
func (s *Softmax) validate(preds *mat.Dense, labels []int, weights []float64) (rows, cols int, err error) {
	if preds == nil {
		return 0, 0, mcxgbErrors.NewValueError("Softmax", "predictions matrix cannot be nil")
	}
	rows, cols = preds.Dims()
	if rows == 0 {
		return 0, 0, mcxgbErrors.NewValueError("Softmax", "predictions matrix cannot be empty")
	}
	if cols != s.numClass {
		return 0, 0, mcxgbErrors.NewDimensionError("Softmax", s.numClass, cols, 1)
	}
	if len(labels) != rows {
		return 0, 0, mcxgbErrors.NewDimensionError("Softmax", rows, len(labels), 0)
	}
	if weights != nil && len(weights) != rows {
		return 0, 0, mcxgbErrors.NewDimensionError("Softmax", rows, len(weights), 0)
	}
	for i, label := range labels {
		if label < 0 || label >= s.numClass {
			return 0, 0, mcxgbErrors.NewValidationError("labels",
				"class label out of range [0, numClass)", []int{i, label})
		}
	}
	for i, w := range weights {
		if w < 0 || math.IsNaN(w) {
			return 0, 0, mcxgbErrors.NewValidationError("weights",
				"sample weight must be non-negative", []float64{float64(i), w})
		}
	}
	return rows, cols, nil
}

// softmaxInto writes the softmax distribution of logits into dst. The
// row maximum is subtracted before exponentiating so large raw margins
// cannot overflow.
func softmaxInto(dst, logits []float64) {
	maxLogit := logits[0]
	for _, v := range logits[1:] {
		if v > maxLogit {
			maxLogit = v
		}
	}

	expSum := 0.0
	for i, v := range logits {
		dst[i] = math.Exp(v - maxLogit)
		expSum += dst[i]
	}

	if expSum > 0 {
		for i := range dst {
			dst[i] /= expSum
		}
	}
}

// SoftmaxRow returns the softmax distribution over a single row of raw
// scores as a fresh slice.
func SoftmaxRow(logits []float64) []float64 {
	probs := make([]float64, len(logits))
	softmaxInto(probs, logits)
	return probs
}

func argmax(row []float64) int {
	best := 0
	bestVal := row[0]
	for i, v := range row[1:] {
		if v > bestVal {
			best = i + 1
			bestVal = v
		}
	}
	return best
}
