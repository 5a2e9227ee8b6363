// Package metrics provides the monitoring metrics recorded alongside
// boosting runs: misclassification rate, accuracy, and multiclass log
// loss.
package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"

	mcxgbErrors "github.com/hrmn-preet/multi-class-xgboost/pkg/errors"
)

// ErrorRate calculates the fraction of samples whose predicted label
// disagrees with the true label.
//
// Parameters:
//   - yTrue: Ground truth labels
//   - yPred: Predicted labels
//
// Returns:
//   - The error rate (between 0 and 1)
//   - An error if inputs are invalid
func ErrorRate(yTrue, yPred *mat.VecDense) (float64, error) {
	if yTrue == nil || yPred == nil {
		return 0, mcxgbErrors.NewValueError(
			"ErrorRate",
			"input vectors cannot be nil",
		)
	}

	n := yTrue.Len()
	if n == 0 {
		return 0, mcxgbErrors.NewValueError(
			"ErrorRate",
			"input vectors cannot be empty",
		)
	}

	if n != yPred.Len() {
		return 0, mcxgbErrors.NewDimensionError(
			"ErrorRate",
			n,
			yPred.Len(),
			0,
		)
	}

	wrong := 0
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) != yPred.AtVec(i) {
			wrong++
		}
	}

	return float64(wrong) / float64(n), nil
}

// ErrorRateLabels is ErrorRate over integer label slices, the form the
// boosting trainer works with.
func ErrorRateLabels(yTrue, yPred []int) (float64, error) {
	if len(yTrue) == 0 {
		return 0, mcxgbErrors.NewValueError(
			"ErrorRateLabels",
			"label slices cannot be empty",
		)
	}
	if len(yTrue) != len(yPred) {
		return 0, mcxgbErrors.NewDimensionError(
			"ErrorRateLabels",
			len(yTrue),
			len(yPred),
			0,
		)
	}

	wrong := 0
	for i, label := range yTrue {
		if label != yPred[i] {
			wrong++
		}
	}
	return float64(wrong) / float64(len(yTrue)), nil
}

// Accuracy calculates the fraction of correct predictions.
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	errorRate, err := ErrorRate(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return 1.0 - errorRate, nil
}

// MultiLogLoss calculates the mean multiclass cross-entropy over a
// probability matrix: -log(p[label]) averaged over samples.
// Probabilities are clipped away from zero so a confidently wrong
// prediction yields a large but finite loss.
func MultiLogLoss(probs *mat.Dense, labels []int) (float64, error) {
	if probs == nil {
		return 0, mcxgbErrors.NewValueError(
			"MultiLogLoss",
			"probability matrix cannot be nil",
		)
	}

	rows, cols := probs.Dims()
	if rows == 0 {
		return 0, mcxgbErrors.NewValueError(
			"MultiLogLoss",
			"probability matrix cannot be empty",
		)
	}
	if len(labels) != rows {
		return 0, mcxgbErrors.NewDimensionError(
			"MultiLogLoss",
			rows,
			len(labels),
			0,
		)
	}

	const epsilon = 1e-15
	loss := 0.0
	for i := 0; i < rows; i++ {
		label := labels[i]
		if label < 0 || label >= cols {
			return 0, mcxgbErrors.NewValidationError(
				"labels",
				"class label out of range [0, numClass)",
				[]int{i, label},
			)
		}

		p := probs.At(i, label)
		if p < epsilon {
			p = epsilon
		} else if p > 1-epsilon {
			p = 1 - epsilon
		}
		loss -= math.Log(p)
	}

	return loss / float64(rows), nil
}
