package booster

import (
	"gonum.org/v1/gonum/mat"

	"github.com/hrmn-preet/multi-class-xgboost/objective"
	mcxgbErrors "github.com/hrmn-preet/multi-class-xgboost/pkg/errors"
)

// Objective supplies per-(sample, class) gradients and Hessians to the
// trainer each boosting round. The trainer owns the returned matrices
// for one round and discards them.
type Objective interface {
	// GradHess computes gradient and Hessian matrices with the same
	// shape as preds. weights may be nil.
	GradHess(preds *mat.Dense, labels []int, weights []float64) (grad, hess *mat.Dense, err error)

	// Loss computes the scalar training loss for monitoring.
	Loss(preds *mat.Dense, labels []int) (float64, error)

	// Name returns the objective's name, used as the metric-series prefix.
	Name() string
}

// CreateObjective resolves a built-in objective by name.
func CreateObjective(name string, numClass int) (Objective, error) {
	switch name {
	case "multi:softmax", "multi:softprob", "multiclass", "softmax":
		return objective.NewSoftmax(numClass)
	default:
		return nil, mcxgbErrors.Newf("unknown objective: %s", name)
	}
}

// GradHessFunc is the signature for a user-supplied gradient/Hessian
// computation, the plug-in point this library exists to demonstrate.
type GradHessFunc func(preds *mat.Dense, labels []int, weights []float64) (grad, hess *mat.Dense, err error)

// FuncObjective adapts a plain function into an Objective. Loss falls
// back to the built-in softmax cross-entropy unless a custom loss is
// provided, matching how boosting libraries pair a custom objective
// with a standard monitoring metric.
type FuncObjective struct {
	name     string
	gradHess GradHessFunc
	loss     func(preds *mat.Dense, labels []int) (float64, error)
	fallback *objective.Softmax
}

// NewFuncObjective wraps fn as an Objective over numClass classes.
func NewFuncObjective(name string, numClass int, fn GradHessFunc) (*FuncObjective, error) {
	if fn == nil {
		return nil, mcxgbErrors.NewValueError("NewFuncObjective", "gradient function cannot be nil")
	}
	fallback, err := objective.NewSoftmax(numClass)
	if err != nil {
		return nil, err
	}
	return &FuncObjective{
		name:     name,
		gradHess: fn,
		fallback: fallback,
	}, nil
}

// WithLoss sets a custom monitoring loss.
func (f *FuncObjective) WithLoss(loss func(preds *mat.Dense, labels []int) (float64, error)) *FuncObjective {
	f.loss = loss
	return f
}

// GradHess invokes the wrapped function.
func (f *FuncObjective) GradHess(preds *mat.Dense, labels []int, weights []float64) (*mat.Dense, *mat.Dense, error) {
	return f.gradHess(preds, labels, weights)
}

// Loss computes the monitoring loss.
func (f *FuncObjective) Loss(preds *mat.Dense, labels []int) (float64, error) {
	if f.loss != nil {
		return f.loss(preds, labels)
	}
	return f.fallback.Loss(preds, labels)
}

// Name returns the objective's name.
func (f *FuncObjective) Name() string {
	return f.name
}
