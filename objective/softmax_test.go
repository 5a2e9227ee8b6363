package objective

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	mcxgbErrors "github.com/hrmn-preet/multi-class-xgboost/pkg/errors"
)

func TestNewSoftmax(t *testing.T) {
	tests := []struct {
		name     string
		numClass int
		wantErr  bool
	}{
		{name: "binary is the minimum", numClass: 2, wantErr: false},
		{name: "typical multiclass", numClass: 4, wantErr: false},
		{name: "single class rejected", numClass: 1, wantErr: true},
		{name: "zero classes rejected", numClass: 0, wantErr: true},
		{name: "negative classes rejected", numClass: -3, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj, err := NewSoftmax(tt.numClass)
			if tt.wantErr {
				assert.Error(t, err)
				var validationErr *mcxgbErrors.ValidationError
				assert.True(t, mcxgbErrors.As(err, &validationErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.numClass, obj.NumClass())
			assert.Equal(t, "multi:softmax", obj.Name())
		})
	}
}

func TestSoftmaxGradHessUniformStart(t *testing.T) {
	// All-zero raw scores mean a uniform distribution p = 1/K, so the
	// gradient and Hessian entries are known in closed form.
	obj, err := NewSoftmax(3)
	require.NoError(t, err)

	preds := mat.NewDense(2, 3, nil)
	labels := []int{0, 2}

	grad, hess, err := obj.GradHess(preds, labels, nil)
	require.NoError(t, err)

	p := 1.0 / 3.0
	wantHess := 2.0 * p * (1.0 - p)

	for i := 0; i < 2; i++ {
		for c := 0; c < 3; c++ {
			wantGrad := p
			if c == labels[i] {
				wantGrad = p - 1.0
			}
			assert.InDelta(t, wantGrad, grad.At(i, c), 1e-12, "grad[%d][%d]", i, c)
			assert.InDelta(t, wantHess, hess.At(i, c), 1e-12, "hess[%d][%d]", i, c)
		}
	}
}

func TestSoftmaxGradRowsSumToZero(t *testing.T) {
	// Softmax probabilities sum to one, so the per-row gradient sum
	// p[0]+...+p[K-1] - 1 must vanish for unweighted samples.
	obj, err := NewSoftmax(4)
	require.NoError(t, err)

	preds := mat.NewDense(3, 4, []float64{
		1.5, -0.2, 0.7, 3.1,
		-2.0, -2.0, -2.0, -2.0,
		0.0, 10.0, -5.0, 2.5,
	})
	labels := []int{3, 0, 1}

	grad, _, err := obj.GradHess(preds, labels, nil)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		sum := 0.0
		for c := 0; c < 4; c++ {
			sum += grad.At(i, c)
		}
		assert.InDelta(t, 0.0, sum, 1e-12, "row %d", i)
	}
}

func TestSoftmaxHessianFloor(t *testing.T) {
	// A dominant raw score saturates the distribution. Every curvature
	// entry must still come back at or above the floor.
	obj, err := NewSoftmax(3)
	require.NoError(t, err)

	preds := mat.NewDense(2, 3, []float64{
		100.0, 0.0, 0.0,
		-50.0, 80.0, -50.0,
	})
	labels := []int{0, 1}

	grad, hess, err := obj.GradHess(preds, labels, nil)
	require.NoError(t, err)

	rows, cols := hess.Dims()
	for i := 0; i < rows; i++ {
		for c := 0; c < cols; c++ {
			h := hess.At(i, c)
			assert.GreaterOrEqual(t, h, DefaultHessianFloor, "hess[%d][%d]", i, c)
			assert.False(t, math.IsNaN(h))
		}
	}

	// Saturated and correct: the winning class gradient is ~0, the
	// losing classes' gradients are ~0 as well.
	for c := 0; c < 3; c++ {
		assert.InDelta(t, 0.0, grad.At(0, c), 1e-12)
	}
}

func TestSoftmaxGradHessWeights(t *testing.T) {
	obj, err := NewSoftmax(3)
	require.NoError(t, err)

	preds := mat.NewDense(2, 3, []float64{
		0.5, 1.0, -0.5,
		0.5, 1.0, -0.5,
	})
	labels := []int{1, 1}
	weights := []float64{1.0, 3.0}

	grad, hess, err := obj.GradHess(preds, labels, weights)
	require.NoError(t, err)

	// Identical rows, so the weighted row is exactly the unweighted row
	// scaled by its weight (the floor never binds at these scores).
	for c := 0; c < 3; c++ {
		assert.InDelta(t, 3.0*grad.At(0, c), grad.At(1, c), 1e-12, "grad col %d", c)
		assert.InDelta(t, 3.0*hess.At(0, c), hess.At(1, c), 1e-12, "hess col %d", c)
	}
}

func TestSoftmaxGradHessZeroWeight(t *testing.T) {
	// A zero weight kills the gradient but the Hessian floor still
	// applies, keeping downstream Newton steps finite.
	obj, err := NewSoftmax(2)
	require.NoError(t, err)

	preds := mat.NewDense(1, 2, []float64{0.3, -0.3})
	grad, hess, err := obj.GradHess(preds, []int{0}, []float64{0.0})
	require.NoError(t, err)

	assert.Equal(t, 0.0, grad.At(0, 0))
	assert.Equal(t, 0.0, grad.At(0, 1))
	assert.Equal(t, DefaultHessianFloor, hess.At(0, 0))
	assert.Equal(t, DefaultHessianFloor, hess.At(0, 1))
}

func TestSoftmaxGradHessDeterministic(t *testing.T) {
	obj, err := NewSoftmax(4)
	require.NoError(t, err)

	preds := mat.NewDense(3, 4, []float64{
		0.1, 0.2, 0.3, 0.4,
		-1.0, 2.0, -3.0, 4.0,
		5.5, 5.5, 5.5, 5.5,
	})
	labels := []int{0, 3, 2}

	grad1, hess1, err := obj.GradHess(preds, labels, nil)
	require.NoError(t, err)
	grad2, hess2, err := obj.GradHess(preds, labels, nil)
	require.NoError(t, err)

	assert.True(t, mat.Equal(grad1, grad2), "gradients must be bit-identical across calls")
	assert.True(t, mat.Equal(hess1, hess2), "Hessians must be bit-identical across calls")
}

func TestSoftmaxValidation(t *testing.T) {
	obj, err := NewSoftmax(3)
	require.NoError(t, err)

	valid := mat.NewDense(2, 3, nil)

	tests := []struct {
		name    string
		preds   *mat.Dense
		labels  []int
		weights []float64
		check   func(t *testing.T, err error)
	}{
		{
			name:   "nil predictions",
			preds:  nil,
			labels: []int{0, 1},
			check: func(t *testing.T, err error) {
				var valueErr *mcxgbErrors.ValueError
				assert.True(t, mcxgbErrors.As(err, &valueErr))
			},
		},
		{
			name:   "wrong class count",
			preds:  mat.NewDense(2, 4, nil),
			labels: []int{0, 1},
			check: func(t *testing.T, err error) {
				var dimErr *mcxgbErrors.DimensionError
				require.True(t, mcxgbErrors.As(err, &dimErr))
				assert.Equal(t, 1, dimErr.Axis)
				assert.Equal(t, 3, dimErr.Expected)
				assert.Equal(t, 4, dimErr.Got)
			},
		},
		{
			name:   "label count mismatch",
			preds:  valid,
			labels: []int{0},
			check: func(t *testing.T, err error) {
				var dimErr *mcxgbErrors.DimensionError
				require.True(t, mcxgbErrors.As(err, &dimErr))
				assert.Equal(t, 0, dimErr.Axis)
			},
		},
		{
			name:    "weight count mismatch",
			preds:   valid,
			labels:  []int{0, 1},
			weights: []float64{1.0},
			check: func(t *testing.T, err error) {
				var dimErr *mcxgbErrors.DimensionError
				assert.True(t, mcxgbErrors.As(err, &dimErr))
			},
		},
		{
			name:   "label above range",
			preds:  valid,
			labels: []int{0, 3},
			check: func(t *testing.T, err error) {
				var validationErr *mcxgbErrors.ValidationError
				require.True(t, mcxgbErrors.As(err, &validationErr))
				assert.Equal(t, "labels", validationErr.ParamName)
			},
		},
		{
			name:   "negative label",
			preds:  valid,
			labels: []int{-1, 0},
			check: func(t *testing.T, err error) {
				var validationErr *mcxgbErrors.ValidationError
				assert.True(t, mcxgbErrors.As(err, &validationErr))
			},
		},
		{
			name:    "negative weight",
			preds:   valid,
			labels:  []int{0, 1},
			weights: []float64{1.0, -0.5},
			check: func(t *testing.T, err error) {
				var validationErr *mcxgbErrors.ValidationError
				require.True(t, mcxgbErrors.As(err, &validationErr))
				assert.Equal(t, "weights", validationErr.ParamName)
			},
		},
		{
			name:   "empty predictions",
			preds:  &mat.Dense{},
			labels: nil,
			check: func(t *testing.T, err error) {
				assert.Error(t, err)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := obj.GradHess(tt.preds, tt.labels, tt.weights)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestSoftmaxLoss(t *testing.T) {
	obj, err := NewSoftmax(3)
	require.NoError(t, err)

	t.Run("uniform scores give log K", func(t *testing.T) {
		preds := mat.NewDense(4, 3, nil)
		loss, err := obj.Loss(preds, []int{0, 1, 2, 0})
		require.NoError(t, err)
		assert.InDelta(t, math.Log(3), loss, 1e-12)
	})

	t.Run("confident correct predictions approach zero loss", func(t *testing.T) {
		preds := mat.NewDense(2, 3, []float64{
			50.0, 0.0, 0.0,
			0.0, 0.0, 50.0,
		})
		loss, err := obj.Loss(preds, []int{0, 2})
		require.NoError(t, err)
		assert.Less(t, loss, 1e-9)
	})

	t.Run("extreme scores stay finite", func(t *testing.T) {
		preds := mat.NewDense(1, 3, []float64{1000.0, -1000.0, 0.0})
		loss, err := obj.Loss(preds, []int{1})
		require.NoError(t, err)
		assert.False(t, math.IsNaN(loss))
		assert.False(t, math.IsInf(loss, 0))
	})
}

func TestSoftmaxErrorRate(t *testing.T) {
	obj, err := NewSoftmax(3)
	require.NoError(t, err)

	preds := mat.NewDense(4, 3, []float64{
		2.0, 0.0, 0.0, // argmax 0
		0.0, 2.0, 0.0, // argmax 1
		0.0, 0.0, 2.0, // argmax 2
		2.0, 0.0, 0.0, // argmax 0
	})

	tests := []struct {
		name   string
		labels []int
		want   float64
	}{
		{name: "all correct", labels: []int{0, 1, 2, 0}, want: 0.0},
		{name: "all wrong", labels: []int{1, 2, 0, 1}, want: 1.0},
		{name: "half wrong", labels: []int{0, 1, 0, 1}, want: 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rate, err := obj.ErrorRate(preds, tt.labels)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, rate, 1e-15)
		})
	}
}

func TestPredictClass(t *testing.T) {
	tests := []struct {
		name  string
		preds *mat.Dense
		want  []int
	}{
		{
			name: "clear winners",
			preds: mat.NewDense(3, 3, []float64{
				5.0, 1.0, 1.0,
				1.0, 5.0, 1.0,
				1.0, 1.0, 5.0,
			}),
			want: []int{0, 1, 2},
		},
		{
			name: "ties resolve to the lowest index",
			preds: mat.NewDense(3, 3, []float64{
				2.0, 2.0, 0.0,
				0.0, 3.0, 3.0,
				1.0, 1.0, 1.0,
			}),
			want: []int{0, 1, 0},
		},
		{
			name: "negative scores",
			preds: mat.NewDense(1, 3, []float64{
				-5.0, -1.0, -3.0,
			}),
			want: []int{1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PredictClass(tt.preds))
		})
	}
}

func TestSoftmaxRow(t *testing.T) {
	t.Run("sums to one", func(t *testing.T) {
		probs := SoftmaxRow([]float64{0.3, -1.2, 2.5, 0.0})
		sum := 0.0
		for _, p := range probs {
			assert.GreaterOrEqual(t, p, 0.0)
			sum += p
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
	})

	t.Run("large scores do not overflow", func(t *testing.T) {
		probs := SoftmaxRow([]float64{1000.0, 1000.0})
		assert.InDelta(t, 0.5, probs[0], 1e-12)
		assert.InDelta(t, 0.5, probs[1], 1e-12)
	})

	t.Run("very negative scores do not underflow to NaN", func(t *testing.T) {
		probs := SoftmaxRow([]float64{-1000.0, -1000.0, -1000.0})
		for _, p := range probs {
			assert.False(t, math.IsNaN(p))
			assert.InDelta(t, 1.0/3.0, p, 1e-12)
		}
	})
}
