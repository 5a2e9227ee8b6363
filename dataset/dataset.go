// Package dataset provides the training data container, a seeded
// synthetic data generator for demonstration runs, and NumPy .npy
// import/export so fixtures can be cross-checked against Python runs.
package dataset

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	mcxgbErrors "github.com/hrmn-preet/multi-class-xgboost/pkg/errors"
)

// Dataset bundles a feature matrix with integer class labels and
// optional per-sample weights.
type Dataset struct {
	Data   *mat.Dense
	Labels []int
	Weight []float64
}

// Option configures a Dataset.
type Option func(*Dataset)

// WithWeight sets per-sample weights.
func WithWeight(weight []float64) Option {
	return func(ds *Dataset) {
		ds.Weight = weight
	}
}

// New validates and wraps the given data and labels.
func New(data *mat.Dense, labels []int, options ...Option) (*Dataset, error) {
	if data == nil {
		return nil, mcxgbErrors.NewValueError("dataset.New", "data cannot be nil")
	}
	rows, cols := data.Dims()
	if rows == 0 || cols == 0 {
		return nil, mcxgbErrors.NewValueError("dataset.New", "data cannot be empty")
	}
	if len(labels) != rows {
		return nil, mcxgbErrors.NewDimensionError("dataset.New", rows, len(labels), 0)
	}

	ds := &Dataset{Data: data, Labels: labels}
	for _, opt := range options {
		opt(ds)
	}

	if ds.Weight != nil && len(ds.Weight) != rows {
		return nil, mcxgbErrors.NewDimensionError("dataset.New", rows, len(ds.Weight), 0)
	}
	return ds, nil
}

// NumSamples returns the number of rows.
func (ds *Dataset) NumSamples() int {
	rows, _ := ds.Data.Dims()
	return rows
}

// NumFeatures returns the number of feature columns.
func (ds *Dataset) NumFeatures() int {
	_, cols := ds.Data.Dims()
	return cols
}

// Synthetic generates a deterministic multiclass blob dataset: each
// class gets a Gaussian center and samples scatter around the center of
// a label drawn uniformly at random. The same seed always yields the
// same data.
func Synthetic(samples, features, classes int, seed uint64) (*Dataset, error) {
	if samples <= 0 {
		return nil, mcxgbErrors.NewValidationError("samples", "must be positive", samples)
	}
	if features <= 0 {
		return nil, mcxgbErrors.NewValidationError("features", "must be positive", features)
	}
	if classes < 2 {
		return nil, mcxgbErrors.NewValidationError("classes", "must be at least 2", classes)
	}

	// G404: math/rand is fine for synthetic ML data, not cryptography.
	r := rand.New(rand.NewPCG(seed, seed))

	centers := make([][]float64, classes)
	for c := range centers {
		centers[c] = make([]float64, features)
		for j := range centers[c] {
			centers[c][j] = r.NormFloat64() * 4.0
		}
	}

	data := mat.NewDense(samples, features, nil)
	labels := make([]int, samples)
	for i := 0; i < samples; i++ {
		label := r.IntN(classes)
		labels[i] = label
		for j := 0; j < features; j++ {
			data.Set(i, j, centers[label][j]+r.NormFloat64())
		}
	}

	return &Dataset{Data: data, Labels: labels}, nil
}
