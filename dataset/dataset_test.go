package dataset

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestNew(t *testing.T) {
	data := mat.NewDense(3, 2, []float64{
		1.0, 2.0,
		3.0, 4.0,
		5.0, 6.0,
	})

	t.Run("valid dataset", func(t *testing.T) {
		ds, err := New(data, []int{0, 1, 0})
		require.NoError(t, err)
		assert.Equal(t, 3, ds.NumSamples())
		assert.Equal(t, 2, ds.NumFeatures())
		assert.Nil(t, ds.Weight)
	})

	t.Run("with weights", func(t *testing.T) {
		ds, err := New(data, []int{0, 1, 0}, WithWeight([]float64{1.0, 2.0, 0.5}))
		require.NoError(t, err)
		assert.Equal(t, []float64{1.0, 2.0, 0.5}, ds.Weight)
	})

	t.Run("nil data", func(t *testing.T) {
		_, err := New(nil, []int{0})
		assert.Error(t, err)
	})

	t.Run("label count mismatch", func(t *testing.T) {
		_, err := New(data, []int{0, 1})
		assert.Error(t, err)
	})

	t.Run("weight count mismatch", func(t *testing.T) {
		_, err := New(data, []int{0, 1, 0}, WithWeight([]float64{1.0}))
		assert.Error(t, err)
	})
}

func TestSynthetic(t *testing.T) {
	t.Run("shapes and label range", func(t *testing.T) {
		ds, err := Synthetic(50, 4, 3, 1)
		require.NoError(t, err)
		assert.Equal(t, 50, ds.NumSamples())
		assert.Equal(t, 4, ds.NumFeatures())
		require.Len(t, ds.Labels, 50)
		for i, label := range ds.Labels {
			assert.GreaterOrEqual(t, label, 0, "sample %d", i)
			assert.Less(t, label, 3, "sample %d", i)
		}
	})

	t.Run("same seed reproduces the data", func(t *testing.T) {
		a, err := Synthetic(30, 5, 4, 99)
		require.NoError(t, err)
		b, err := Synthetic(30, 5, 4, 99)
		require.NoError(t, err)

		assert.Equal(t, a.Labels, b.Labels)
		assert.True(t, mat.Equal(a.Data, b.Data))
	})

	t.Run("different seeds differ", func(t *testing.T) {
		a, err := Synthetic(30, 5, 4, 1)
		require.NoError(t, err)
		b, err := Synthetic(30, 5, 4, 2)
		require.NoError(t, err)
		assert.False(t, mat.Equal(a.Data, b.Data))
	})

	t.Run("parameter validation", func(t *testing.T) {
		cases := []struct {
			name                       string
			samples, features, classes int
		}{
			{name: "zero samples", samples: 0, features: 2, classes: 2},
			{name: "zero features", samples: 10, features: 0, classes: 2},
			{name: "one class", samples: 10, features: 2, classes: 1},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := Synthetic(tc.samples, tc.features, tc.classes, 0)
				assert.Error(t, err)
			})
		}
	})
}

func TestNPYRoundTrip(t *testing.T) {
	dir := t.TempDir()

	t.Run("matrix", func(t *testing.T) {
		path := filepath.Join(dir, "data.npy")
		original := mat.NewDense(3, 2, []float64{
			1.5, -2.0,
			0.0, 4.25,
			-1.0, 3.5,
		})

		require.NoError(t, SaveMatrixNPY(path, original))
		loaded, err := LoadMatrixNPY(path)
		require.NoError(t, err)
		assert.True(t, mat.Equal(original, loaded))
	})

	t.Run("labels", func(t *testing.T) {
		path := filepath.Join(dir, "labels.npy")
		labels := []int{0, 2, 1, 3, 0}

		require.NoError(t, SaveLabelsNPY(path, labels))
		loaded, err := LoadLabelsNPY(path)
		require.NoError(t, err)
		assert.Equal(t, labels, loaded)
	})

	t.Run("nil matrix rejected", func(t *testing.T) {
		err := SaveMatrixNPY(filepath.Join(dir, "nil.npy"), nil)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadMatrixNPY(filepath.Join(dir, "does-not-exist.npy"))
		assert.Error(t, err)
	})
}
